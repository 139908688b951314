package cli

import (
	"fmt"
	"net/url"
	"strings"

	mande "github.com/wesleyorama2/mande/http"
)

// resolveTarget splits TARGET into the base URL an instance is bound to, the
// path joined to it and the query parameters written in TARGET.
//
// A TARGET with a scheme, or any TARGET when no base URL is configured, is a
// full URL (http:// is added when the scheme is missing). Otherwise TARGET is
// a path relative to baseURL.
func resolveTarget(target, baseURL string) (base, path string, query *mande.Query, err error) {
	if hasScheme(target) || (baseURL == "" && target != "") {
		full := normalizeURL(target)
		u, err := url.Parse(full)
		if err != nil {
			return "", "", nil, fmt.Errorf("invalid URL %q: %w", target, err)
		}
		if u.Host == "" {
			return "", "", nil, fmt.Errorf("invalid URL %q: no host", target)
		}

		query, err = parseRawQuery(u.RawQuery)
		if err != nil {
			return "", "", nil, err
		}
		u.RawQuery = ""
		u.ForceQuery = false
		u.Fragment = ""
		return u.String(), "", query, nil
	}

	if baseURL == "" {
		return "", "", nil, fmt.Errorf("no target: pass a URL or set baseUrl in the config file")
	}

	path, rawQuery, _ := strings.Cut(target, "?")
	path, _, _ = strings.Cut(path, "#")
	query, err = parseRawQuery(rawQuery)
	if err != nil {
		return "", "", nil, err
	}
	return baseURL, path, query, nil
}

func hasScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// normalizeURL adds a scheme if missing
func normalizeURL(s string) string {
	if hasScheme(s) {
		return s
	}
	return "http://" + s
}

// parseRawQuery decodes a raw query string keeping parameter order.
func parseRawQuery(raw string) (*mande.Query, error) {
	q := &mande.Query{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("invalid query parameter %q: %w", pair, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid query parameter %q: %w", pair, err)
		}
		q.Set(k, v)
	}
	return q, nil
}
