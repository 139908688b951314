package http

import "strings"

// JoinURL appends path to base without ever producing a double slash at the
// join point and without forcing a trailing slash:
//
//	JoinURL("/api", "")   == "/api"
//	JoinURL("/api", "/")  == "/api/"
//	JoinURL("/api/", "2") == "/api/2"
//	JoinURL("/api", "2")  == "/api/2"
//
// base is used verbatim, so absolute URLs keep their scheme and host.
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	if strings.HasSuffix(base, "/") {
		return base + strings.TrimLeft(path, "/")
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}
