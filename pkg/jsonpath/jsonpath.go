package jsonpath

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract extracts a value from a JSON document using a JSONPath expression.
// Strings are returned unquoted; objects and arrays as their JSON text.
func Extract(doc string, path string) (string, error) {
	// Handle empty JSON
	if doc == "" {
		return "", fmt.Errorf("empty JSON string")
	}

	// Handle empty path
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}

	if !gjson.Valid(doc) {
		return "", fmt.Errorf("invalid JSON document")
	}

	result := gjson.Get(doc, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	// Handle null values
	if result.Type == gjson.Null {
		return "null", nil
	}

	return result.String(), nil
}

// ExtractValue extracts from an already decoded value, such as what a
// dispatcher call resolved to, by encoding it back to JSON first.
func ExtractValue(v any, path string) (string, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return Extract(string(doc), path)
}

// ExtractAll extracts every path from v, in order. Failed paths are
// collected into one error; results for them are empty.
func ExtractAll(v any, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	doc, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}

	results := make([]string, len(paths))
	var errs []string
	for i, path := range paths {
		value, err := Extract(string(doc), path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		results[i] = value
	}

	if len(errs) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(errs, "; "))
	}
	return results, nil
}

// toGjsonPath converts a JSONPath expression to gjson syntax:
//
//	$.users[0].name    -> users.0.name
//	$['a.b'].c         -> a\.b.c
//	$                  -> @this
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}

	var parts []string
	for i := 0; i < len(path); {
		switch c := path[i]; c {
		case '.':
			i++
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				parts = append(parts, escapeKey(path[i+1:]))
				i = len(path)
				continue
			}
			key := path[i+1 : i+end]
			key = strings.Trim(key, `'"`)
			parts = append(parts, escapeKey(key))
			i += end + 1
		default:
			end := strings.IndexAny(path[i:], ".[")
			if end < 0 {
				end = len(path) - i
			}
			parts = append(parts, path[i:i+end])
			i += end
		}
	}

	if len(parts) == 0 {
		return "@this"
	}
	return strings.Join(parts, ".")
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
