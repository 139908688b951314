package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	mande "github.com/wesleyorama2/mande/http"
)

// parseHeaders reads repeated -H 'Name: value' flags. An empty value is
// kept as an empty header; names given to --unset-header are removed.
func parseHeaders(values, unset []string) (mande.Headers, error) {
	headers := mande.Headers{}

	for _, header := range values {
		parts := strings.SplitN(header, ":", 2)
		name := strings.TrimSpace(parts[0])
		if len(parts) != 2 || name == "" {
			return nil, fmt.Errorf("invalid header %q (want 'Name: value')", header)
		}
		headers.Set(name, strings.TrimSpace(parts[1]))
	}

	for _, name := range unset {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("--unset-header needs a header name")
		}
		headers.Remove(name)
	}

	return headers, nil
}

// parseQuery adds repeated -q key=value flags to q, in order.
func parseQuery(q *mande.Query, values []string) error {
	for _, pair := range values {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid query parameter %q (want key=value)", pair)
		}
		q.Set(key, value)
	}
	return nil
}

// parseForm reads repeated -F flags: key=value adds a field, key=@path adds
// the file at path.
func parseForm(values []string) (*mande.FormData, error) {
	form := mande.NewFormData()

	for _, field := range values {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid form field %q (want key=value or key=@file)", field)
		}

		if !strings.HasPrefix(value, "@") {
			form.Append(key, value)
			continue
		}

		path := value[1:]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("form field %s: %w", key, err)
		}
		form.AppendFile(key, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), data)
	}

	return form, nil
}

// parseAs validates --as.
func parseAs(s string) (mande.ResponseAs, error) {
	as := mande.ResponseAs(s)
	if !as.Valid() {
		return "", fmt.Errorf("invalid --as %q (must be json, text or response)", s)
	}
	return as, nil
}
