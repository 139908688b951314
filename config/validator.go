package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every problem found in a file.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the file and returns the validation errors. An empty
// result means the file is valid.
//
// Example:
//
//	if errs := config.Validate(f); len(errs) > 0 {
//	    for _, err := range errs {
//	        log.Printf("Validation error: %s", err)
//	    }
//	}
func Validate(f *File) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, f.Profile.Validate("")...)

	for _, name := range f.EnvironmentNames() {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Path:    "environments",
				Message: "environment name cannot be empty",
			})
			continue
		}
		errs = append(errs, f.Environments[name].Validate("environments."+name)...)
	}

	for name, schema := range f.Schemas {
		if _, ok := schema.(map[string]any); !ok {
			if _, ok := schema.(bool); !ok {
				errs = append(errs, ValidationError{
					Path:    "schemas." + name,
					Message: "schema must be an object or a boolean",
				})
			}
		}
	}

	return errs
}

// Validate checks one profile. prefix is prepended to every error path.
func (p Profile) Validate(prefix string) ValidationErrors {
	var errs ValidationErrors
	path := func(field string) string {
		if prefix == "" {
			return field
		}
		return prefix + "." + field
	}

	if !p.ResponseAs.Valid() {
		errs = append(errs, ValidationError{
			Path:    path("responseAs"),
			Message: fmt.Sprintf("invalid responseAs: %s (must be json, text or response)", p.ResponseAs),
		})
	}

	if p.BaseURL != "" && !strings.Contains(p.BaseURL, "{{") {
		if err := validateBaseURL(p.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Path:    path("baseUrl"),
				Message: err.Error(),
			})
		}
	}

	for name := range p.Headers {
		if !validHeaderName(name) {
			errs = append(errs, ValidationError{
				Path:    path("headers." + name),
				Message: "invalid header name",
			})
		}
	}

	for _, key := range p.Query.Keys() {
		if key == "" {
			errs = append(errs, ValidationError{
				Path:    path("query"),
				Message: "query key cannot be empty",
			})
		}
	}

	return errs
}

// validateBaseURL accepts absolute http(s) URLs and root-relative paths.
func validateBaseURL(raw string) error {
	if strings.HasPrefix(raw, "/") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid baseUrl: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("baseUrl must start with http://, https:// or /")
	}
	if u.Host == "" {
		return fmt.Errorf("baseUrl has no host")
	}
	return nil
}

// validHeaderName reports whether name is an RFC 7230 token.
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return true
}
