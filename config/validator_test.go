package config

import (
	"testing"

	"github.com/wesleyorama2/mande/http"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		file      File
		wantPaths []string
	}{
		{
			name: "valid file",
			file: File{
				Profile: Profile{BaseURL: "https://api.example.com", ResponseAs: http.ResponseJSON},
				Environments: map[string]Profile{
					"local": {BaseURL: "/api"},
				},
			},
		},
		{
			name: "templated base url is not parsed",
			file: File{Profile: Profile{BaseURL: "{{host}}/api"}},
		},
		{
			name:      "bad response mode",
			file:      File{Profile: Profile{ResponseAs: "xml"}},
			wantPaths: []string{"responseAs"},
		},
		{
			name:      "base url without scheme",
			file:      File{Profile: Profile{BaseURL: "api.example.com"}},
			wantPaths: []string{"baseUrl"},
		},
		{
			name:      "base url without host",
			file:      File{Profile: Profile{BaseURL: "https://"}},
			wantPaths: []string{"baseUrl"},
		},
		{
			name: "bad header name in environment",
			file: File{Environments: map[string]Profile{
				"staging": {Headers: http.Headers{"Bad Header": http.Value("x")}},
			}},
			wantPaths: []string{"environments.staging.headers.Bad Header"},
		},
		{
			name: "empty environment name",
			file: File{Environments: map[string]Profile{
				" ": {},
			}},
			wantPaths: []string{"environments"},
		},
		{
			name:      "empty query key",
			file:      File{Profile: Profile{Query: http.NewQuery("", 1)}},
			wantPaths: []string{"query"},
		},
		{
			name:      "schema of wrong type",
			file:      File{Schemas: map[string]any{"user": "object"}},
			wantPaths: []string{"schemas.user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.file)
			if len(errs) != len(tt.wantPaths) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantPaths), len(errs), errs)
			}
			for i, want := range tt.wantPaths {
				if errs[i].Path != want {
					t.Errorf("Expected error path %s, got %s", want, errs[i].Path)
				}
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Path: "a", Message: "first"},
		{Path: "b.c", Message: "second"},
	}

	if got := errs.Error(); got != "a: first; b.c: second" {
		t.Errorf("Unexpected message %q", got)
	}
}
