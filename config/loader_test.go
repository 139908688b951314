package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/mande/http"
)

const sampleYAML = `
baseUrl: https://{{host}}/api
responseAs: json
variables:
  host: api.example.com
  token: prod-token
headers:
  Authorization: Bearer {{token}}
  X-Client: mande
query:
  version: 2
  lang: en
environments:
  staging:
    variables:
      host: staging.example.com
    headers:
      accept: null
      X-Client: ""
    query:
      lang: fr
      debug: true
  local:
    baseUrl: http://localhost:8080/api
    responseAs: text
schemas:
  user:
    type: object
    required: [id]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	f, err := Load(writeFile(t, "mande.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://{{host}}/api", f.BaseURL)
	assert.Equal(t, []string{"local", "staging"}, f.EnvironmentNames())
	assert.Equal(t, []string{"version", "lang"}, f.Query.Keys())

	_, ok := f.Schema("user")
	assert.True(t, ok)
}

func TestLoad_JSON(t *testing.T) {
	content := `{
		"baseUrl": "https://api.example.com",
		"headers": {"X-Client": "mande", "Accept": null},
		"query": {"b": 1, "a": "x"},
		"environments": {"dev": {"baseUrl": "http://localhost:3000"}}
	}`

	f, err := Load(writeFile(t, "mande.json", content))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", f.BaseURL)
	assert.Equal(t, http.Remove(), f.Headers["Accept"])
	assert.Equal(t, "b=1&a=x", f.Query.Encode())
	assert.Equal(t, "http://localhost:3000", f.Environments["dev"].BaseURL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	_, err = Load(writeFile(t, "mande.toml", "baseUrl = 'x'"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")

	_, err = Load(writeFile(t, "bad.json", "{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")

	_, err = Load(writeFile(t, "invalid.yaml", "responseAs: xml\n"))
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "responseAs", verrs[0].Path)
}

func TestResolve_TopLevel(t *testing.T) {
	f, err := Parse([]byte(sampleYAML), ".yaml")
	require.NoError(t, err)

	p, err := f.Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", p.BaseURL)
	assert.Equal(t, http.Value("Bearer prod-token"), p.Headers["Authorization"])
	assert.Equal(t, "version=2&lang=en", p.Query.Encode())
}

func TestResolve_Environment(t *testing.T) {
	f, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)

	p, err := f.Resolve("staging")
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/api", p.BaseURL)
	assert.Equal(t, http.Value("Bearer prod-token"), p.Headers["Authorization"])
	assert.Equal(t, http.Remove(), p.Headers["Accept"])
	assert.Equal(t, http.Value(""), p.Headers["X-Client"])
	assert.Equal(t, "version=2&lang=fr&debug=true", p.Query.Encode())
	assert.Equal(t, http.ResponseJSON, p.ResponseAs)

	p, err = f.Resolve("local")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", p.BaseURL)
	assert.Equal(t, http.ResponseText, p.ResponseAs)

	_, err = f.Resolve("prod")
	assert.EqualError(t, err, "environment not found: prod")
}

func TestResolve_DoesNotMutateFile(t *testing.T) {
	f, err := Parse([]byte(sampleYAML), ".yaml")
	require.NoError(t, err)

	_, err = f.Resolve("staging")
	require.NoError(t, err)

	assert.Equal(t, "version=2&lang=en", f.Query.Encode())
	_, hasAccept := f.Headers.Lookup("Accept")
	assert.False(t, hasAccept)
}

func TestProfile_Options(t *testing.T) {
	p := Profile{
		Headers:    http.Headers{}.Set("X-A", "1").Remove("Accept"),
		Query:      http.NewQuery("page", 1),
		ResponseAs: http.ResponseText,
	}

	opts := p.Options()
	assert.Equal(t, http.ResponseText, opts.ResponseAs)
	assert.Equal(t, "page=1", opts.Query.Encode())
	assert.Equal(t, http.Remove(), opts.Headers["Accept"])

	opts.Query.Set("other", 2)
	assert.Equal(t, 1, p.Query.Len())

	empty := Profile{}.Options()
	assert.NotNil(t, empty.Query)
	assert.NotNil(t, empty.Headers)
}

func TestProcessVars(t *testing.T) {
	got := ProcessVars("{{a}}/{{b}}/{{missing}}", map[string]string{"a": "1", "b": "2"})
	assert.Equal(t, "1/2/{{missing}}", got)
	assert.Equal(t, "plain", ProcessVars("plain", nil))
}

func TestMergeVars(t *testing.T) {
	got := MergeVars(map[string]string{"a": "1", "b": "1"}, map[string]string{"b": "2"})
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
	assert.Empty(t, MergeVars(nil, nil))
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse([]byte("{}"), "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported"))
}
