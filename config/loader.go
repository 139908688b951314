package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/mande/http"
)

// File represents the top-level configuration file structure. The top-level
// profile applies to every environment.
type File struct {
	Profile `yaml:",inline"`

	// Environments defines named profiles layered over the top-level one
	Environments map[string]Profile `json:"environments,omitempty" yaml:"environments,omitempty"`

	// Schemas defines JSON schemas by name, usable with --schema
	Schemas map[string]any `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// Profile is one layer of instance configuration.
type Profile struct {
	// BaseURL is the base URL requests are joined to
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`

	// Headers are default headers; null removes a header set by a lower layer
	Headers http.Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Query holds default query parameters
	Query *http.Query `json:"query,omitempty" yaml:"query,omitempty"`

	// ResponseAs selects how successful bodies are decoded
	ResponseAs http.ResponseAs `json:"responseAs,omitempty" yaml:"responseAs,omitempty"`

	// Vars are substituted into the base URL, header values and query values
	Vars map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Load reads a configuration file. Files ending in .yaml or .yml are parsed
// as YAML, .json as JSON. The loaded file is validated.
func Load(path string) (*File, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	if errs := Validate(f); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config file %s: %w", path, errs)
	}

	return f, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or ".json").
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return &f, nil
}

// Resolve returns the top-level profile with the named environment layered
// over it. An empty name resolves the top-level profile alone.
//
// Example:
//
//	p, err := f.Resolve("staging")
//	api := http.New(p.BaseURL, http.WithOptions(p.Options()))
func (f *File) Resolve(env string) (Profile, error) {
	base := f.Profile
	if env == "" {
		return base.expand(), nil
	}

	override, ok := f.Environments[env]
	if !ok {
		return Profile{}, fmt.Errorf("environment not found: %s", env)
	}
	return base.merge(override).expand(), nil
}

// EnvironmentNames returns the environment names in sorted order.
func (f *File) EnvironmentNames() []string {
	names := make([]string, 0, len(f.Environments))
	for name := range f.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the named schema.
func (f *File) Schema(name string) (any, bool) {
	s, ok := f.Schemas[name]
	return s, ok
}

// Options converts the profile to an instance options layer.
func (p Profile) Options() *http.Options {
	opts := http.NewOptions()
	opts.ResponseAs = p.ResponseAs
	if p.Query != nil {
		opts.Query = p.Query.Clone()
	}
	for k, v := range p.Headers {
		opts.Headers[http.CanonicalKey(k)] = v
	}
	return opts
}

// merge layers override over p. Headers and query are merged key by key,
// scalars are replaced when set.
func (p Profile) merge(override Profile) Profile {
	out := Profile{
		BaseURL:    p.BaseURL,
		Headers:    http.Headers{},
		Query:      &http.Query{},
		ResponseAs: p.ResponseAs,
		Vars:       MergeVars(p.Vars, override.Vars),
	}
	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	if override.ResponseAs != "" {
		out.ResponseAs = override.ResponseAs
	}
	for _, layer := range []Profile{p, override} {
		for k, v := range layer.Headers {
			out.Headers[http.CanonicalKey(k)] = v
		}
		for _, k := range layer.Query.Keys() {
			v, _ := layer.Query.Get(k)
			out.Query.Set(k, v)
		}
	}
	return out
}

// expand substitutes Vars into the base URL and values.
func (p Profile) expand() Profile {
	out := p
	out.BaseURL = ProcessVars(p.BaseURL, p.Vars)

	if p.Headers != nil {
		out.Headers = make(http.Headers, len(p.Headers))
		for k, v := range p.Headers {
			if v.IsRemove() {
				out.Headers[k] = v
				continue
			}
			out.Headers[k] = http.Value(ProcessVars(v.String(), p.Vars))
		}
	}

	if p.Query != nil {
		out.Query = &http.Query{}
		for _, k := range p.Query.Keys() {
			v, _ := p.Query.Get(k)
			out.Query.Set(k, ProcessVars(v, p.Vars))
		}
	}
	return out
}

// ProcessVars substitutes {{name}} references in input.
//
// Example:
//
//	url := config.ProcessVars("{{host}}/users", map[string]string{
//	    "host": "https://api.example.com",
//	})
//	// Result: "https://api.example.com/users"
func ProcessVars(input string, vars map[string]string) string {
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// MergeVars merges two variable sets, with override taking precedence.
func MergeVars(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
