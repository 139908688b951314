package http

import (
	"encoding/json"
	"fmt"
	"net/textproto"
	"sort"

	"gopkg.in/yaml.v3"
)

// HeaderValue is one entry of a Headers layer. It either sets a header to a
// value (possibly empty) or removes the header from the merged result.
// A header that is absent from a Headers map inherits from the layers below.
type HeaderValue struct {
	value  string
	remove bool
}

// Value returns a HeaderValue that sets the header to v. An empty string is
// sent as a real, empty header.
func Value(v string) HeaderValue {
	return HeaderValue{value: v}
}

// Remove returns a HeaderValue that drops the header from the merged result,
// whatever the lower layers set.
func Remove() HeaderValue {
	return HeaderValue{remove: true}
}

// String returns the value, or "" for a removal.
func (v HeaderValue) String() string {
	return v.value
}

// IsRemove reports whether v removes the header.
func (v HeaderValue) IsRemove() bool {
	return v.remove
}

// Headers is a header layer keyed by canonical header name.
type Headers map[string]HeaderValue

// CanonicalKey returns the canonical form of a header name.
func CanonicalKey(name string) string {
	return textproto.CanonicalMIMEHeaderKey(name)
}

// Set sets name to value.
func (h Headers) Set(name, value string) Headers {
	h[CanonicalKey(name)] = Value(value)
	return h
}

// Remove marks name for removal.
func (h Headers) Remove(name string) Headers {
	h[CanonicalKey(name)] = Remove()
	return h
}

// Unset deletes name from this layer so it inherits again.
func (h Headers) Unset(name string) Headers {
	delete(h, CanonicalKey(name))
	return h
}

// Lookup returns the entry for name in this layer.
func (h Headers) Lookup(name string) (HeaderValue, bool) {
	v, ok := h[CanonicalKey(name)]
	return v, ok
}

// Clone returns a copy with canonicalized keys.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	for k, v := range h {
		out[CanonicalKey(k)] = v
	}
	return out
}

// Names returns the layer's keys in sorted order.
func (h Headers) Names() []string {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// UnmarshalJSON decodes an object of strings; null means Remove.
func (h *Headers) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("headers: %w", err)
	}
	out := make(Headers, len(raw))
	for k, v := range raw {
		if v == nil {
			out.Remove(k)
			continue
		}
		out.Set(k, *v)
	}
	*h = out
	return nil
}

// MarshalJSON encodes removals as null.
func (h Headers) MarshalJSON() ([]byte, error) {
	raw := make(map[string]*string, len(h))
	for k, v := range h {
		if v.remove {
			raw[k] = nil
			continue
		}
		s := v.value
		raw[k] = &s
	}
	return json.Marshal(raw)
}

// UnmarshalYAML decodes a mapping of scalars; null or ~ means Remove.
func (h *Headers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("headers: line %d: expected a mapping", node.Line)
	}
	out := make(Headers, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("headers: line %d: %q must be a scalar", val.Line, key.Value)
		}
		if val.Tag == "!!null" {
			out.Remove(key.Value)
			continue
		}
		out.Set(key.Value, val.Value)
	}
	*h = out
	return nil
}
