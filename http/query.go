package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Query is an insertion-ordered mapping of query parameters. Setting an
// existing key replaces its value but keeps its position. Values are
// primitives; arrays are not supported.
//
// The zero value is ready to use.
type Query struct {
	keys []string
	vals map[string]string
}

// NewQuery builds a Query from alternating key/value pairs. A trailing key
// without a value is ignored.
func NewQuery(kv ...any) *Query {
	q := &Query{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return q
}

// Set sets key to the string form of value.
func (q *Query) Set(key string, value any) *Query {
	if q.vals == nil {
		q.vals = make(map[string]string)
	}
	if _, ok := q.vals[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.vals[key] = formatPrimitive(value)
	return q
}

// Get returns the value for key.
func (q *Query) Get(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	v, ok := q.vals[key]
	return v, ok
}

// Del removes key.
func (q *Query) Del(key string) *Query {
	if _, ok := q.vals[key]; !ok {
		return q
	}
	delete(q.vals, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i:i], q.keys[i+1:]...)
			break
		}
	}
	return q
}

// Keys returns the keys in insertion order.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.keys...)
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Clone returns an independent copy. Cloning nil yields an empty Query.
func (q *Query) Clone() *Query {
	out := &Query{}
	out.merge(q)
	return out
}

// merge layers src over q, key by key.
func (q *Query) merge(src *Query) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		if q.vals == nil {
			q.vals = make(map[string]string, len(src.keys))
		}
		if _, ok := q.vals[k]; !ok {
			q.keys = append(q.keys, k)
		}
		q.vals[k] = src.vals[k]
	}
}

// Encode renders "k=v&k2=v2" in insertion order, component-encoding keys and
// values. It returns "" for an empty Query.
func (q *Query) Encode() string {
	if q.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(EscapeComponent(k))
		sb.WriteByte('=')
		sb.WriteString(EscapeComponent(q.vals[k]))
	}
	return sb.String()
}

// String returns Encode prefixed with "?" when there is at least one pair.
func (q *Query) String() string {
	s := q.Encode()
	if s == "" {
		return ""
	}
	return "?" + s
}

// UnmarshalJSON decodes an object, keeping key order.
func (q *Query) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("query: expected an object")
	}

	out := Query{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		key := tok.(string)

		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("query: %s: %w", key, err)
		}
		switch val.(type) {
		case []any, map[string]any:
			return fmt.Errorf("query: %s: value must be a primitive", key)
		}
		out.Set(key, val)
	}
	*q = out
	return nil
}

// MarshalJSON encodes the pairs as an object of strings in insertion order.
func (q *Query) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range q.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(q.vals[k])
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a mapping of scalars, keeping key order.
func (q *Query) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("query: line %d: expected a mapping", node.Line)
	}
	out := Query{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("query: line %d: %q must be a scalar", val.Line, key.Value)
		}
		if val.Tag == "!!null" {
			out.Set(key.Value, nil)
			continue
		}
		out.Set(key.Value, val.Value)
	}
	*q = out
	return nil
}

// formatPrimitive renders a query value the way a JavaScript String() call
// would for primitives.
func formatPrimitive(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatNumber(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Exponent form drops the zero padding Go adds: 1e-07 is written 1e-7.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

const upperhex = "0123456789ABCDEF"

// EscapeComponent percent-encodes s the way JavaScript's encodeURIComponent
// does: letters, digits and - _ . ! ~ * ' ( ) are kept, every other byte of
// the UTF-8 encoding becomes %XX.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !keepInComponent(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepInComponent(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func keepInComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
