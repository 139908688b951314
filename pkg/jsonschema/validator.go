package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

const resourceName = "schema.json"

// Compile compiles a schema given as JSON text (string or []byte) or as an
// already decoded value such as a map loaded from a config file.
func Compile(src any) (*Schema, error) {
	var raw []byte
	switch s := src.(type) {
	case string:
		raw = []byte(s)
	case []byte:
		raw = s
	default:
		b, err := json.Marshal(src)
		if err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		raw = b
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// Validate validates a decoded value, such as a dispatcher result or a
// struct. A nil result means v is valid.
func (s *Schema) Validate(v any) ValidationErrors {
	doc, err := normalize(v)
	if err != nil {
		return ValidationErrors{err}
	}

	if err := s.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return flatten(validationErr)
		}
		return ValidationErrors{err}
	}
	return nil
}

// ValidateJSON validates a JSON document.
func (s *Schema) ValidateJSON(doc string) ValidationErrors {
	var v any
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}
	return s.Validate(v)
}

// Validate validates a JSON document against a schema in one call.
// It returns false with a nil error for documents the schema rejects, and
// an error when the schema or the document cannot be parsed.
func Validate(jsonStr, schemaStr string) (bool, error) {
	schema, err := Compile(schemaStr)
	if err != nil {
		return false, err
	}

	var v any
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return false, fmt.Errorf("invalid JSON: %w", err)
	}

	return len(schema.Validate(v)) == 0, nil
}

// normalize round-trips v through JSON so only the types the validator
// knows remain.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

// flatten collects the leaf messages of a jsonschema.ValidationError tree
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors

	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}

	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}

	return errs
}
