package jsonschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": { "type": "integer" },
		"name": { "type": "string", "minLength": 1 },
		"tags": { "type": "array", "items": { "type": "string" } }
	}
}`

func TestSchema_Validate(t *testing.T) {
	schema, err := Compile(userSchema)
	require.NoError(t, err)

	tests := []struct {
		name       string
		value      any
		wantErrors int
		atLeast    bool
		contains   string
	}{
		{
			name:  "decoded object",
			value: map[string]any{"id": 2.0, "name": "Eduardo"},
		},
		{
			name:       "missing required",
			value:      map[string]any{"id": 2.0},
			wantErrors: 1,
			contains:   "name",
		},
		{
			name:       "wrong types",
			value:      map[string]any{"id": "2", "name": "", "tags": []any{1}},
			wantErrors: 3,
			atLeast:    true,
		},
		{
			name:       "not an object",
			value:      "plain text",
			wantErrors: 1,
		},
		{
			name: "struct value",
			value: struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}{ID: 1, Name: "x"},
		},
		{
			name:       "fractional id",
			value:      map[string]any{"id": 1.5, "name": "x"},
			wantErrors: 1,
			contains:   "/id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := schema.Validate(tt.value)
			if tt.atLeast {
				assert.GreaterOrEqual(t, len(errs), tt.wantErrors, "errors: %v", errs)
			} else {
				assert.Len(t, errs, tt.wantErrors, "errors: %v", errs)
			}
			if tt.contains != "" {
				assert.Contains(t, errs.Error(), tt.contains)
			}
		})
	}
}

func TestSchema_ValidateJSON(t *testing.T) {
	schema, err := Compile([]byte(userSchema))
	require.NoError(t, err)

	assert.Empty(t, schema.ValidateJSON(`{"id": 1, "name": "a"}`))
	assert.Len(t, schema.ValidateJSON(`{"id": 1}`), 1)

	errs := schema.ValidateJSON(`{broken`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid JSON")
}

func TestCompile_FromDecodedValue(t *testing.T) {
	schema, err := Compile(map[string]any{
		"type":     "array",
		"minItems": 1,
	})
	require.NoError(t, err)

	assert.Empty(t, schema.Validate([]any{1}))
	assert.NotEmpty(t, schema.Validate([]any{}))
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid schema"))

	_, err = Compile(`{not json`)
	require.Error(t, err)

	_, err = Compile(make(chan int))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid, err := Validate(`{"id": 1, "name": "a"}`, userSchema)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = Validate(`{"name": "a"}`, userSchema)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = Validate(`{`, userSchema)
	assert.Error(t, err)
}

func TestValidationErrors_Error(t *testing.T) {
	assert.Equal(t, "", ValidationErrors{}.Error())

	schema, err := Compile(userSchema)
	require.NoError(t, err)
	errs := schema.Validate(map[string]any{})
	assert.Contains(t, errs.Error(), "validation error at /")
}
