package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_BuiltinSchemas(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		file    string
		content string
		wantErr bool
	}{
		{"weights json", "weights", "w.json", `{"rating": 1, "mandarin": 2}`, false},
		{"weights yaml", "weights", "w.yaml", "rating: 1\nmeals: 0.5\n", false},
		{"weights all zero", "weights", "w.json", `{"rating": 0}`, true},
		{"weights wrong type", "weights", "w.json", `{"rating": "high"}`, true},
		{"discount list", "discount_list", "d.json", `["Acme Daycare"]`, false},
		{"discount list not a list", "discount_list", "d.json", `{"name": "Acme"}`, true},
		{"providers", "providers", "p.json", acmeBetaProviders, false},
		{"providers missing name", "providers", "p.json", `[{"rating": 4}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			stdout, _, err := executeCommand(t, "validate", "--schema", tt.schema, "--json", path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Validation failed")
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout, "Validation passed")
		})
	}
}

func TestValidateCommand_SchemaFile(t *testing.T) {
	schema := writeFile(t, "contact.schema.json", `{
  "type": "object",
  "required": ["email"],
  "properties": {"email": {"type": "string"}}
}`)

	valid := writeFile(t, "valid.json", `{"email": "a@example.com"}`)
	stdout, _, err := executeCommand(t, "validate", "--schema", schema, "--json", valid)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")

	invalid := writeFile(t, "invalid.json", `{"phone": "555"}`)
	_, _, err = executeCommand(t, "validate", "--schema", schema, "--json", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failed")
	assert.Contains(t, err.Error(), "email")
}

func TestValidateCommand_MissingFlags(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--schema", "weights")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	_, _, err = executeCommand(t, "validate", "--json", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestValidateCommand_MissingJSONFile(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--schema", "weights", "--json", "nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
