package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_ArrayDocument(t *testing.T) {
	schema := MustCompile(DocumentSpec{
		Field:     "companies",
		Kind:      KindArray,
		ItemTypes: map[string]string{"source": "string"},
	})

	tests := []struct {
		name      string
		doc       string
		valid     bool
		errorPath string
	}{
		{
			name:  "well formed",
			doc:   `{"companies": [{"company": "Acme", "source": "Altor"}], "last_updated": "2024-05-01"}`,
			valid: true,
		},
		{
			name:  "null source accepted",
			doc:   `{"companies": [{"company": "Acme", "source": null}]}`,
			valid: true,
		},
		{
			name:  "empty array accepted",
			doc:   `{"companies": []}`,
			valid: true,
		},
		{
			name:      "missing collection field",
			doc:       `{"items": []}`,
			valid:     false,
			errorPath: "(root)",
		},
		{
			name:      "collection is an object",
			doc:       `{"companies": {"Acme": {}}}`,
			valid:     false,
			errorPath: "companies",
		},
		{
			name:      "record is a string",
			doc:       `{"companies": ["Acme"]}`,
			valid:     false,
			errorPath: "companies.0",
		},
		{
			name:      "source has wrong type",
			doc:       `{"companies": [{"company": "Acme", "source": 42}]}`,
			valid:     false,
			errorPath: "companies.0.source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.ValidateBytes([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			if !tt.valid {
				assert.True(t, result.HasErrors(tt.errorPath), result.GetErrorMessages())
				assert.Error(t, result.Err())
			} else {
				assert.NoError(t, result.Err())
			}
		})
	}
}

func TestSchema_MapDocument(t *testing.T) {
	schema := MustCompile(DocumentSpec{Field: "pe_firms", Kind: KindMap})

	result, err := schema.ValidateBytes([]byte(`{"pe_firms": {"Altor": {"name": "Altor"}}}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = schema.ValidateBytes([]byte(`{"pe_firms": [{"name": "Altor"}]}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestSchema_PassThroughDocument(t *testing.T) {
	schema := MustCompile(DocumentSpec{Kind: KindDocument})

	result, err := schema.ValidateValue(map[string]interface{}{"deals": []interface{}{}})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = schema.ValidateBytes([]byte(`[1, 2, 3]`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestSchema_InvalidJSON(t *testing.T) {
	schema := MustCompile(DocumentSpec{Field: "news", Kind: KindArray})

	_, err := schema.ValidateBytes([]byte(`{"news": [`))
	assert.Error(t, err)
}
