package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CollectionKind describes how a document stores its records.
type CollectionKind string

const (
	// KindArray is a top-level field holding a JSON array of objects.
	KindArray CollectionKind = "array"
	// KindMap is a top-level field holding an object of objects keyed by name.
	KindMap CollectionKind = "map"
	// KindDocument accepts any JSON object; used for pass-through documents.
	KindDocument CollectionKind = "document"
)

// DocumentSpec declares the expected shape of one store document.
type DocumentSpec struct {
	Field string
	Kind  CollectionKind
	// ItemTypes constrains record keys when present, e.g. "source": "string".
	// Null is always accepted alongside the declared type.
	ItemTypes map[string]string
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled document schema.
type Schema struct {
	spec   DocumentSpec
	schema *gojsonschema.Schema
}

// Compile builds the JSON Schema for spec.
func Compile(spec DocumentSpec) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(BuildSchema(spec)))
	if err != nil {
		return nil, fmt.Errorf("compile schema for %q: %w", spec.Field, err)
	}
	return &Schema{spec: spec, schema: compiled}, nil
}

// MustCompile is Compile for package-level schema tables.
func MustCompile(spec DocumentSpec) *Schema {
	s, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// BuildSchema returns the schema as a Go value.
func BuildSchema(spec DocumentSpec) map[string]interface{} {
	root := map[string]interface{}{
		"type": "object",
	}
	if spec.Kind == KindDocument || spec.Field == "" {
		return root
	}

	item := map[string]interface{}{"type": "object"}
	if len(spec.ItemTypes) > 0 {
		props := make(map[string]interface{}, len(spec.ItemTypes))
		for key, typ := range spec.ItemTypes {
			props[key] = map[string]interface{}{"type": []interface{}{typ, "null"}}
		}
		item["properties"] = props
	}

	var field map[string]interface{}
	switch spec.Kind {
	case KindMap:
		field = map[string]interface{}{
			"type":                 "object",
			"additionalProperties": item,
		}
	default:
		field = map[string]interface{}{
			"type":  "array",
			"items": item,
		}
	}

	root["properties"] = map[string]interface{}{spec.Field: field}
	root["required"] = []interface{}{spec.Field}
	return root
}

// ValidateBytes checks a raw JSON document. A decode failure is returned as
// an error; schema violations are reported in the result.
func (s *Schema) ValidateBytes(data []byte) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewBytesLoader(data))
}

// ValidateValue checks an already decoded document.
func (s *Schema) ValidateValue(doc interface{}) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewGoLoader(doc))
}

func (s *Schema) validate(loader gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := s.schema.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// Err folds a failed result into a single error, or nil when valid.
func (vr *ValidationResult) Err() error {
	if vr == nil || vr.Valid {
		return nil
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(vr.GetErrorMessages(), "; "))
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}
