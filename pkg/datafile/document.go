// pkg/datafile/document.go
package datafile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a top-level JSON object with its values left undecoded.
type Document map[string]json.RawMessage

// Has reports whether the document carries field.
func (d Document) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// Decode unmarshals field into target. A missing field leaves target
// untouched and returns false.
func (d Document) Decode(field string, target interface{}) (bool, error) {
	raw, ok := d[field]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return true, fmt.Errorf("decode %q: %w", field, err)
	}
	return true, nil
}

// Value decodes field into a generic value, or returns fallback when the
// field is missing or unreadable.
func (d Document) Value(field string, fallback interface{}) interface{} {
	raw, ok := d[field]
	if !ok {
		return fallback
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

// String returns a string field, or fallback.
func (d Document) String(field, fallback string) string {
	if s, ok := d.Value(field, nil).(string); ok {
		return s
	}
	return fallback
}

// Set encodes value under field. HTML characters are kept as written.
func (d Document) Set(field string, value interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode %q: %w", field, err)
	}
	d[field] = bytes.TrimRight(buf.Bytes(), "\n")
	return nil
}

// Generic decodes the whole document into a plain map.
func (d Document) Generic() map[string]interface{} {
	out := make(map[string]interface{}, len(d))
	for k := range d {
		out[k] = d.Value(k, nil)
	}
	return out
}

// Clone returns a shallow copy; raw values are shared.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
