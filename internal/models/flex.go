// internal/models/flex.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// FlexString holds free-text fields that some data files store as JSON
// numbers (years, headcounts). It always marshals back as a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*f = FlexString(data)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*f = FlexString(data)
	default:
		return fmt.Errorf("cannot decode %s into a text field", truncate(data))
	}
	return nil
}

func (f FlexString) String() string { return string(f) }

// StringList accepts either a JSON array of strings or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []FlexString
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(StringList, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	*l = out
	return nil
}

// Joined returns the items separated by single spaces.
func (l StringList) Joined() string {
	return strings.Join(l, " ")
}

// Contains reports whether any item contains substr.
func (l StringList) Contains(substr string) bool {
	for _, item := range l {
		if strings.Contains(item, substr) {
			return true
		}
	}
	return false
}

// Extras keeps fields a record type does not model, so they survive a
// decode/encode round trip unchanged.
type Extras map[string]json.RawMessage

// Get decodes one extra field into a generic value. Missing keys yield nil.
func (e Extras) Get(key string) interface{} {
	raw, ok := e[key]
	if !ok {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// String returns an extra field if it is a JSON string.
func (e Extras) String(key string) string {
	if s, ok := e.Get(key).(string); ok {
		return s
	}
	return ""
}

var knownKeyCache sync.Map

// knownKeys lists the JSON names of the exported fields of t.
func knownKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeyCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = field.Name
		}
		keys[name] = struct{}{}
	}
	knownKeyCache.Store(t, keys)
	return keys
}

// decodeRecord unmarshals data into target (a pointer to a plain alias
// type) and returns the fields target does not declare.
func decodeRecord(data []byte, target interface{}) (Extras, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	known := knownKeys(reflect.TypeOf(target).Elem())
	var extras Extras
	for k, v := range all {
		if _, ok := known[k]; ok {
			continue
		}
		if extras == nil {
			extras = make(Extras)
		}
		extras[k] = v
	}
	return extras, nil
}

// encodeRecord marshals v and merges extras underneath the declared
// fields.
func encodeRecord(v interface{}, extras Extras) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extras) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extras {
		if _, ok := merged[k]; !ok {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}

// ToMap converts any record into a generic JSON object.
func ToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func truncate(data []byte) string {
	if len(data) > 32 {
		return string(data[:32]) + "..."
	}
	return string(data)
}
