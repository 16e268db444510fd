package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldLink      = "link"
)

// Record is one payment interval for a barber. Field order is kept so a record
// read from a CSV file is written back out with the same columns.
// A nil value means the field is absent.
type Record struct {
	keys   []string
	values map[string]*string
}

func NewRecord() Record {
	return Record{values: make(map[string]*string)}
}

// Set stores value under key. An empty string is stored as-is; use SetAbsent
// to mark the field as missing.
func (r *Record) Set(key, value string) {
	v := value
	r.put(key, &v)
}

func (r *Record) SetAbsent(key string) {
	r.put(key, nil)
}

func (r *Record) put(key string, value *string) {
	if r.values == nil {
		r.values = make(map[string]*string)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present and non-nil.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r Record) Len() int {
	return len(r.keys)
}

func (r Record) EndDate() (string, bool) {
	return r.Get(FieldEndDate)
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		value := r.values[key]
		if value == nil {
			buf.WriteString("null")
			continue
		}
		v, err := marshalNoEscape(*value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object keeping key order. Non-string
// scalars are stored using their JSON text.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	*r = NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected record key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode value for %q: %w", key, err)
		}

		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("failed to decode value for %q: %w", key, err)
		}
		switch v := value.(type) {
		case nil:
			r.SetAbsent(key)
		case string:
			r.Set(key, v)
		case map[string]any, []any:
			return fmt.Errorf("field %q must be a scalar", key)
		default:
			r.Set(key, string(bytes.TrimSpace(raw)))
		}
	}

	_, err = dec.Token()
	return err
}

func marshalNoEscape(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
