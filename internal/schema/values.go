package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is the decoded answer for one field: a scalar string for text-like
// and single-choice fields, or a list of option strings for checkbox fields.
type Value struct {
	Text string
	List []string
	list bool
}

// StringValue wraps a scalar answer
func StringValue(s string) Value {
	return Value{Text: s}
}

// ListValue wraps a checkbox answer
func ListValue(items []string) Value {
	return Value{List: items, list: true}
}

// IsList reports whether the value carries a list rather than a scalar
func (v Value) IsList() bool {
	return v.list
}

// Values holds decoded submission data keyed by field id. An absent key means
// the field was not answered. Keys are kept even when the owning form's schema
// no longer contains them, so old submissions round-trip unchanged.
type Values map[string]Value

// DecodeValues decodes a raw submission_data JSON document against a schema.
// Fields named by the schema must match the shape their type dictates; keys
// the schema does not know are decoded by shape and preserved as-is.
func DecodeValues(s Schema, raw []byte) (Values, error) {
	values := Values{}
	if len(raw) == 0 {
		return values, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed submission data: %w", err)
	}

	for key, rawValue := range doc {
		field, known := s.FieldByID(key)
		if known && field.Type.IsMultiValued() {
			list, err := decodeList(rawValue)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			values[key] = ListValue(list)
			continue
		}
		if known {
			text, err := decodeScalar(rawValue)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			values[key] = StringValue(text)
			continue
		}

		// Unknown key: decode by shape so fill-time answers survive schema edits.
		if list, err := decodeList(rawValue); err == nil {
			values[key] = ListValue(list)
		} else if text, err := decodeScalar(rawValue); err == nil {
			values[key] = StringValue(text)
		} else {
			return nil, fmt.Errorf("field %q: unsupported value shape", key)
		}
	}

	return values, nil
}

func decodeScalar(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	// Number fields are sometimes stored as JSON numbers rather than strings.
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strconv.FormatFloat(num, 'f', -1, 64), nil
	}

	return "", fmt.Errorf("expected a string value")
}

func decodeList(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("expected an array of strings")
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// String returns the scalar answer for a field, or "" when absent
func (v Values) String(fieldID string) string {
	return v[fieldID].Text
}

// List returns a copy of the list answer for a field, empty when absent
func (v Values) List(fieldID string) []string {
	stored := v[fieldID].List
	out := make([]string, len(stored))
	copy(out, stored)
	return out
}

// SetString overwrites the scalar answer for a field, last write wins
func (v Values) SetString(fieldID, text string) {
	v[fieldID] = StringValue(text)
}

// Toggle flips membership of an option in a checkbox answer: present options
// are removed by exact string match, absent options are appended.
func (v Values) Toggle(fieldID, option string) {
	current := v[fieldID].List
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, item := range current {
		if item == option {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		next = append(next, option)
	}
	v[fieldID] = ListValue(next)
}

// Encode serializes the values back to a submission_data JSON document
func (v Values) Encode() ([]byte, error) {
	doc := make(map[string]interface{}, len(v))
	for key, value := range v {
		if value.IsList() {
			doc[key] = value.List
		} else {
			doc[key] = value.Text
		}
	}
	return json.Marshal(doc)
}
