package schema

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func testSchema() Schema {
	return Schema{
		{ID: "name", Type: FieldTypeText, Label: "Name", Required: true},
		{ID: "weight", Type: FieldTypeNumber, Label: "Weight"},
		{ID: "symptoms", Type: FieldTypeCheckbox, Label: "Symptoms", Options: []string{"Fever", "Cough", "Fatigue"}},
	}
}

func TestDecodeValues(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
		check   func(*testing.T, Values)
	}{
		{
			name: "scalar and list answers decode by field type",
			raw:  `{"name": "Alice", "symptoms": ["Fever", "Cough"]}`,
			check: func(t *testing.T, v Values) {
				if v.String("name") != "Alice" {
					t.Errorf("Expected 'Alice', got %q", v.String("name"))
				}
				if got := v.List("symptoms"); !reflect.DeepEqual(got, []string{"Fever", "Cough"}) {
					t.Errorf("Expected [Fever Cough], got %v", got)
				}
			},
		},
		{
			name: "number field stored as JSON number is converted",
			raw:  `{"weight": 72.5}`,
			check: func(t *testing.T, v Values) {
				if v.String("weight") != "72.5" {
					t.Errorf("Expected '72.5', got %q", v.String("weight"))
				}
			},
		},
		{
			name: "absent key means not answered",
			raw:  `{}`,
			check: func(t *testing.T, v Values) {
				if _, answered := v["name"]; answered {
					t.Error("Expected name to be unanswered")
				}
				if v.String("name") != "" {
					t.Errorf("Expected empty default, got %q", v.String("name"))
				}
			},
		},
		{
			name: "keys dropped from the schema survive by shape",
			raw:  `{"legacy_field": "kept", "legacy_list": ["a", "b"]}`,
			check: func(t *testing.T, v Values) {
				if v.String("legacy_field") != "kept" {
					t.Errorf("Expected legacy scalar to survive, got %q", v.String("legacy_field"))
				}
				if got := v.List("legacy_list"); len(got) != 2 {
					t.Errorf("Expected legacy list to survive, got %v", got)
				}
			},
		},
		{
			name:    "checkbox field with scalar value rejected",
			raw:     `{"symptoms": "Fever"}`,
			wantErr: "expected an array of strings",
		},
		{
			name:    "scalar field with object value rejected",
			raw:     `{"name": {"nested": true}}`,
			wantErr: "expected a string value",
		},
		{
			name:    "malformed document rejected",
			raw:     `[1, 2]`,
			wantErr: "malformed submission data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeValues(testSchema(), []byte(tt.raw))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, v)
		})
	}
}

func TestValuesToggle(t *testing.T) {
	v := Values{}

	v.Toggle("symptoms", "Fever")
	if got := v.List("symptoms"); !reflect.DeepEqual(got, []string{"Fever"}) {
		t.Fatalf("Expected [Fever] after first toggle, got %v", got)
	}

	v.Toggle("symptoms", "Cough")
	if got := v.List("symptoms"); !reflect.DeepEqual(got, []string{"Fever", "Cough"}) {
		t.Fatalf("Expected [Fever Cough], got %v", got)
	}

	// Toggling an option off removes it by exact match only.
	v.Toggle("symptoms", "Fever")
	if got := v.List("symptoms"); !reflect.DeepEqual(got, []string{"Cough"}) {
		t.Fatalf("Expected [Cough] after removal, got %v", got)
	}
}

func TestValuesToggleRoundTrip(t *testing.T) {
	v := Values{"symptoms": ListValue([]string{"Fever", "Fatigue"})}

	v.Toggle("symptoms", "Cough")
	v.Toggle("symptoms", "Cough")

	got := v.List("symptoms")
	sort.Strings(got)
	want := []string{"Fatigue", "Fever"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected original membership restored, got %v", got)
	}
}

func TestValuesSetStringLastWriteWins(t *testing.T) {
	v := Values{}
	v.SetString("name", "first")
	v.SetString("name", "second")

	if v.String("name") != "second" {
		t.Errorf("Expected 'second', got %q", v.String("name"))
	}
}

func TestValuesEncodeRoundTrip(t *testing.T) {
	raw := []byte(`{"name": "Alice", "symptoms": ["Fever"]}`)

	v, err := DecodeValues(testSchema(), raw)
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}

	encoded, err := v.Encode()
	if err != nil {
		t.Fatalf("Unexpected encode error: %v", err)
	}

	var got, want map[string]interface{}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("Encoded document is not valid JSON: %v", err)
	}
	if err := json.Unmarshal(raw, &want); err != nil {
		t.Fatalf("Fixture is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip changed the document: got %v, want %v", got, want)
	}
}
