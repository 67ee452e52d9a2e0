package schema

// Mode selects how a form is rendered
type Mode string

const (
	// ModeFill renders editable controls bound to the value map
	ModeFill Mode = "fill"
	// ModePreview renders disabled controls; no value mutation is possible
	ModePreview Mode = "preview"
)

// Control is one rendered form control bound to the current value of a field
type Control struct {
	FieldID     string    `json:"fieldId"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Value       string    `json:"value"`
	Selected    []string  `json:"selected,omitempty"`
	Disabled    bool      `json:"disabled"`
}

// Render produces one control per field in schema order, bound to the current
// values. Absent answers default to the empty string or empty list. Controls
// carry copies of the value state; edits flow back through Values.SetString
// and Values.Toggle, not through the controls.
func Render(s Schema, values Values, mode Mode) []Control {
	controls := make([]Control, 0, len(s))

	for _, field := range s {
		control := Control{
			FieldID:     field.ID,
			Type:        field.Type,
			Label:       field.Label,
			Description: field.Description,
			Placeholder: field.Placeholder,
			Required:    field.Required,
			Disabled:    mode == ModePreview,
		}

		if field.Type.IsChoice() {
			control.Options = append([]string(nil), field.Options...)
		}

		if field.Type.IsMultiValued() {
			control.Selected = values.List(field.ID)
		} else {
			control.Value = values.String(field.ID)
		}

		controls = append(controls, control)
	}

	return controls
}
