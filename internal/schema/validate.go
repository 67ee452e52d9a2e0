package schema

import "strings"

// MissingRequired returns the labels of required fields whose answer is empty:
// absent key, blank after trimming whitespace, or an empty list. An empty
// result means the values pass validation. The check is a pure function of
// schema and values and is re-run on every submit attempt.
func MissingRequired(s Schema, values Values) []string {
	var missing []string

	for _, field := range s {
		if !field.Required {
			continue
		}

		value, answered := values[field.ID]
		if !answered {
			missing = append(missing, field.Label)
			continue
		}

		if field.Type.IsMultiValued() {
			if len(value.List) == 0 {
				missing = append(missing, field.Label)
			}
			continue
		}

		if strings.TrimSpace(value.Text) == "" {
			missing = append(missing, field.Label)
		}
	}

	return missing
}
