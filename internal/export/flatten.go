package export

import (
	"strings"
	"time"

	"careform-api/internal/schema"
)

const (
	// ListSeparator joins checkbox answers in flat exports
	ListSeparator = ", "

	fallbackSubmitter = "Unknown User"
	fallbackClient    = "No Client"
	fallbackForm      = "Unknown Form"
	fallbackInitials  = "UU"
)

// SubmissionRecord is the already-resolved input to the exporters: schema and
// values plus the display names the surrounding services looked up. The
// exporters themselves perform no I/O.
type SubmissionRecord struct {
	FormResolved      bool
	FormTitle         string
	Schema            schema.Schema
	Values            schema.Values
	SubmitterName     string
	SubmitterInitials string
	ClientName        string
	CreatedAt         time.Time
}

// Row is a flat mapping of column label to displayable value, in column order.
// Setting an existing label overwrites the cell instead of adding a column, so
// two field ids sharing a label merge under one column. That mirrors the
// label-as-header contract of the export format; it is a documented ambiguity,
// not something the flattener corrects.
type Row struct {
	labels []string
	cells  map[string]string
}

// NewRow creates an empty row
func NewRow() *Row {
	return &Row{cells: map[string]string{}}
}

// Set assigns a cell, appending the column if the label is new
func (r *Row) Set(label, value string) {
	if _, exists := r.cells[label]; !exists {
		r.labels = append(r.labels, label)
	}
	r.cells[label] = value
}

// Get returns the cell for a label, "" when absent
func (r *Row) Get(label string) string {
	return r.cells[label]
}

// Labels returns the column labels in insertion order
func (r *Row) Labels() []string {
	return append([]string(nil), r.labels...)
}

// Flatten converts a submission into a flat row: fixed Submitter, Client and
// Form columns followed by one column per schema field, in schema order.
// Absent answers emit empty strings; checkbox answers join with
// ListSeparator. A record whose form could not be resolved yields placeholder
// columns instead of an error.
func Flatten(rec SubmissionRecord) *Row {
	row := NewRow()
	row.Set("Submitter", displayName(rec.SubmitterName, fallbackSubmitter))
	row.Set("Client", displayName(rec.ClientName, fallbackClient))

	if !rec.FormResolved {
		row.Set("Form", fallbackForm)
		return row
	}
	row.Set("Form", displayName(rec.FormTitle, fallbackForm))

	for _, field := range rec.Schema {
		value, answered := rec.Values[field.ID]
		switch {
		case !answered:
			row.Set(field.Label, "")
		case value.IsList():
			row.Set(field.Label, strings.Join(value.List, ListSeparator))
		default:
			row.Set(field.Label, value.Text)
		}
	}

	return row
}

func displayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}
