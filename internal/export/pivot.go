package export

import (
	"strings"
	"time"
)

const dateColumnLayout = "2006-01-02"

// Pivot aggregates submissions into a field-by-date matrix: one row per field
// id observed across the records (first-seen order, label from the first
// occurrence), one column per calendar date from start to end inclusive. A
// cell concatenates every same-day answer for the field as
// "value (INITIALS)" entries joined by newlines. Fields are discovered only
// from the records passed in; a record whose form could not be resolved
// contributes nothing.
func Pivot(records []SubmissionRecord, start, end time.Time) *Table {
	dates := dateColumns(start, end)

	headers := make([]string, 0, len(dates)+1)
	headers = append(headers, "Field")
	headers = append(headers, dates...)
	table := NewTable(headers)

	// Bucket records by the calendar date of their creation timestamp.
	buckets := make(map[string][]SubmissionRecord)
	for _, rec := range records {
		key := rec.CreatedAt.Format(dateColumnLayout)
		buckets[key] = append(buckets[key], rec)
	}

	// Discover fields in first-seen order across all records.
	type pivotField struct {
		id    string
		label string
	}
	var fields []pivotField
	seen := make(map[string]bool)
	for _, rec := range records {
		if !rec.FormResolved {
			continue
		}
		for _, field := range rec.Schema {
			if seen[field.ID] {
				continue
			}
			seen[field.ID] = true
			label := field.Label
			if field.Description != "" {
				label = label + " - " + field.Description
			}
			fields = append(fields, pivotField{id: field.ID, label: label})
		}
	}

	for _, field := range fields {
		row := make([]string, 0, len(dates)+1)
		row = append(row, field.label)

		for _, date := range dates {
			var entries []string
			for _, rec := range buckets[date] {
				if !rec.FormResolved {
					continue
				}
				display, ok := answerFor(rec, field.id)
				if !ok {
					continue
				}
				entries = append(entries, display+" ("+initialsFor(rec)+")")
			}
			row = append(row, strings.Join(entries, "\n"))
		}

		table.Append(row)
	}

	return table
}

// dateColumns builds the closed interval of calendar dates from start to end.
// Comparison is by wall-clock date, not time of day.
func dateColumns(start, end time.Time) []string {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	var dates []string
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day.Format(dateColumnLayout))
	}
	return dates
}

// answerFor returns the displayable answer of a record for a field, reporting
// false when the field was not answered or the answer is empty.
func answerFor(rec SubmissionRecord, fieldID string) (string, bool) {
	value, answered := rec.Values[fieldID]
	if !answered {
		return "", false
	}
	if value.IsList() {
		if len(value.List) == 0 {
			return "", false
		}
		return strings.Join(value.List, ListSeparator), true
	}
	if strings.TrimSpace(value.Text) == "" {
		return "", false
	}
	return value.Text, true
}

func initialsFor(rec SubmissionRecord) string {
	initials := strings.TrimSpace(rec.SubmitterInitials)
	if initials == "" {
		return fallbackInitials
	}
	return initials
}
