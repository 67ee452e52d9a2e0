package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Table is an in-memory export artifact: a header row plus data rows aligned
// to it. Serialization to CSV is a thin wrapper around the table; callers that
// need a different sink can walk Headers and Rows directly.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given column headers
func NewTable(headers []string) *Table {
	return &Table{Headers: headers}
}

// Append adds a data row. Short rows are padded to the header width so the
// CSV output stays rectangular.
func (t *Table) Append(row []string) {
	for len(row) < len(t.Headers) {
		row = append(row, "")
	}
	t.Rows = append(t.Rows, row)
}

// Empty reports whether the table holds no data rows
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// FromRows builds a table from flattened rows. Headers are taken from the
// first row; later rows contribute cells for those headers only, and cells for
// headers a row does not carry stay empty.
func FromRows(rows []*Row) *Table {
	if len(rows) == 0 {
		return NewTable(nil)
	}

	table := NewTable(rows[0].Labels())
	for _, row := range rows {
		cells := make([]string, 0, len(table.Headers))
		for _, label := range table.Headers {
			cells = append(cells, row.Get(label))
		}
		table.Append(cells)
	}
	return table
}

// WriteCSV serializes the table as CSV. Quoting follows the usual rules:
// cells containing commas, quotes or newlines are wrapped in quotes with
// embedded quotes doubled.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if len(t.Headers) > 0 {
		if err := writer.Write(t.Headers); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVBytes returns the CSV serialization as a byte slice
func (t *Table) CSVBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
