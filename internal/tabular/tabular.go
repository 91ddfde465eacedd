// Package tabular converts between CSV exchange text and column-keyed rows.
//
// The dialect is deliberately small: comma separators, double-quote quoting
// with "" escapes, \n row breaks, and \r ignored everywhere.
package tabular

import (
	"strings"
)

// Record is one row keyed by column name.
type Record map[string]string

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a parsed CSV document. Columns fixes the order of every row.
type Table struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to Columns (if absent) and gives every row an
// empty value for it.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, r := range t.Rows {
		if _, ok := r[name]; !ok {
			r[name] = ""
		}
	}
}

// Parse scans text into a header and rows.
func Parse(text string) *Table {
	text = strings.TrimPrefix(text, "\ufeff")
	raw := scan(text)

	// A trailing newline leaves one row holding a single empty field.
	if n := len(raw); n > 0 && len(raw[n-1]) == 1 && raw[n-1][0] == "" {
		raw = raw[:n-1]
	}

	t := &Table{Columns: []string{}, Rows: []Record{}}
	if len(raw) == 0 {
		return t
	}
	t.Columns = raw[0]
	for _, fields := range raw[1:] {
		rec := make(Record, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(fields) {
				rec[col] = fields[i]
			} else {
				rec[col] = ""
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func scan(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\r':
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			row = append(row, field.String())
			field.Reset()
		case c == '\n' && !inQuotes:
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
		default:
			field.WriteRune(c)
		}
	}
	if len(text) > 0 {
		row = append(row, field.String())
		rows = append(rows, row)
	}
	return rows
}

// Serialize renders columns and rows as CSV text without a trailing newline.
func Serialize(columns []string, rows []Record) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinFields(columns))
	fields := make([]string, len(columns))
	for _, r := range rows {
		for i, col := range columns {
			fields[i] = r[col]
		}
		lines = append(lines, joinFields(fields))
	}
	return strings.Join(lines, "\n")
}

func joinFields(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, ",")
}

// Escape quotes f if it contains a comma, quote, or newline.
func Escape(f string) string {
	if !strings.ContainsAny(f, ",\"\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
