package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults for Options.
const (
	DefaultKeyColumn = "Run"
	DefaultTable     = "events"
)

// Options controls how a table is loaded.
type Options struct {
	// KeyColumn is the categorical key, always stored as text.
	KeyColumn string

	// Table is the SQLite table name for SQLite inputs.
	Table string
}

func (o Options) withDefaults() Options {
	if o.KeyColumn == "" {
		o.KeyColumn = DefaultKeyColumn
	}
	if o.Table == "" {
		o.Table = DefaultTable
	}
	return o
}

// Kind is the value type of a column.
type Kind int

const (
	KindNumber Kind = iota
	KindText
)

// String returns "number" or "text".
func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "number"
}

// Column is one column of a Table. Numeric columns hold float64 values with
// NaN for missing cells; text columns hold the trimmed cell text.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	texts []string
}

// Name returns the header name.
func (c *Column) Name() string { return c.name }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// IsNumeric reports whether the column holds numbers.
func (c *Column) IsNumeric() bool { return c.kind == KindNumber }

// Float returns the numeric value of row i.
// Text columns and missing cells return NaN.
func (c *Column) Float(i int) float64 {
	if c.kind != KindNumber {
		return math.NaN()
	}
	return c.nums[i]
}

// Text returns the text rendering of row i. Missing numbers render as "".
func (c *Column) Text(i int) string {
	if c.kind == KindText {
		return c.texts[i]
	}
	v := c.nums[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Floats gathers the numeric values of the given rows into a new slice.
// A nil rows slice means every row.
func (c *Column) Floats(rows []int) []float64 {
	n := len(rows)
	if rows == nil {
		n = c.len()
	}
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		i := j
		if rows != nil {
			i = rows[j]
		}
		out[j] = c.Float(i)
	}
	return out
}

func (c *Column) len() int {
	if c.kind == KindText {
		return len(c.texts)
	}
	return len(c.nums)
}

// Table is the immutable, column-oriented record table.
//
// Thread-safety: a Table is never mutated after construction and is safe
// for concurrent reads without locking.
type Table struct {
	source  string
	key     string
	rows    int
	columns []*Column
	index   map[string]int
}

// Source returns the path (or name) the table was loaded from.
func (t *Table) Source() string { return t.source }

// KeyColumn returns the name of the categorical key column.
func (t *Table) KeyColumn() string { return t.key }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns column names in header order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// NumericColumns returns the numeric column names in header order.
// The key column is never numeric.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.columns {
		if c.kind == KindNumber {
			names = append(names, c.name)
		}
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// UniqueValues returns the distinct text values of a column in
// first-occurrence order. Repeated calls return equal slices.
func (t *Table) UniqueValues(column string) ([]string, error) {
	c, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	seen := make(map[string]struct{})
	var values []string
	for i := 0; i < t.rows; i++ {
		v := c.Text(i)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}

// RowsWhere returns the indices of rows whose column text equals value,
// in table order.
func (t *Table) RowsWhere(column, value string) ([]int, error) {
	c, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	rows := []int{}
	for i := 0; i < t.rows; i++ {
		if c.Text(i) == value {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// AllRows returns the indices 0..Len()-1.
func (t *Table) AllRows() []int {
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// newTable builds a Table from a header and raw string records.
// lines[r] is the input line where records[r] starts, for error messages;
// nil numbers records from 1.
func newTable(source string, header []string, records [][]string, lines []int, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	if len(header) == 0 {
		return nil, &LoadError{Code: ErrCodeMalformed, Path: source, Line: 1, Message: "empty header"}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &LoadError{Code: ErrCodeMalformed, Path: source, Line: 1,
				Message: fmt.Sprintf("column %d has an empty name", i+1)}
		}
		if _, dup := index[name]; dup {
			return nil, &LoadError{Code: ErrCodeMalformed, Path: source, Line: 1,
				Message: fmt.Sprintf("duplicate column %q", name)}
		}
		index[name] = i
		header[i] = name
	}

	if _, ok := index[opts.KeyColumn]; !ok {
		return nil, &LoadError{Code: ErrCodeMissingKeyColumn, Path: source,
			Message: fmt.Sprintf("required column %q not found in header", opts.KeyColumn)}
	}

	for r, rec := range records {
		if len(rec) != len(header) {
			line := r + 1
			if lines != nil {
				line = lines[r]
			}
			return nil, &LoadError{Code: ErrCodeMalformed, Path: source, Line: line,
				Message: fmt.Sprintf("row has %d fields, header has %d", len(rec), len(header))}
		}
	}

	columns := make([]*Column, len(header))
	for i, name := range header {
		columns[i] = buildColumn(name, i, records, name == opts.KeyColumn)
	}

	return &Table{
		source:  source,
		key:     opts.KeyColumn,
		rows:    len(records),
		columns: columns,
		index:   index,
	}, nil
}

// buildColumn infers the kind of column i and converts its cells.
func buildColumn(name string, i int, records [][]string, forceText bool) *Column {
	texts := make([]string, len(records))
	for r, rec := range records {
		texts[r] = strings.TrimSpace(rec[i])
	}
	if forceText {
		return &Column{name: name, kind: KindText, texts: texts}
	}

	nums := make([]float64, len(records))
	sawValue := false
	for r, s := range texts {
		if s == "" {
			nums[r] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return &Column{name: name, kind: KindText, texts: texts}
		}
		nums[r] = v
		sawValue = true
	}
	if !sawValue && len(records) > 0 {
		// A column of only blanks carries no numbers.
		return &Column{name: name, kind: KindText, texts: texts}
	}
	return &Column{name: name, kind: KindNumber, nums: nums}
}
