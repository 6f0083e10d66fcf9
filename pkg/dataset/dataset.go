// Package dataset provides the tabular data model consumed by the micromap
// engine.
//
// A Dataset is a fixed-length collection of named columns, either numeric or
// string-valued. The engine only needs schema lookups (column existence,
// numeric check, uniqueness check) and value access. Loading, joining, and
// statistics belong to the caller.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cartoviz/micromap/pkg/errors"
)

// Column is a single named column. Exactly one of Floats or Strings is
// populated, depending on Numeric.
type Column struct {
	Name    string
	Numeric bool
	Floats  []float64
	Strings []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Dataset is an ordered set of equal-length columns.
type Dataset struct {
	cols  map[string]*Column
	order []string
	n     int
}

// New creates an empty dataset expecting n rows per column.
func New(n int) *Dataset {
	return &Dataset{
		cols: make(map[string]*Column),
		n:    n,
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.n }

// Columns returns the column names in insertion order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// AddNumeric adds a numeric column. If the name collides with an existing
// column it is renamed by appending ".1" (repeatedly until unique); the name
// actually used is returned.
func (d *Dataset) AddNumeric(name string, values []float64) (string, error) {
	if len(values) != d.n {
		return "", errors.New(errors.ErrCodeInvalidConfig,
			"column %q has %d values, dataset has %d rows", name, len(values), d.n)
	}
	name = d.uniqueName(name)
	d.cols[name] = &Column{Name: name, Numeric: true, Floats: values}
	d.order = append(d.order, name)
	return name, nil
}

// AddStrings adds a string column with the same collision-rename rule as
// AddNumeric.
func (d *Dataset) AddStrings(name string, values []string) (string, error) {
	if len(values) != d.n {
		return "", errors.New(errors.ErrCodeInvalidConfig,
			"column %q has %d values, dataset has %d rows", name, len(values), d.n)
	}
	name = d.uniqueName(name)
	d.cols[name] = &Column{Name: name, Strings: values}
	d.order = append(d.order, name)
	return name, nil
}

// uniqueName resolves a column name collision by appending the fixed ".1"
// suffix until the name is free.
func (d *Dataset) uniqueName(name string) string {
	for _, ok := d.cols[name]; ok; _, ok = d.cols[name] {
		name += ".1"
	}
	return name
}

// HasColumn reports whether a column with the given name exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.cols[name]
	return ok
}

// IsNumeric reports whether the named column exists and is numeric.
func (d *Dataset) IsNumeric(name string) bool {
	c, ok := d.cols[name]
	return ok && c.Numeric
}

// IsUnique reports whether the named column exists and contains no duplicate
// values.
func (d *Dataset) IsUnique(name string) bool {
	c, ok := d.cols[name]
	if !ok {
		return false
	}
	seen := make(map[string]bool, c.Len())
	for i := 0; i < c.Len(); i++ {
		v := d.valueString(c, i)
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Floats returns the values of a numeric column.
func (d *Dataset) Floats(name string) ([]float64, error) {
	c, ok := d.cols[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownVariable, "no column named %q", name)
	}
	if !c.Numeric {
		return nil, errors.New(errors.ErrCodeUnknownVariable, "column %q is not numeric", name)
	}
	return c.Floats, nil
}

// Strings returns the values of a column rendered as strings. Numeric columns
// are formatted with the shortest representation that round-trips.
func (d *Dataset) Strings(name string) ([]string, error) {
	c, ok := d.cols[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownVariable, "no column named %q", name)
	}
	out := make([]string, c.Len())
	for i := range out {
		out[i] = d.valueString(c, i)
	}
	return out, nil
}

func (d *Dataset) valueString(c *Column, i int) string {
	if c.Numeric {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// FromCSV loads a dataset from CSV data with a header row. Columns whose
// every value parses as a float become numeric; all others are kept as
// strings. Empty cells in numeric columns are not permitted; mixed columns
// stay string-typed instead.
func FromCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "csv has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading csv header")
	}

	raw := make([][]string, len(header))
	n := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading csv row %d", n+2)
		}
		if len(rec) != len(header) {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"csv row %d has %d fields, header has %d", n+2, len(rec), len(header))
		}
		for i, v := range rec {
			raw[i] = append(raw[i], strings.TrimSpace(v))
		}
		n++
	}

	d := New(n)
	for i, name := range header {
		if floats, ok := parseFloats(raw[i]); ok && n > 0 {
			if _, err := d.AddNumeric(name, floats); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := d.AddStrings(name, raw[i]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// parseFloats converts a string column to floats, reporting whether every
// value parsed.
func parseFloats(values []string) ([]float64, bool) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// String returns a short human-readable summary, e.g. "dataset(51 rows, 5 cols)".
func (d *Dataset) String() string {
	return fmt.Sprintf("dataset(%d rows, %d cols)", d.n, len(d.order))
}
