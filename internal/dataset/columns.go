package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// RawTable is one file's rows as read from disk, header first.
type RawTable [][]string

// DuplicatePolicy decides what Columnize does when two header cells share a
// name.
type DuplicatePolicy int

const (
	// DuplicateReject fails with ErrDuplicateHeader.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateKeepFirst keeps the leftmost column and drops later ones.
	DuplicateKeepFirst
	// DuplicateOverwrite lets the rightmost column win, keeping the position
	// of the first.
	DuplicateOverwrite
)

// ParseDuplicatePolicy maps a config value to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicateReject, nil
	case "keep-first", "keep_first", "first":
		return DuplicateKeepFirst, nil
	case "overwrite", "last":
		return DuplicateOverwrite, nil
	default:
		return DuplicateReject, fmt.Errorf("invalid duplicate header policy: %s (use reject|keep-first|overwrite)", s)
	}
}

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateKeepFirst:
		return "keep-first"
	case DuplicateOverwrite:
		return "overwrite"
	default:
		return "reject"
	}
}

// ErrDuplicateHeader is wrapped when a header name repeats under
// DuplicateReject.
var ErrDuplicateHeader = errors.New("duplicate header name")

// ShortRowError reports a data row with fewer fields than the header.
type ShortRowError struct {
	Row  int // 0-based data row index, header excluded
	Want int
	Got  int
}

func (e *ShortRowError) Error() string {
	return fmt.Sprintf("data row %d has %d fields, header has %d", e.Row+1, e.Got, e.Want)
}

// ColumnTable is a column-oriented view of a RawTable. Every column has
// Rows() entries and index k across all columns is one source record.
type ColumnTable struct {
	header []string
	cols   map[string][]string
	rows   int
}

// Columnize pivots raw into columns, using row 0 as header names. It fails on
// the first data row shorter than the header; fields beyond the header width
// are ignored.
func Columnize(raw RawTable, policy DuplicatePolicy) (*ColumnTable, error) {
	ct := &ColumnTable{cols: map[string][]string{}}
	if len(raw) == 0 {
		return ct, nil
	}
	header, data := raw[0], raw[1:]
	for k, row := range data {
		if len(row) < len(header) {
			return nil, &ShortRowError{Row: k, Want: len(header), Got: len(row)}
		}
	}
	for i, name := range header {
		if _, dup := ct.cols[name]; dup {
			switch policy {
			case DuplicateKeepFirst:
				continue
			case DuplicateOverwrite:
			default:
				return nil, fmt.Errorf("column %d %q: %w", i+1, name, ErrDuplicateHeader)
			}
		} else {
			ct.header = append(ct.header, name)
		}
		col := make([]string, len(data))
		for k, row := range data {
			col[k] = row[i]
		}
		ct.cols[name] = col
	}
	ct.rows = len(data)
	return ct, nil
}

// Column returns the values of the named column.
func (t *ColumnTable) Column(name string) ([]string, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// Header returns the distinct column names in file order.
func (t *ColumnTable) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Rows is the number of data rows.
func (t *ColumnTable) Rows() int { return t.rows }

// Width is the number of distinct columns.
func (t *ColumnTable) Width() int { return len(t.header) }
