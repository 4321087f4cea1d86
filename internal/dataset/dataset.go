// Package dataset loads per-year result tables from a directory and exposes
// them as columns and typed runner records.
package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/racestats/internal/parser"
)

// LoadDir parses every file in dir that a registered parser accepts and
// returns the rows keyed by file name. Other entries are skipped silently.
// A logger may be nil.
func LoadDir(dir string, logger *slog.Logger) (map[string]RawTable, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	out := make(map[string]RawTable)
	for _, e := range entries {
		if e.IsDir() || !parser.Supported(e.Name()) {
			continue
		}
		rows, err := parser.ParseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded table", "file", e.Name(), "rows", len(rows))
		out[e.Name()] = RawTable(rows)
	}
	return out, nil
}

// Dataset is every columnized table of a directory, keyed by file name.
type Dataset struct {
	tables map[string]*ColumnTable
}

// Build columnizes every raw table. The first failing table aborts the build.
func Build(raw map[string]RawTable, policy DuplicatePolicy) (*Dataset, error) {
	ds := &Dataset{tables: make(map[string]*ColumnTable, len(raw))}
	for name, rt := range raw {
		ct, err := Columnize(rt, policy)
		if err != nil {
			return nil, fmt.Errorf("columnize %s: %w", name, err)
		}
		ds.tables[name] = ct
	}
	return ds, nil
}

// Load is LoadDir followed by Build.
func Load(dir string, policy DuplicatePolicy, logger *slog.Logger) (*Dataset, error) {
	raw, err := LoadDir(dir, logger)
	if err != nil {
		return nil, err
	}
	return Build(raw, policy)
}

// Table returns the table stored under a file name.
func (d *Dataset) Table(name string) (*ColumnTable, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Names returns the file names in lexical order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.tables))
	for n := range d.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len is the number of tables.
func (d *Dataset) Len() int { return len(d.tables) }

// Naming describes how a year is encoded in a file name, e.g.
// "boston_marathon_" + "2013" + ".csv".
type Naming struct {
	Prefix string
	Suffix string
}

// FileName builds the file name for year.
func (n Naming) FileName(year int) string {
	return fmt.Sprintf("%s%04d%s", n.Prefix, year, n.Suffix)
}

// Year extracts the year from a file name following the convention.
func (n Naming) Year(name string) (int, bool) {
	if !strings.HasPrefix(name, n.Prefix) || !strings.HasSuffix(name, n.Suffix) {
		return 0, false
	}
	mid := strings.TrimSuffix(strings.TrimPrefix(name, n.Prefix), n.Suffix)
	if len(mid) != 4 {
		return 0, false
	}
	y, err := strconv.Atoi(mid)
	if err != nil {
		return 0, false
	}
	return y, true
}

// ForYear looks up the table of a year.
func (d *Dataset) ForYear(n Naming, year int) (*ColumnTable, bool) {
	return d.Table(n.FileName(year))
}
