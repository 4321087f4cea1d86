package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// Header is the column layout of the published results files.
var Header = []string{"OfficialTime", "AgeOnRaceDay", "Gender", "CountryOfResName"}

// WriteTable writes Header plus rows as a CSV file named name under dir and
// returns its path.
func WriteTable(t testing.TB, dir, name string, rows [][]string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return p
}
