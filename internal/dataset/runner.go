package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/racestats/internal/racetime"
)

// Schema names the source columns a Runner is decoded from.
type Schema struct {
	Time    string
	Age     string
	Gender  string
	Country string
}

// DefaultSchema matches the published results files.
func DefaultSchema() Schema {
	return Schema{
		Time:    "OfficialTime",
		Age:     "AgeOnRaceDay",
		Gender:  "Gender",
		Country: "CountryOfResName",
	}
}

// Runner is one finisher, in file (finishing) order.
type Runner struct {
	OfficialTime int // seconds
	Age          int
	Gender       string
	Country      string
}

// MissingColumnError reports a schema column absent from a table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// RowError wraps a field that failed to decode.
type RowError struct {
	Row    int // 0-based data row index
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d column %s: %v", e.Row+1, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// DecodeRunners resolves the schema columns once and decodes every row.
func DecodeRunners(t *ColumnTable, s Schema) ([]Runner, error) {
	cols := make([][]string, 4)
	for i, name := range []string{s.Time, s.Age, s.Gender, s.Country} {
		c, ok := t.Column(name)
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		cols[i] = c
	}
	times, ages, genders, countries := cols[0], cols[1], cols[2], cols[3]

	out := make([]Runner, t.Rows())
	for k := range out {
		secs, err := racetime.ToSeconds(times[k])
		if err != nil {
			return nil, &RowError{Row: k, Column: s.Time, Err: err}
		}
		age, err := strconv.Atoi(strings.TrimSpace(ages[k]))
		if err != nil {
			return nil, &RowError{Row: k, Column: s.Age, Err: err}
		}
		out[k] = Runner{
			OfficialTime: secs,
			Age:          age,
			Gender:       genders[k],
			Country:      countries[k],
		}
	}
	return out, nil
}

// Top returns the first n runners, or all of them when there are fewer.
// n <= 0 means no limit.
func Top(rs []Runner, n int) []Runner {
	if n <= 0 || n > len(rs) {
		return rs
	}
	return rs[:n]
}
