// Package racetime converts finish times between "HH:MM:SS" text and seconds.
package racetime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("malformed duration")

// ParseError reports a duration string that is not three colon-separated
// non-negative integers.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse duration %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

// ToSeconds parses "H:MM:SS" into a second count. Parts need no fixed width
// ("3:5:9" is 3h5m9s) but there must be exactly three of them.
func ToSeconds(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, &ParseError{Input: s, Reason: fmt.Sprintf("want 3 parts, got %d", len(parts))}
	}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, &ParseError{Input: s, Reason: fmt.Sprintf("part %d is not an integer", i+1)}
		}
		if n < 0 {
			return 0, &ParseError{Input: s, Reason: fmt.Sprintf("part %d is negative", i+1)}
		}
		vals[i] = n
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

// Format renders seconds as zero-padded "HH:MM:SS". Hours are not capped at
// two digits. Fractions are truncated toward zero; negative input formats as
// zero.
func Format(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return FormatInt(0)
	}
	return FormatInt(int(math.Trunc(seconds)))
}

// FormatInt is Format for whole seconds.
func FormatInt(n int) string {
	if n < 0 {
		n = 0
	}
	h := n / 3600
	m := (n % 3600) / 60
	s := n % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Minutes converts seconds to fractional minutes, the unit used on charts.
func Minutes(seconds float64) float64 { return seconds / 60 }
