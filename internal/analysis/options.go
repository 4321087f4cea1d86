package analysis

import (
	"log/slog"

	"github.com/KaramelBytes/racestats/internal/dataset"
)

// Options controls which tables the questions read and how runners are
// selected.
type Options struct {
	// Naming maps a year to its file name.
	Naming dataset.Naming
	// Schema names the source columns.
	Schema dataset.Schema
	// Duplicates decides how repeated header names are handled.
	Duplicates dataset.DuplicatePolicy
	// TopN limits questions to the first N finishers; 0 means all.
	TopN int
	// FirstYear and LastYear bound the multi-year trends (inclusive).
	FirstYear int
	LastYear  int
	// HomeCountry is excluded from the country ranking and selects the
	// runners of the home trend.
	HomeCountry string
	// WomenGender is the Gender value counted as women.
	WomenGender string

	MeanTimeYear  int
	MedianAgeYear int
	CountryYear   int
	WomenYear     int
	PredictYear   int

	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the settings of the published Boston analysis.
func DefaultOptions() Options {
	return Options{
		Naming:        dataset.Naming{Prefix: "boston_marathon_", Suffix: ".csv"},
		Schema:        dataset.DefaultSchema(),
		Duplicates:    dataset.DuplicateReject,
		TopN:          1000,
		FirstYear:     2010,
		LastYear:      2023,
		HomeCountry:   "United States of America",
		WomenGender:   "F",
		MeanTimeYear:  2013,
		MedianAgeYear: 2010,
		CountryYear:   2023,
		WomenYear:     2021,
		PredictYear:   2020,
	}
}
