// Package analysis answers the fixed race-result questions over a loaded
// dataset. A Pipeline has three phases: Load, Analyze and Report.
package analysis

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KaramelBytes/racestats/internal/dataset"
	"github.com/KaramelBytes/racestats/internal/racetime"
	"github.com/KaramelBytes/racestats/internal/stats"
	"github.com/google/uuid"
)

var (
	// ErrNotLoaded is returned by Analyze before Load.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrYearNotFound is returned when a single-year question has no table.
	ErrYearNotFound = errors.New("no table for year")
)

// Pipeline runs questions against one dataset.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
	dir    string
	ds     *dataset.Dataset
	// decoded runners per file name, filled on first use
	runners map[string][]dataset.Runner
}

// New creates a pipeline. Call Load or Use before Analyze.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Load reads and columnizes every table in dir.
func (p *Pipeline) Load(dir string) error {
	ds, err := dataset.Load(dir, p.opts.Duplicates, p.logger)
	if err != nil {
		return err
	}
	p.logger.Info("dataset loaded", "dir", dir, "tables", ds.Len())
	p.dir = dir
	p.Use(ds)
	return nil
}

// Use installs an already built dataset.
func (p *Pipeline) Use(ds *dataset.Dataset) {
	p.ds = ds
	p.runners = make(map[string][]dataset.Runner)
}

// Dataset returns the loaded dataset, or nil.
func (p *Pipeline) Dataset() *dataset.Dataset { return p.ds }

// Options returns the pipeline settings.
func (p *Pipeline) Options() Options { return p.opts }

// runnersFor decodes the table of year. ok is false when no such table exists.
func (p *Pipeline) runnersFor(year int) (rs []dataset.Runner, ok bool, err error) {
	if p.ds == nil {
		return nil, false, ErrNotLoaded
	}
	name := p.opts.Naming.FileName(year)
	if rs, ok := p.runners[name]; ok {
		return rs, true, nil
	}
	ct, ok := p.ds.Table(name)
	if !ok {
		return nil, false, nil
	}
	rs, err = dataset.DecodeRunners(ct, p.opts.Schema)
	if err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", name, err)
	}
	p.runners[name] = rs
	return rs, true, nil
}

// requireYear is runnersFor for questions that cannot skip a missing year.
func (p *Pipeline) requireYear(year int) ([]dataset.Runner, error) {
	rs, ok, err := p.runnersFor(year)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", p.opts.Naming.FileName(year), ErrYearNotFound)
	}
	return rs, nil
}

// Analyze answers one question.
func (p *Pipeline) Analyze(q Question) (*Answer, error) {
	if p.ds == nil {
		return nil, ErrNotLoaded
	}
	p.logger.Debug("analyzing", "question", q.String())
	var (
		a   *Answer
		err error
	)
	switch q {
	case MeanFinishTime:
		a, err = p.meanFinishTime()
	case MedianAge:
		a, err = p.medianAge()
	case TopForeignCountry:
		a, err = p.topForeignCountry()
	case WomenCount:
		a, err = p.womenCount()
	case WomenTrend:
		a, err = p.womenTrend()
	case HomeTrend:
		a, err = p.homeTrend()
	default:
		return nil, fmt.Errorf("unknown question %d", int(q))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", q, err)
	}
	return a, nil
}

// AnalyzeAll answers every question in order.
func (p *Pipeline) AnalyzeAll() (*Report, error) { return p.Report(AllQuestions()...) }

// Report answers qs in order, or every question when qs is empty.
func (p *Pipeline) Report(qs ...Question) (*Report, error) {
	if len(qs) == 0 {
		qs = AllQuestions()
	}
	rep := &Report{
		RunID:       uuid.NewString(),
		DataDir:     p.dir,
		GeneratedAt: time.Now(),
		TopN:        p.opts.TopN,
		HomeCountry: p.opts.HomeCountry,
	}
	if p.ds != nil {
		rep.Tables = p.ds.Len()
	}
	for _, q := range qs {
		a, err := p.Analyze(q)
		if err != nil {
			return nil, err
		}
		rep.Answers = append(rep.Answers, a)
		for _, y := range a.Skipped {
			rep.Notes = append(rep.Notes, fmt.Sprintf("%s: skipped %d (no table or no matching runners)", q, y))
		}
	}
	return rep, nil
}

// yearlyMeans computes, for each year of the trend window, the mean finish
// time of top-N runners accepted by keep. Years without a table or without
// any accepted runner are left out of both returned slices.
func (p *Pipeline) yearlyMeans(keep func(dataset.Runner) bool) (years []int, means []float64, skipped []int, err error) {
	for y := p.opts.FirstYear; y <= p.opts.LastYear; y++ {
		rs, ok, err := p.runnersFor(y)
		if err != nil {
			return nil, nil, nil, err
		}
		if !ok {
			p.logger.Debug("year missing, skipped", "year", y)
			skipped = append(skipped, y)
			continue
		}
		var secs []float64
		for _, r := range dataset.Top(rs, p.opts.TopN) {
			if keep(r) {
				secs = append(secs, float64(r.OfficialTime))
			}
		}
		if len(secs) == 0 {
			p.logger.Debug("no matching runners, skipped", "year", y)
			skipped = append(skipped, y)
			continue
		}
		m, err := stats.Mean(secs)
		if err != nil {
			return nil, nil, nil, err
		}
		years = append(years, y)
		means = append(means, m)
	}
	return years, means, skipped, nil
}

// Series is the per-year home-country data behind the charts.
type Series struct {
	Years []int
	// MeanTimes is the mean finish time in seconds of home-country runners
	// in the top N.
	MeanTimes []float64
	// MedianAges is the median age of all top-N runners.
	MedianAges []float64
	Skipped    []int
}

// Series builds the chart series over the trend window.
func (p *Pipeline) Series() (*Series, error) {
	if p.ds == nil {
		return nil, ErrNotLoaded
	}
	s := &Series{}
	for y := p.opts.FirstYear; y <= p.opts.LastYear; y++ {
		rs, ok, err := p.runnersFor(y)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.Skipped = append(s.Skipped, y)
			continue
		}
		top := dataset.Top(rs, p.opts.TopN)
		var secs, ages []float64
		for _, r := range top {
			ages = append(ages, float64(r.Age))
			if r.Country == p.opts.HomeCountry {
				secs = append(secs, float64(r.OfficialTime))
			}
		}
		if len(secs) == 0 || len(ages) == 0 {
			s.Skipped = append(s.Skipped, y)
			continue
		}
		mean, err := stats.Mean(secs)
		if err != nil {
			return nil, err
		}
		med, err := stats.Median(ages)
		if err != nil {
			return nil, err
		}
		s.Years = append(s.Years, y)
		s.MeanTimes = append(s.MeanTimes, mean)
		s.MedianAges = append(s.MedianAges, med)
	}
	return s, nil
}

// MeanMinutes returns MeanTimes converted to minutes.
func (s *Series) MeanMinutes() []float64 {
	out := make([]float64, len(s.MeanTimes))
	for i, v := range s.MeanTimes {
		out[i] = racetime.Minutes(v)
	}
	return out
}

// YearsFloat returns Years as float64 for the numeric helpers.
func (s *Series) YearsFloat() []float64 { return toFloats(s.Years) }

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
