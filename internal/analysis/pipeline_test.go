package analysis_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/KaramelBytes/racestats/internal/analysis"
	"github.com/KaramelBytes/racestats/internal/dataset"
	"github.com/KaramelBytes/racestats/internal/stats"
	"github.com/KaramelBytes/racestats/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usa = "United States of America"

func singleYearOptions(t *testing.T, year int) analysis.Options {
	opts := analysis.DefaultOptions()
	opts.MeanTimeYear = year
	opts.MedianAgeYear = year
	opts.CountryYear = year
	opts.WomenYear = year
	opts.Logger = testutil.NewTestLogger(t)
	return opts
}

func TestTwoRowScenario(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTable(t, dir, "boston_marathon_2013.csv", [][]string{
		{"03:15:10", "34", "F", usa},
		{"02:59:59", "41", "M", "Canada"},
	})
	p := analysis.New(singleYearOptions(t, 2013))
	require.NoError(t, p.Load(dir))

	a, err := p.Analyze(analysis.MeanFinishTime)
	require.NoError(t, err)
	assert.Equal(t, "03:07:34", a.Display)
	assert.InDelta(t, 11254.5, a.Value, 1e-9)

	a, err = p.Analyze(analysis.MedianAge)
	require.NoError(t, err)
	assert.Equal(t, "37.5", a.Display)

	a, err = p.Analyze(analysis.WomenCount)
	require.NoError(t, err)
	assert.Equal(t, "1", a.Display)

	a, err = p.Analyze(analysis.TopForeignCountry)
	require.NoError(t, err)
	assert.Equal(t, "Canada", a.Display)
}

func TestTopNClampsAndLimits(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTable(t, dir, "boston_marathon_2013.csv", [][]string{
		{"02:00:00", "20", "F", "Kenya"},
		{"03:00:00", "30", "F", "Kenya"},
		{"04:00:00", "40", "M", "Kenya"},
	})

	opts := singleYearOptions(t, 2013)
	opts.TopN = 2
	p := analysis.New(opts)
	require.NoError(t, p.Load(dir))
	a, err := p.Analyze(analysis.MeanFinishTime)
	require.NoError(t, err)
	assert.Equal(t, "02:30:00", a.Display)

	opts.TopN = 1000
	p = analysis.New(opts)
	require.NoError(t, p.Load(dir))
	a, err = p.Analyze(analysis.MeanFinishTime)
	require.NoError(t, err)
	assert.Equal(t, "03:00:00", a.Display)
}

func TestTopForeignCountryTieAndWholeTable(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTable(t, dir, "boston_marathon_2023.csv", [][]string{
		{"02:10:00", "30", "M", usa},
		{"02:11:00", "30", "M", "CAN"},
		{"02:12:00", "30", "M", "GBR"},
		{"02:13:00", "30", "M", "GBR"},
		{"02:14:00", "30", "M", "CAN"},
		{"02:15:00", "30", "M", usa},
		{"02:16:00", "30", "M", usa},
	})
	opts := singleYearOptions(t, 2023)
	opts.TopN = 1
	p := analysis.New(opts)
	require.NoError(t, p.Load(dir))
	a, err := p.Analyze(analysis.TopForeignCountry)
	require.NoError(t, err)
	assert.Equal(t, "CAN", a.Display)
	assert.Equal(t, 2.0, a.Value)
}

func writeTrendYears(t *testing.T) string {
	dir := t.TempDir()
	testutil.WriteTable(t, dir, "boston_marathon_2010.csv", [][]string{
		{"03:00:00", "30", "M", usa},
		{"03:30:00", "28", "F", "Kenya"},
	})
	testutil.WriteTable(t, dir, "boston_marathon_2011.csv", [][]string{
		{"03:01:00", "31", "M", usa},
		{"03:20:00", "29", "F", "Kenya"},
	})
	testutil.WriteTable(t, dir, "boston_marathon_2013.csv", [][]string{
		{"03:03:00", "33", "M", usa},
		{"03:10:00", "35", "F", "Kenya"},
	})
	testutil.WriteTable(t, dir, "boston_marathon_2014.csv", [][]string{
		{"03:04:00", "34", "M", usa},
	})
	return dir
}

func trendOptions(t *testing.T) analysis.Options {
	opts := analysis.DefaultOptions()
	opts.FirstYear = 2010
	opts.LastYear = 2014
	opts.PredictYear = 2012
	opts.Logger = testutil.NewTestLogger(t)
	return opts
}

func TestTrendsSkipMissingYears(t *testing.T) {
	p := analysis.New(trendOptions(t))
	require.NoError(t, p.Load(writeTrendYears(t)))

	home, err := p.Analyze(analysis.HomeTrend)
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2011, 2013, 2014}, home.Years)
	assert.Equal(t, []float64{10800, 10860, 10980, 11040}, home.Means)
	assert.Equal(t, []int{2012}, home.Skipped)
	assert.InDelta(t, 1.0, home.Value, 1e-9)
	require.NotNil(t, home.Line)
	assert.InDelta(t, 60.0, home.Line.Slope, 1e-6)
	assert.InDelta(t, 10920.0, home.Line.At(2012), 1e-6)
	assert.Equal(t, 2012, home.PredictYear)

	women, err := p.Analyze(analysis.WomenTrend)
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2011, 2013}, women.Years)
	assert.Equal(t, []float64{12600, 12000, 11400}, women.Means)
	assert.Equal(t, []int{2012, 2014}, women.Skipped)
	assert.Less(t, women.Value, 0.0)
	assert.Len(t, women.Means, len(women.Years))
}

func TestPredictionMatchesOLS(t *testing.T) {
	p := analysis.New(trendOptions(t))
	require.NoError(t, p.Load(writeTrendYears(t)))
	home, err := p.Analyze(analysis.HomeTrend)
	require.NoError(t, err)

	xs := make([]float64, len(home.Years))
	for i, y := range home.Years {
		xs[i] = float64(y)
	}
	ols, err := stats.LinearRegression(xs, home.Means)
	require.NoError(t, err)
	assert.InDelta(t, ols.Slope, home.Line.Slope, 1e-6)
	assert.InDelta(t, ols.Intercept, home.Line.Intercept, 1e-3)
}

func TestSingleYearQuestionNeedsTable(t *testing.T) {
	p := analysis.New(singleYearOptions(t, 2012))
	require.NoError(t, p.Load(writeTrendYears(t)))
	_, err := p.Analyze(analysis.MeanFinishTime)
	assert.ErrorIs(t, err, analysis.ErrYearNotFound)
}

func TestTrendNeedsTwoYears(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTable(t, dir, "boston_marathon_2010.csv", [][]string{{"03:00:00", "30", "F", usa}})
	p := analysis.New(trendOptions(t))
	require.NoError(t, p.Load(dir))
	_, err := p.Analyze(analysis.HomeTrend)
	assert.ErrorIs(t, err, stats.ErrInsufficientData)
}

func TestUndecodedYearDoesNotAbort(t *testing.T) {
	dir := writeTrendYears(t)
	testutil.WriteTable(t, dir, "boston_marathon_2019.csv", [][]string{{"DNF", "30", "F", usa}})
	p := analysis.New(trendOptions(t))
	require.NoError(t, p.Load(dir))
	_, err := p.Analyze(analysis.HomeTrend)
	require.NoError(t, err)

	opts := singleYearOptions(t, 2019)
	p = analysis.New(opts)
	require.NoError(t, p.Load(dir))
	_, err = p.Analyze(analysis.MeanFinishTime)
	var re *dataset.RowError
	assert.True(t, errors.As(err, &re))
}

func TestAnalyzeBeforeLoad(t *testing.T) {
	p := analysis.New(analysis.DefaultOptions())
	_, err := p.Analyze(analysis.MeanFinishTime)
	assert.ErrorIs(t, err, analysis.ErrNotLoaded)
	_, err = p.Series()
	assert.ErrorIs(t, err, analysis.ErrNotLoaded)
}

func TestSeries(t *testing.T) {
	p := analysis.New(trendOptions(t))
	require.NoError(t, p.Load(writeTrendYears(t)))
	s, err := p.Series()
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2011, 2013, 2014}, s.Years)
	assert.Equal(t, []float64{29, 30, 34, 34}, s.MedianAges)
	assert.Equal(t, []float64{180, 181, 183, 184}, s.MeanMinutes())
	assert.Equal(t, []int{2012}, s.Skipped)
}

func TestUseBuiltDataset(t *testing.T) {
	ds, err := dataset.Build(map[string]dataset.RawTable{
		"boston_marathon_2013.csv": {testutil.Header, {"01:00:00", "50", "F", "Japan"}},
	}, dataset.DuplicateReject)
	require.NoError(t, err)
	p := analysis.New(singleYearOptions(t, 2013))
	p.Use(ds)
	a, err := p.Analyze(analysis.MeanFinishTime)
	require.NoError(t, err)
	assert.Equal(t, "01:00:00", a.Display)
}

func TestReportRendering(t *testing.T) {
	dir := writeTrendYears(t)
	testutil.WriteTable(t, dir, "boston_marathon_2015.csv", [][]string{
		{"03:15:10", "34", "F", usa},
		{"02:59:59", "41", "M", "Canada"},
	})
	opts := trendOptions(t)
	opts.MeanTimeYear = 2015
	opts.MedianAgeYear = 2015
	opts.CountryYear = 2015
	opts.WomenYear = 2015
	p := analysis.New(opts)
	require.NoError(t, p.Load(dir))

	rep, err := p.AnalyzeAll()
	require.NoError(t, err)
	require.Len(t, rep.Answers, 6)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 5, rep.Tables)
	assert.Equal(t, "03:07:34", rep.Answer(analysis.MeanFinishTime).Display)

	text := rep.Text()
	assert.Contains(t, text, "Question 1: In 2015, the mean finish time of the top 1000 runners was 03:07:34.")
	assert.Contains(t, text, "Question 3:")
	assert.Contains(t, text, "Canada")
	assert.Contains(t, text, "for 2012:")

	md := rep.Markdown()
	assert.Contains(t, md, "[RUN]")
	assert.Contains(t, md, "[ANSWERS]")
	assert.Contains(t, md, "[SERIES HOME-TREND]")
	assert.Contains(t, md, "[NOTES]")
	assert.Contains(t, md, "skipped 2012")

	var buf bytes.Buffer
	rep.Table(&buf)
	assert.Contains(t, buf.String(), "Median age (2015)")
	assert.Contains(t, buf.String(), "37.5")
}

func TestReportSubset(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTable(t, dir, "boston_marathon_2013.csv", [][]string{{"03:00:00", "30", "F", "Kenya"}})
	p := analysis.New(singleYearOptions(t, 2013))
	require.NoError(t, p.Load(dir))
	rep, err := p.Report(analysis.WomenCount, analysis.MeanFinishTime)
	require.NoError(t, err)
	require.Len(t, rep.Answers, 2)
	assert.Equal(t, analysis.WomenCount, rep.Answers[0].Question)
	assert.Nil(t, rep.Answer(analysis.HomeTrend))
}

func TestParseQuestion(t *testing.T) {
	q, err := analysis.ParseQuestion("3")
	require.NoError(t, err)
	assert.Equal(t, analysis.TopForeignCountry, q)
	q, err = analysis.ParseQuestion(" Women-Trend ")
	require.NoError(t, err)
	assert.Equal(t, analysis.WomenTrend, q)
	_, err = analysis.ParseQuestion("7")
	assert.Error(t, err)
	_, err = analysis.ParseQuestion("speed")
	assert.Error(t, err)
	assert.Equal(t, "home-trend", analysis.HomeTrend.String())
}
