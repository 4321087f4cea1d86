// Package chart renders the trend charts of a run with gonum/plot. The output
// format follows the file extension (.png, .svg, .pdf...).
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/KaramelBytes/racestats/internal/analysis"
	"github.com/KaramelBytes/racestats/internal/stats"
	"github.com/KaramelBytes/racestats/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

var (
	blue = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// File names used by Render.
const (
	RegressionFile = "regression.png"
	TrendFile      = "trend.png"
)

// Regression draws year against mean finish time in minutes as a scatter,
// with line over the same years.
func Regression(path, title string, years []int, minutes []float64, line stats.Line) error {
	if len(years) != len(minutes) {
		return stats.ErrLengthMismatch
	}
	if len(years) < 2 {
		return stats.ErrInsufficientData
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Mean Finish Time (minutes)"
	p.Add(plotter.NewGrid())

	pts := xys(years, minutes)
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Color = blue
	sc.GlyphStyle.Radius = vg.Points(3)

	fit := make(plotter.XYs, len(years))
	for i, y := range years {
		fit[i].X = float64(y)
		fit[i].Y = line.At(float64(y))
	}
	ln, err := plotter.NewLine(fit)
	if err != nil {
		return fmt.Errorf("regression line: %w", err)
	}
	ln.LineStyle.Color = red
	ln.LineStyle.Width = vg.Points(1.5)

	p.Add(sc, ln)
	p.Legend.Add("Data", sc)
	p.Legend.Add("Linear Regression", ln)
	p.Legend.Top = true
	return save(p, path)
}

// Trend draws min-max normalized median age and mean finish time over years.
func Trend(path, title string, years []int, ages, times []float64) error {
	if len(years) != len(ages) || len(years) != len(times) {
		return stats.ErrLengthMismatch
	}
	if len(years) < 2 {
		return stats.ErrInsufficientData
	}
	na, err := stats.Normalize(ages)
	if err != nil {
		return fmt.Errorf("normalize ages: %w", err)
	}
	nt, err := stats.Normalize(times)
	if err != nil {
		return fmt.Errorf("normalize times: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Median Age and Average Finish Time (Normalized Value)"
	p.Add(plotter.NewGrid())

	al, err := plotter.NewLine(xys(years, na))
	if err != nil {
		return fmt.Errorf("age line: %w", err)
	}
	al.LineStyle.Color = blue
	tl, err := plotter.NewLine(xys(years, nt))
	if err != nil {
		return fmt.Errorf("time line: %w", err)
	}
	tl.LineStyle.Color = red

	p.Add(al, tl)
	p.Legend.Add("Median Age", al)
	p.Legend.Add("Mean Finish Time", tl)
	p.Legend.Top = true
	return save(p, path)
}

// Render writes both charts for s into dir and returns their paths.
func Render(dir string, s *analysis.Series, home string, topN int) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}
	minutes := s.MeanMinutes()
	line, err := stats.LinearRegression(s.YearsFloat(), minutes)
	if err != nil {
		return nil, fmt.Errorf("fit regression: %w", err)
	}

	top := "All"
	if topN > 0 {
		top = fmt.Sprintf("Top %d", topN)
	}
	reg := filepath.Join(dir, RegressionFile)
	title := fmt.Sprintf("Linear Regression: Year vs. Mean Finish Time of %s Runners (%s)", home, top)
	if err := Regression(reg, title, s.Years, minutes, line); err != nil {
		return nil, err
	}
	trend := filepath.Join(dir, TrendFile)
	if err := Trend(trend, "Changes in Median Age and Mean Finish Times Over Time", s.Years, s.MedianAges, s.MeanTimes); err != nil {
		return nil, err
	}
	return []string{reg, trend}, nil
}

func xys(years []int, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(years))
	for i, y := range years {
		pts[i].X = float64(y)
		pts[i].Y = ys[i]
	}
	return pts
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}
