package analysis

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/racestats/internal/dataset"
	"github.com/KaramelBytes/racestats/internal/racetime"
	"github.com/KaramelBytes/racestats/internal/stats"
)

// Answer is the result of one question.
type Answer struct {
	Question Question `json:"question"`
	// Year is the table the question read; 0 for the multi-year trends.
	Year int `json:"year,omitempty"`
	// Value is the numeric result: seconds, years, a count or r.
	Value float64 `json:"value"`
	// Display is Value formatted for humans (HH:MM:SS, a country name...).
	Display string `json:"display"`
	// Years and Means are the aligned per-year series of the trend questions.
	Years   []int     `json:"years,omitempty"`
	Means   []float64 `json:"means,omitempty"`
	Skipped []int     `json:"skipped,omitempty"`

	// Set only for HomeTrend.
	Line        *stats.Line `json:"line,omitempty"`
	PredictYear int         `json:"predict_year,omitempty"`
	Predicted   string      `json:"predicted,omitempty"`
}

// Label is a short title for tables and headings.
func (a *Answer) Label() string {
	switch a.Question {
	case MeanFinishTime:
		return fmt.Sprintf("Mean finish time (%d)", a.Year)
	case MedianAge:
		return fmt.Sprintf("Median age (%d)", a.Year)
	case TopForeignCountry:
		return fmt.Sprintf("Top foreign country (%d)", a.Year)
	case WomenCount:
		return fmt.Sprintf("Women in top N (%d)", a.Year)
	case WomenTrend:
		return "Year vs women's mean time (r)"
	case HomeTrend:
		return "Year vs home mean time (r)"
	}
	return a.Question.String()
}

// Sentence renders the answer as the human-readable report line.
func (a *Answer) Sentence(topN int, home string) string {
	n := topLabel(topN)
	switch a.Question {
	case MeanFinishTime:
		return fmt.Sprintf("Question 1: In %d, the mean finish time of the %s runners was %s.", a.Year, n, a.Display)
	case MedianAge:
		return fmt.Sprintf("Question 2: In %d, the median age of the %s runners was %s.", a.Year, n, a.Display)
	case TopForeignCountry:
		return fmt.Sprintf("Question 3: In %d, the most common country of residence of runners not from %s was %s.", a.Year, home, a.Display)
	case WomenCount:
		return fmt.Sprintf("Question 4: In %d, %s women finished in the %s.", a.Year, a.Display, n)
	case WomenTrend:
		return fmt.Sprintf("Question 5: Correlation between year and mean finish time of women in the %s: %s", n, a.Display)
	case HomeTrend:
		return fmt.Sprintf("Question 6: Correlation between year and mean finish time of %s runners in the %s: %s\n"+
			"Predicted mean finish time of %s runners in the %s for %d: %s", home, n, a.Display, home, n, a.PredictYear, a.Predicted)
	}
	return a.Question.String() + ": " + a.Display
}

func topLabel(n int) string {
	if n <= 0 {
		return "all"
	}
	return "top " + strconv.Itoa(n)
}

func formatR(r float64) string { return strconv.FormatFloat(r, 'f', 4, 64) }

func (p *Pipeline) meanFinishTime() (*Answer, error) {
	year := p.opts.MeanTimeYear
	rs, err := p.requireYear(year)
	if err != nil {
		return nil, err
	}
	var secs []float64
	for _, r := range dataset.Top(rs, p.opts.TopN) {
		secs = append(secs, float64(r.OfficialTime))
	}
	m, err := stats.Mean(secs)
	if err != nil {
		return nil, err
	}
	return &Answer{Question: MeanFinishTime, Year: year, Value: m, Display: racetime.Format(m)}, nil
}

func (p *Pipeline) medianAge() (*Answer, error) {
	year := p.opts.MedianAgeYear
	rs, err := p.requireYear(year)
	if err != nil {
		return nil, err
	}
	var ages []float64
	for _, r := range dataset.Top(rs, p.opts.TopN) {
		ages = append(ages, float64(r.Age))
	}
	med, err := stats.Median(ages)
	if err != nil {
		return nil, err
	}
	return &Answer{Question: MedianAge, Year: year, Value: med, Display: strconv.FormatFloat(med, 'f', -1, 64)}, nil
}

// topForeignCountry ranks the whole table, not only the top N.
func (p *Pipeline) topForeignCountry() (*Answer, error) {
	year := p.opts.CountryYear
	rs, err := p.requireYear(year)
	if err != nil {
		return nil, err
	}
	c := stats.NewCounter()
	for _, r := range rs {
		if r.Country != p.opts.HomeCountry {
			c.Add(r.Country)
		}
	}
	top := c.MostCommon(1)
	if len(top) == 0 {
		return nil, stats.ErrEmpty
	}
	return &Answer{Question: TopForeignCountry, Year: year, Value: float64(top[0].Count), Display: top[0].Value}, nil
}

func (p *Pipeline) womenCount() (*Answer, error) {
	year := p.opts.WomenYear
	rs, err := p.requireYear(year)
	if err != nil {
		return nil, err
	}
	top := dataset.Top(rs, p.opts.TopN)
	genders := make([]string, len(top))
	for i, r := range top {
		genders[i] = r.Gender
	}
	n := stats.CountEqual(genders, p.opts.WomenGender)
	return &Answer{Question: WomenCount, Year: year, Value: float64(n), Display: strconv.Itoa(n)}, nil
}

func (p *Pipeline) womenTrend() (*Answer, error) {
	years, means, skipped, err := p.yearlyMeans(func(r dataset.Runner) bool {
		return r.Gender == p.opts.WomenGender
	})
	if err != nil {
		return nil, err
	}
	r, err := stats.Pearson(toFloats(years), means)
	if err != nil {
		return nil, err
	}
	return &Answer{Question: WomenTrend, Value: r, Display: formatR(r), Years: years, Means: means, Skipped: skipped}, nil
}

func (p *Pipeline) homeTrend() (*Answer, error) {
	years, means, skipped, err := p.yearlyMeans(func(r dataset.Runner) bool {
		return r.Country == p.opts.HomeCountry
	})
	if err != nil {
		return nil, err
	}
	xs := toFloats(years)
	r, err := stats.Pearson(xs, means)
	if err != nil {
		return nil, err
	}
	line, err := predictionLine(xs, means, r)
	if err != nil {
		return nil, err
	}
	pred := line.At(float64(p.opts.PredictYear))
	return &Answer{
		Question:    HomeTrend,
		Value:       r,
		Display:     formatR(r),
		Years:       years,
		Means:       means,
		Skipped:     skipped,
		Line:        &line,
		PredictYear: p.opts.PredictYear,
		Predicted:   racetime.Format(pred),
	}, nil
}

// predictionLine derives the least-squares line from r and the sample
// standard deviations: slope = r*sd(y)/sd(x), intercept = mean(y) - slope*mean(x).
func predictionLine(xs, ys []float64, r float64) (stats.Line, error) {
	sx, err := stats.StdDev(xs)
	if err != nil {
		return stats.Line{}, err
	}
	sy, err := stats.StdDev(ys)
	if err != nil {
		return stats.Line{}, err
	}
	mx, err := stats.Mean(xs)
	if err != nil {
		return stats.Line{}, err
	}
	my, err := stats.Mean(ys)
	if err != nil {
		return stats.Line{}, err
	}
	slope := r * sy / sx
	return stats.Line{Slope: slope, Intercept: my - slope*mx}, nil
}
