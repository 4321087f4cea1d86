package analysis

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/racestats/internal/racetime"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Report collects the answers of one run.
type Report struct {
	RunID       string    `json:"run_id"`
	DataDir     string    `json:"data_dir,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Tables      int       `json:"tables"`
	TopN        int       `json:"top_n"`
	HomeCountry string    `json:"home_country"`
	Answers     []*Answer `json:"answers"`
	Notes       []string  `json:"notes,omitempty"`
}

// Answer returns the answer for q, or nil when q was not asked.
func (r *Report) Answer(q Question) *Answer {
	for _, a := range r.Answers {
		if a.Question == q {
			return a
		}
	}
	return nil
}

// Text renders one line per answer, in question order.
func (r *Report) Text() string {
	var b strings.Builder
	for _, a := range r.Answers {
		b.WriteString(a.Sentence(r.TopN, r.HomeCountry))
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[RUN]\n")
	b.WriteString(fmt.Sprintf("ID: %s\n", r.RunID))
	if r.DataDir != "" {
		b.WriteString(fmt.Sprintf("Data: %s\n", r.DataDir))
	}
	if !r.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format(time.RFC3339)))
	}
	b.WriteString(fmt.Sprintf("Tables: %d\n", r.Tables))
	b.WriteString(fmt.Sprintf("Top N: %s\n\n", topLabel(r.TopN)))

	b.WriteString("[ANSWERS]\n")
	for _, a := range r.Answers {
		b.WriteString(fmt.Sprintf("- %s: %s\n", a.Label(), a.Display))
		if a.Line != nil {
			b.WriteString(fmt.Sprintf("  • predicted %d: %s (slope %.4g s/year)\n", a.PredictYear, a.Predicted, a.Line.Slope))
		}
	}

	var trends []*Answer
	for _, a := range r.Answers {
		if len(a.Years) > 0 {
			trends = append(trends, a)
		}
	}
	for _, a := range trends {
		b.WriteString(fmt.Sprintf("\n[SERIES %s]\n", strings.ToUpper(a.Question.String())))
		b.WriteString("| Year | Mean time |\n| --- | --- |\n")
		for i, y := range a.Years {
			b.WriteString(fmt.Sprintf("| %d | %s |\n", y, racetime.Format(a.Means[i])))
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Table writes the answers as a boxed table.
func (r *Report) Table(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Question", "Answer"})
	for _, a := range r.Answers {
		t.AppendRow(table.Row{int(a.Question), a.Label(), a.Display})
		if a.Line != nil {
			t.AppendRow(table.Row{"", fmt.Sprintf("Predicted mean time (%d)", a.PredictYear), a.Predicted})
		}
	}
	t.Render()
	for _, n := range r.Notes {
		_, _ = fmt.Fprintf(w, "⚠ %s\n", n)
	}
}
