package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/racestats/internal/analysis"
	"github.com/KaramelBytes/racestats/internal/chart"
	"github.com/KaramelBytes/racestats/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFormat    string
	anaOutput    string
	anaChartsDir string
	anaNoCharts  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [question...]",
	Short: "Answer all or selected questions over the data directory",
	Long: `Answer the race questions. Questions are given by number or name:

  1 mean-time    mean finish time of the top N in one year
  2 median-age   median age of the top N in one year
  3 top-country  most common country of residence besides the home country
  4 women-count  number of women in the top N in one year
  5 women-trend  correlation of year and women's mean finish time
  6 home-trend   correlation of year and home runners' mean finish time, with a prediction

With no arguments every question is answered and both charts are rendered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := parseQuestions(args)
		if err != nil {
			return err
		}
		p, err := loadPipeline()
		if err != nil {
			return err
		}
		rep, err := p.Report(qs...)
		if err != nil {
			return err
		}
		out, err := renderReport(rep, anaFormat)
		if err != nil {
			return err
		}
		if anaOutput != "" {
			if err := utils.SafeWriteFile(anaOutput, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", anaOutput)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}

		if anaNoCharts || len(args) > 0 {
			return nil
		}
		dir := anaChartsDir
		if dir == "" {
			dir = cfg.ChartsDir
		}
		return renderCharts(cmd, p, dir)
	},
}

func parseQuestions(args []string) ([]analysis.Question, error) {
	var qs []analysis.Question
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			q, err := analysis.ParseQuestion(part)
			if err != nil {
				return nil, err
			}
			qs = append(qs, q)
		}
	}
	return qs, nil
}

func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return []byte(rep.Text()), nil
	case "md", "markdown":
		return []byte(rep.Markdown()), nil
	case "table":
		var buf bytes.Buffer
		rep.Table(&buf)
		return buf.Bytes(), nil
	case "json":
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use text|markdown|table|json)", format)
	}
}

func renderCharts(cmd *cobra.Command, p *analysis.Pipeline, dir string) error {
	s, err := p.Series()
	if err != nil {
		return err
	}
	opts := p.Options()
	paths, err := chart.Render(dir, s, opts.HomeCountry, opts.TopN)
	if err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Chart written to %s\n", path)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "text", "output format: text|markdown|table|json")
	analyzeCmd.Flags().StringVarP(&anaOutput, "output", "o", "", "write the report to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&anaChartsDir, "charts-dir", "", "directory for chart images (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
}
