package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/racestats/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags clears values and Changed state that cobra keeps between
// Execute calls on the same command tree.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	})
}

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd.PersistentFlags())
	for _, c := range []*cobra.Command{analyzeCmd, plotCmd, listCmd} {
		resetFlags(c.Flags())
	}
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// writeData creates a data dir with 2012 missing and a config file that
// points every question at it. It returns both paths.
func writeData(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	usa := "United States of America"
	testutil.WriteTable(t, dir, "boston_marathon_2010.csv", [][]string{
		{"03:00:00", "30", "M", usa},
		{"03:30:00", "40", "F", "Kenya"},
	})
	testutil.WriteTable(t, dir, "boston_marathon_2011.csv", [][]string{
		{"03:02:00", "31", "M", usa},
		{"03:20:00", "41", "F", "Kenya"},
	})
	testutil.WriteTable(t, dir, "boston_marathon_2013.csv", [][]string{
		{"03:15:10", "34", "F", usa},
		{"02:59:59", "41", "M", "Canada"},
	})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	conf := "first_year: 2010\nlast_year: 2013\nmean_time_year: 2013\nmedian_age_year: 2013\n" +
		"country_year: 2013\nwomen_year: 2013\npredict_year: 2012\n"
	if err := os.WriteFile(cfgPath, []byte(conf), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir, cfgPath
}

func TestCLI_AnalyzeText(t *testing.T) {
	dir, conf := writeData(t)
	out := mustRun(t, "--config", conf, "analyze", "-d", dir, "--no-charts")
	for _, want := range []string{
		"Question 1: In 2013, the mean finish time of the top 1000 runners was 03:07:34.",
		"median age of the top 1000 runners was 37.5.",
		"was Canada.",
		"Question 4: In 2013, 1 women finished in the top 1000.",
		"Question 5:",
		"for 2012:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_AnalyzeSubsetToFile(t *testing.T) {
	dir, conf := writeData(t)
	dest := filepath.Join(t.TempDir(), "reports", "run.md")
	out := mustRun(t, "--config", conf, "analyze", "-d", dir, "--format", "markdown", "-o", dest, "1,median-age")
	if !strings.Contains(out, "Report written") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	if !strings.Contains(md, "[ANSWERS]") || !strings.Contains(md, "03:07:34") {
		t.Fatalf("unexpected report:\n%s", md)
	}
	if strings.Contains(md, "Top foreign country") {
		t.Fatalf("report should only hold the selected questions:\n%s", md)
	}
}

func TestCLI_AnalyzeTableAndTopOverride(t *testing.T) {
	dir, conf := writeData(t)
	out := mustRun(t, "--config", conf, "--top", "1", "analyze", "-d", dir, "--format", "table", "mean-time")
	// top 1 of 2013 is the 03:15:10 finisher
	if !strings.Contains(out, "03:15:10") {
		t.Fatalf("expected top-1 mean in table:\n%s", out)
	}
}

func TestCLI_AnalyzeWritesCharts(t *testing.T) {
	dir, conf := writeData(t)
	charts := filepath.Join(t.TempDir(), "charts")
	mustRun(t, "--config", conf, "analyze", "-d", dir, "--charts-dir", charts, "--format", "json")
	for _, name := range []string{"regression.png", "trend.png"} {
		if _, err := os.Stat(filepath.Join(charts, name)); err != nil {
			t.Fatalf("expected chart %s: %v", name, err)
		}
	}
}

func TestCLI_Plot(t *testing.T) {
	dir, conf := writeData(t)
	charts := filepath.Join(t.TempDir(), "plots")
	out := mustRun(t, "--config", conf, "plot", "-d", dir, "-o", charts)
	if strings.Count(out, "Chart written") != 2 {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCLI_List(t *testing.T) {
	dir, _ := writeData(t)
	out := mustRun(t, "list", "-d", dir, "--columns")
	for _, want := range []string{"boston_marathon_2010.csv", "2013", "CountryOfResName", "(3 tables)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_Errors(t *testing.T) {
	dir, conf := writeData(t)
	if _, err := runCmd(t, "analyze", "-d", dir, "speed"); err == nil {
		t.Fatalf("expected error for unknown question")
	}
	if _, err := runCmd(t, "analyze", "-d", filepath.Join(dir, "missing"), "1"); err == nil {
		t.Fatalf("expected error for missing data dir")
	}
	if _, err := runCmd(t, "--config", conf, "analyze", "-d", dir, "--format", "xml", "1"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	// without the test config the country question reads 2023
	if _, err := runCmd(t, "analyze", "-d", dir, "top-country"); err == nil {
		t.Fatalf("expected error for missing year table")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	mustRun(t, "config", "set", "top_n", "250")
	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "top_n: 250") {
		t.Fatalf("expected saved top_n:\n%s", out)
	}
	if _, err := runCmd(t, "config", "set", "first_year", "2030"); err == nil {
		t.Fatalf("expected error when first_year passes last_year")
	}
	if _, err := runCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
