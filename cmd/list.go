package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listColumns bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tables found in the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline()
		if err != nil {
			return err
		}
		ds := p.Dataset()
		out := cmd.OutOrStdout()
		if ds.Len() == 0 {
			fmt.Fprintln(out, "(no tables)")
			return nil
		}
		naming := p.Options().Naming

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		header := table.Row{"Table", "Year", "Rows", "Columns"}
		if listColumns {
			header = append(header, "Header")
		}
		t.AppendHeader(header)
		for _, name := range ds.Names() {
			ct, _ := ds.Table(name)
			year := "-"
			if y, ok := naming.Year(name); ok {
				year = fmt.Sprint(y)
			}
			row := table.Row{name, year, ct.Rows(), ct.Width()}
			if listColumns {
				row = append(row, strings.Join(ct.Header(), ", "))
			}
			t.AppendRow(row)
		}
		t.Render()
		fmt.Fprintf(out, "(%d tables)\n", ds.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listColumns, "columns", false, "include the header of each table")
}
