package cmd

import (
	"github.com/spf13/cobra"
)

var plotDir string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the regression and trend charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPipeline()
		if err != nil {
			return err
		}
		dir := plotDir
		if dir == "" {
			dir = cfg.ChartsDir
		}
		return renderCharts(cmd, p, dir)
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotDir, "out", "o", "", "directory for chart images (overrides config)")
}
