package main

import (
	"fmt"

	"sysmarket/internal/analytics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [csv-file]",
	Short: "Summarize an operational CSV export",
	Long: `Load a CSV export and print its shape, the detected dataset kind,
recognized columns (Spanish or English headers) and per-column statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	ds, err := analytics.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("Dataset loaded",
		zap.String("path", path),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("columns", len(ds.Columns)))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Analysis of %s", path)))
	fmt.Fprint(out, ds.Summary())
	return nil
}
