package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Output formats
const (
	formatJSON  = "json"
	formatTable = "table"
)

func newSummarizeCmd(opts *options) *cobra.Command {
	var (
		dataPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize every recipe in the catalog",
		Long: `Compute the cheapest cost and nutrient profile of every catalog recipe in
a single run. The run aborts on the first recipe that cannot be priced.

Examples:
  recipecost summarize --data dataset.json
  recipecost summarize --data dataset.yaml --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			ctx := context.Background()
			app, err := opts.openApp(ctx, dataPath)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Summaries.SummarizeCatalog(ctx)
			if err != nil {
				return err
			}

			if format == formatTable {
				return writeSummaryTable(cmd.OutOrStdout(), result)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset file (json or yaml); overrides the configured catalog")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format (json, table)")

	return cmd
}

func validateFormat(format string) error {
	if format != formatJSON && format != formatTable {
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, formatJSON, formatTable)
	}
	return nil
}
