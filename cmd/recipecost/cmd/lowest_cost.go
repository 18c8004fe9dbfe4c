package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newLowestCostCmd(opts *options) *cobra.Command {
	var (
		dataPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "lowest-cost <ingredient>",
		Short: "Show the cheapest supplier offer for an ingredient",
		Args:  cobra.ExactArgs(1),
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

			product, err := app.Summaries.LowestCost(ctx, args[0])
			if err != nil {
				return err
			}

			if format == formatTable {
				return writeLowestCostTable(cmd.OutOrStdout(), product)
			}
			return writeJSON(cmd.OutOrStdout(), product)
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset file (json or yaml); overrides the configured catalog")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format (json, table)")

	return cmd
}
