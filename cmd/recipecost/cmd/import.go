package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recipecost/backend/internal/infrastructure/catalog"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		dataPath string
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a dataset file into a SQLite catalog",
		Long: `Validate a dataset file and replace the contents of a SQLite catalog with it.
An invalid dataset leaves the database untouched.

Example:
  recipecost import --data dataset.json --db recipecost.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := catalog.LoadDataset(dataPath)
			if err != nil {
				return err
			}

			store, err := catalog.OpenSQLite(dbPath, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Import(context.Background(), dataset); err != nil {
				return err
			}

			opts.logger.Info("catalog imported",
				zap.String("data", dataPath),
				zap.String("db", dbPath))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d products and %d recipes into %s\n",
				len(dataset.Products), len(dataset.Recipes), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset file (json or yaml)")
	cmd.Flags().StringVar(&dbPath, "db", "recipecost.db", "SQLite database path")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}
