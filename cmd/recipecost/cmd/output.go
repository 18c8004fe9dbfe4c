package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/recipecost/backend/internal/domain"
	"github.com/recipecost/backend/internal/usecase"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeSummaryTable prints one row per recipe followed by its nutrients
func writeSummaryTable(w io.Writer, result *domain.BatchResult) error {
	fmt.Fprintf(w, "Run %s\n\n", result.RunID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECIPE\tCHEAPEST COST\tNUTRIENT\tAMOUNT\tPER")
	for _, name := range usecase.SortedKeys(result.Summaries) {
		summary := result.Summaries[name]
		if len(summary.NutrientsAtCheapestCost) == 0 {
			fmt.Fprintf(tw, "%s\t%.4f\t-\t-\t-\n", name, summary.CheapestCost)
			continue
		}
		for i, fact := range summary.NutrientsAtCheapestCost {
			recipe, cost := "", ""
			if i == 0 {
				recipe, cost = name, fmt.Sprintf("%.4f", summary.CheapestCost)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f %s\t%s\n",
				recipe, cost, fact.NutrientName,
				fact.QuantityAmount.Amount, fact.QuantityAmount.Name, fact.QuantityPer)
		}
	}
	return tw.Flush()
}

func writeLowestCostTable(w io.Writer, product *domain.LowestCostProduct) error {
	offer := product.SupplierProduct

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSUPPLIER\tOFFER\tPRICE\tSIZE\tBASE PRICE")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%.6f\n",
		product.ProductName, offer.SupplierName, offer.SupplierProductName,
		offer.SupplierPrice, offer.SupplierProductUoM, product.BasePrice)
	return tw.Flush()
}
