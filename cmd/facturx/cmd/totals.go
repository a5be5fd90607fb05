package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/pkg/facturx"
)

var totalsCmd = &cobra.Command{
	Use:   "totals <invoice.json>",
	Short: "Compute the monetary summation of an invoice",
	Long: `Compute line total, tax breakdown and grand total for an invoice
without validating or generating a document.

Examples:
  facturx totals invoice.json
  facturx totals invoice.json -f table`,
	Args: cobra.ExactArgs(1),
	RunE: runTotals,
}

func init() {
	rootCmd.AddCommand(totalsCmd)
}

func runTotals(cmd *cobra.Command, args []string) error {
	inv, err := readInvoice(args[0])
	if err != nil {
		return err
	}

	totals := facturx.Totals(inv.Lines)

	if outputFormat == "table" {
		fmt.Printf("Line total:  %s\n", totals.LineTotal.StringFixed(2))
		fmt.Printf("Tax basis:   %s\n", totals.TaxBasis.StringFixed(2))
		fmt.Printf("Tax total:   %s\n", totals.TaxTotal.StringFixed(2))
		fmt.Printf("Grand total: %s\n", totals.GrandTotal.StringFixed(2))
		fmt.Printf("Due:         %s\n", totals.DuePayable.StringFixed(2))
		for _, g := range totals.TaxGroups {
			fmt.Printf("  %s %s%%: basis %s, tax %s\n",
				g.Category, g.Rate, g.Basis.StringFixed(2), g.TaxAmount.StringFixed(2))
		}
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(totals)
}
