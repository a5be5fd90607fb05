package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/pkg/facturx"
)

var parseCmd = &cobra.Command{
	Use:   "parse <invoice.xml>",
	Short: "Parse a Factur-X XML document into structured JSON",
	Long: `Parse a Factur-X (CII) XML document and print the reconstructed
invoice as JSON. Namespace prefix variations are tolerated.

Examples:
  facturx parse invoice.xml
  facturx parse invoice.xml -f table`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	inv, err := facturx.Parse(string(data))
	if err != nil {
		return err
	}

	if outputFormat == "table" {
		printInvoiceTable(inv)
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(inv)
}

func printInvoiceTable(inv *facturx.Invoice) {
	fmt.Printf("Number:    %s\n", inv.Number)
	fmt.Printf("Type:      %s\n", inv.TypeCode)
	fmt.Printf("Issued:    %s\n", inv.IssueDate)
	fmt.Printf("Currency:  %s\n", inv.Currency)
	fmt.Printf("Profile:   %s\n", inv.Profile)
	fmt.Printf("Seller:    %s (%s)\n", inv.Seller.Name, inv.Seller.Address.Country)
	fmt.Printf("Buyer:     %s (%s)\n", inv.Buyer.Name, inv.Buyer.Address.Country)
	fmt.Printf("Lines:     %d\n", len(inv.Lines))
	for _, line := range inv.Lines {
		fmt.Printf("  [%s] %s  %s x %s = %s (%s %s%%)\n",
			line.ID, line.Description, line.Quantity, line.UnitPrice, line.Total,
			line.TaxCategory, line.TaxRate)
	}
	totals := facturx.Totals(inv.Lines)
	fmt.Printf("Total:     %s %s (tax %s)\n",
		totals.GrandTotal.StringFixed(2), inv.Currency, totals.TaxTotal.StringFixed(2))
}
