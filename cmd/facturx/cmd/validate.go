package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/pkg/facturx"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice files against the EN 16931 business rules",
	Long: `Validate one or more invoice JSON files without generating XML.

Checks performed:
  - Mandatory header fields (number, date format, type code, currency, profile)
  - Seller and buyer identity and address
  - Line identifiers, descriptions, tax categories and rates
  - Line amount consistency (quantity x unit price vs total, 0.02 tolerance)
  - IBAN shape when payment details are present

Examples:
  facturx validate invoice.json
  facturx validate *.json -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// fileValidation pairs a validation result with its source file
type fileValidation struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	results := make([]fileValidation, 0, len(args))
	allValid := true

	for _, file := range args {
		fv := fileValidation{File: file, Valid: true}

		inv, err := readInvoice(file)
		if err != nil {
			fv.Valid = false
			fv.Errors = append(fv.Errors, err.Error())
		} else {
			result := facturx.Validate(inv)
			fv.Valid = result.Valid
			fv.Errors = result.Errors
			fv.Warnings = result.Warnings
		}

		if !fv.Valid {
			allValid = false
		}
		results = append(results, fv)
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}
