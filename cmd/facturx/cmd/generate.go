package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/license"
	"github.com/rezonia/facturx/internal/quota"
	"github.com/rezonia/facturx/pkg/facturx"
)

var generateOutput string

var generateCmd = &cobra.Command{
	Use:   "generate <invoice.json>",
	Short: "Generate Factur-X XML from an invoice description",
	Long: `Generate a Factur-X XML document from a structured invoice JSON file.

The invoice is validated first; errors abort generation, warnings are
printed to stderr. Unlicensed use is limited to a daily quota.

Examples:
  facturx generate invoice.json
  facturx generate invoice.json -o invoice.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write XML to file instead of stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inv, err := readInvoice(args[0])
	if err != nil {
		return err
	}

	tracker, licensed := generationGate()
	if !licensed {
		ok, remaining, err := tracker.Allow()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("daily generation quota of %d exhausted; set FACTURX_LICENSE_TOKEN to lift the limit", tracker.Limit())
		}
		printVerbose("unlicensed mode: %d generation(s) left today after this one\n", remaining)
	}

	result := facturx.Validate(inv)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("invoice failed validation with %d error(s)", len(result.Errors))
	}

	xml, err := facturx.Generate(inv)
	if err != nil {
		return err
	}

	if !licensed {
		if err := tracker.Consume(); err != nil {
			printVerbose("could not persist quota state: %v\n", err)
		}
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(xml), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		printVerbose("wrote %s\n", generateOutput)
		return nil
	}

	fmt.Println(xml)
	return nil
}

// generationGate returns the quota tracker and whether a valid license
// bypasses it
func generationGate() (*quota.Tracker, bool) {
	tracker := quota.NewTracker(cfg.QuotaFile, cfg.QuotaLimit)

	if cfg.LicensePublicKeyFile == "" || cfg.LicenseToken == "" {
		return tracker, false
	}

	pemKey, err := os.ReadFile(cfg.LicensePublicKeyFile)
	if err != nil {
		printVerbose("cannot read license public key: %v\n", err)
		return tracker, false
	}
	verifier, err := license.NewVerifier(pemKey)
	if err != nil {
		printVerbose("cannot load license public key: %v\n", err)
		return tracker, false
	}

	status := verifier.Check(cfg.LicenseToken)
	if !status.Valid {
		printVerbose("license rejected: %s\n", status.Reason)
		return tracker, false
	}
	printVerbose("licensed: plan=%s\n", status.Plan)
	return tracker, true
}

func readInvoice(path string) (*facturx.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read invoice: %w", err)
	}
	var inv facturx.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice JSON: %w", err)
	}
	return &inv, nil
}
