package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/config"
	"github.com/rezonia/facturx/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "facturx",
	Short: "Generate, parse and submit Factur-X electronic invoices",
	Long: `facturx is a CLI tool for working with Factur-X (EN 16931 / CII) invoices.

Supports:
  - Generating Factur-X XML from structured invoice JSON
  - Parsing Factur-X XML back into structured data
  - Business-rule validation with errors and warnings
  - Embedding/extracting the XML in PDF containers
  - Submitting invoices to Chorus Pro

Examples:
  # Generate XML from an invoice description
  facturx generate invoice.json -o invoice.xml

  # Parse a Factur-X document
  facturx parse invoice.xml

  # Validate without generating
  facturx validate invoice.json

  # Embed into a PDF
  facturx pdf embed invoice.pdf invoice.xml -o facturx.pdf`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	cfg = config.Load()

	logCfg := cfg.LoggerConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logger.Setup(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
