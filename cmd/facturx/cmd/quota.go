package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/license"
	"github.com/rezonia/facturx/internal/quota"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the remaining daily generation quota",
	Args:  cobra.NoArgs,
	RunE:  runQuota,
}

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Check the configured license token",
	Args:  cobra.NoArgs,
	RunE:  runLicense,
}

func init() {
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(licenseCmd)
}

func runQuota(cmd *cobra.Command, args []string) error {
	tracker := quota.NewTracker(cfg.QuotaFile, cfg.QuotaLimit)
	remaining, err := tracker.Remaining()
	if err != nil {
		return err
	}
	fmt.Printf("%d of %d generation(s) remaining today\n", remaining, tracker.Limit())
	return nil
}

func runLicense(cmd *cobra.Command, args []string) error {
	if cfg.LicensePublicKeyFile == "" {
		return fmt.Errorf("FACTURX_LICENSE_PUBKEY is not set")
	}
	pemKey, err := os.ReadFile(cfg.LicensePublicKeyFile)
	if err != nil {
		return fmt.Errorf("read license public key: %w", err)
	}
	verifier, err := license.NewVerifier(pemKey)
	if err != nil {
		return err
	}

	status := verifier.Check(cfg.LicenseToken)
	return printJSON(status)
}
