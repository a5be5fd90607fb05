package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/chorus"
	"github.com/rezonia/facturx/internal/logger"
)

var submitSiret string

var submitCmd = &cobra.Command{
	Use:   "submit <invoice.xml>",
	Short: "Submit a Factur-X document to Chorus Pro",
	Long: `Submit a generated Factur-X XML document to the Chorus Pro platform.

Requires CHORUS_CLIENT_ID and CHORUS_CLIENT_SECRET in the environment
(or a .env file).

Examples:
  facturx submit invoice.xml
  facturx submit invoice.xml --siret 12345678901234`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

var statusCmd = &cobra.Command{
	Use:   "status <invoice-id>",
	Short: "Fetch the Chorus Pro status of a submitted invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices submitted to Chorus Pro",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)

	submitCmd.Flags().StringVar(&submitSiret, "siret", "", "Recipient SIRET")
}

func chorusClient() (*chorus.Client, error) {
	if cfg.ChorusClientID == "" || cfg.ChorusClientSecret == "" {
		return nil, fmt.Errorf("CHORUS_CLIENT_ID and CHORUS_CLIENT_SECRET must be set")
	}

	opts := []chorus.Option{chorus.WithLogger(logger.WithComponent("chorus"))}
	if cfg.ChorusBaseURL != "" {
		opts = append(opts, chorus.WithBaseURL(cfg.ChorusBaseURL))
	}
	if cfg.ChorusAuthURL != "" {
		opts = append(opts, chorus.WithAuthURL(cfg.ChorusAuthURL))
	}
	return chorus.NewClient(cfg.ChorusClientID, cfg.ChorusClientSecret, opts...), nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	client, err := chorusClient()
	if err != nil {
		return err
	}

	xml, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := client.Submit(ctx, chorus.SubmissionRequest{
		XML:            string(xml),
		FileName:       filepath.Base(args[0]),
		RecipientSiret: submitSiret,
	})
	if err != nil {
		return err
	}

	return printJSON(result)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := chorusClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	status, err := client.Status(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(status)
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := chorusClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	invoices, err := client.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(invoices)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
