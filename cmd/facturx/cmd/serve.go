package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/license"
	"github.com/rezonia/facturx/internal/quota"
	"github.com/rezonia/facturx/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for the document engine.

The API provides endpoints for:
  - POST /api/v1/generate  - Generate Factur-X XML (license/quota gated)
  - POST /api/v1/parse     - Parse Factur-X XML
  - POST /api/v1/validate  - Validate an invoice
  - POST /api/v1/totals    - Compute totals for a line sequence
  - GET  /health           - Health check

Examples:
  facturx serve
  facturx serve --address :8080 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      serverAddr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
		LicenseToken: cfg.LicenseToken,
		Quota:        quota.NewTracker(cfg.QuotaFile, cfg.QuotaLimit),
	}

	if cfg.LicensePublicKeyFile != "" {
		pemKey, err := os.ReadFile(cfg.LicensePublicKeyFile)
		if err != nil {
			return fmt.Errorf("read license public key: %w", err)
		}
		verifier, err := license.NewVerifier(pemKey)
		if err != nil {
			return err
		}
		config.Verifier = verifier
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	return srv.Run()
}
