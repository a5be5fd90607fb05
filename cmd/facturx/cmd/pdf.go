package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/pdf"
)

var pdfOutput string

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Embed or extract Factur-X XML in PDF containers",
}

var pdfEmbedCmd = &cobra.Command{
	Use:   "embed <input.pdf> <invoice.xml>",
	Short: "Attach a Factur-X XML document to a PDF",
	Long: `Attach the given XML document to a PDF as factur-x.xml.

Examples:
  facturx pdf embed invoice.pdf invoice.xml -o facturx.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runPDFEmbed,
}

var pdfExtractCmd = &cobra.Command{
	Use:   "extract <input.pdf>",
	Short: "Extract the embedded factur-x.xml from a PDF",
	Long: `Extract the embedded Factur-X XML from a PDF and print it, or write
it to a file with -o.

Examples:
  facturx pdf extract facturx.pdf
  facturx pdf extract facturx.pdf -o invoice.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runPDFExtract,
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.AddCommand(pdfEmbedCmd)
	pdfCmd.AddCommand(pdfExtractCmd)

	pdfEmbedCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Output file (default: <input>-facturx.pdf)")
	pdfExtractCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Write XML to file instead of stdout")
}

func runPDFEmbed(cmd *cobra.Command, args []string) error {
	pdfData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read PDF: %w", err)
	}
	xmlData, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read XML: %w", err)
	}

	out, err := pdf.NewContainer().Embed(pdfData, string(xmlData))
	if err != nil {
		return err
	}

	target := pdfOutput
	if target == "" {
		target = args[0] + "-facturx.pdf"
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("write output PDF: %w", err)
	}
	printVerbose("wrote %s\n", target)
	return nil
}

func runPDFExtract(cmd *cobra.Command, args []string) error {
	pdfData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read PDF: %w", err)
	}

	xml, err := pdf.NewContainer().Extract(pdfData)
	if err != nil {
		return err
	}

	if pdfOutput != "" {
		if err := os.WriteFile(pdfOutput, []byte(xml), 0o644); err != nil {
			return fmt.Errorf("write XML: %w", err)
		}
		printVerbose("wrote %s\n", pdfOutput)
		return nil
	}

	fmt.Println(xml)
	return nil
}
