// Package pdf embeds Factur-X XML into PDF containers and extracts it back.
// It never inspects the tax model: input and output are finished XML strings.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// AttachmentName is the attachment filename mandated by the Factur-X standard
const AttachmentName = "factur-x.xml"

// Container handles Factur-X PDF attachment operations
type Container struct {
	conf *model.Configuration
}

// NewContainer creates a PDF container handler
func NewContainer() *Container {
	return &Container{conf: model.NewDefaultConfiguration()}
}

// Embed attaches the XML document to the PDF as factur-x.xml and returns the
// resulting PDF bytes. pdfcpu's attachment API is file based, so the work
// happens in a temp directory.
func (c *Container) Embed(pdfData []byte, xml string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "facturx-embed-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inFile := filepath.Join(tmpDir, "input.pdf")
	outFile := filepath.Join(tmpDir, "output.pdf")
	xmlFile := filepath.Join(tmpDir, AttachmentName)

	if err := os.WriteFile(inFile, pdfData, 0o644); err != nil {
		return nil, fmt.Errorf("write temp PDF: %w", err)
	}
	if err := os.WriteFile(xmlFile, []byte(xml), 0o644); err != nil {
		return nil, fmt.Errorf("write temp XML: %w", err)
	}

	if err := api.AddAttachmentsFile(inFile, outFile, []string{xmlFile}, false, c.conf); err != nil {
		return nil, fmt.Errorf("attach %s: %w", AttachmentName, err)
	}

	out, err := os.ReadFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("read output PDF: %w", err)
	}
	return out, nil
}

// Extract recovers the embedded factur-x.xml from a PDF. It first asks
// pdfcpu for the attachment; when that fails it falls back to a raw
// byte-pattern search for an uncompressed XML stream.
func (c *Container) Extract(pdfData []byte) (string, error) {
	if xml, err := c.extractAttachment(pdfData); err == nil {
		return xml, nil
	}

	if xml, ok := scanForXML(pdfData); ok {
		return xml, nil
	}

	return "", fmt.Errorf("no %s attachment found in PDF", AttachmentName)
}

func (c *Container) extractAttachment(pdfData []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "facturx-extract-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inFile := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(inFile, pdfData, 0o644); err != nil {
		return "", fmt.Errorf("write temp PDF: %w", err)
	}

	if err := api.ExtractAttachmentsFile(inFile, tmpDir, []string{AttachmentName}, c.conf); err != nil {
		return "", fmt.Errorf("extract attachment: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, AttachmentName))
	if err != nil {
		return "", fmt.Errorf("read extracted XML: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("extracted XML is empty")
	}
	return string(data), nil
}

// scanForXML locates an uncompressed CrossIndustryInvoice stream by byte
// pattern. Works for PDFs whose attachment stream carries no filter.
func scanForXML(pdfData []byte) (string, bool) {
	start := bytes.Index(pdfData, []byte("<?xml"))
	for start >= 0 {
		rest := pdfData[start:]
		if end := closingTagEnd(rest); end > 0 {
			return string(rest[:end]), true
		}
		next := bytes.Index(pdfData[start+5:], []byte("<?xml"))
		if next < 0 {
			break
		}
		start += 5 + next
	}
	return "", false
}

func closingTagEnd(data []byte) int {
	for _, closing := range [][]byte{
		[]byte("</rsm:CrossIndustryInvoice>"),
		[]byte("</CrossIndustryInvoice>"),
	} {
		if idx := bytes.Index(data, closing); idx >= 0 {
			return idx + len(closing)
		}
	}
	return -1
}
