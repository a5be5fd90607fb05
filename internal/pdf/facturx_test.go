package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<rsm:CrossIndustryInvoice xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100">
  <rsm:ExchangedDocument/>
  <rsm:SupplyChainTradeTransaction/>
</rsm:CrossIndustryInvoice>`

// minimalPDF builds the smallest syntactically valid single-page PDF
func minimalPDF() []byte {
	return []byte(`%PDF-1.4
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [3 0 R] /Count 1 >>
endobj
3 0 obj
<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>
endobj
xref
0 4
0000000000 65535 f
0000000009 00000 n
0000000058 00000 n
0000000115 00000 n
trailer
<< /Size 4 /Root 1 0 R >>
startxref
186
%%EOF
`)
}

func TestEmbedThenExtract(t *testing.T) {
	container := NewContainer()

	withAttachment, err := container.Embed(minimalPDF(), sampleXML)
	require.NoError(t, err)
	assert.NotEqual(t, minimalPDF(), withAttachment)

	extracted, err := container.Extract(withAttachment)
	require.NoError(t, err)
	assert.Equal(t, sampleXML, extracted)
}

func TestEmbed_InvalidPDF(t *testing.T) {
	container := NewContainer()

	_, err := container.Embed([]byte("this is not a pdf"), sampleXML)
	assert.Error(t, err)
}

func TestExtract_NoAttachment(t *testing.T) {
	container := NewContainer()

	_, err := container.Extract(minimalPDF())
	require.Error(t, err)
	assert.Contains(t, err.Error(), AttachmentName)
}

func TestScanForXML_FindsUncompressedStream(t *testing.T) {
	// Attachment stream stored without a filter: the raw XML bytes sit
	// inside the PDF body
	blob := append([]byte("%PDF-1.4\nstream\n"), []byte(sampleXML)...)
	blob = append(blob, []byte("\nendstream\n%%EOF")...)

	xml, ok := scanForXML(blob)
	require.True(t, ok)
	assert.Equal(t, sampleXML, xml)
}

func TestScanForXML_UnprefixedClosingTag(t *testing.T) {
	doc := `<?xml version="1.0"?><CrossIndustryInvoice></CrossIndustryInvoice>`
	blob := append([]byte("junk before "), []byte(doc)...)

	xml, ok := scanForXML(blob)
	require.True(t, ok)
	assert.Equal(t, doc, xml)
}

func TestScanForXML_StopsAtClosingTag(t *testing.T) {
	doc := `<?xml version="1.0"?><rsm:CrossIndustryInvoice></rsm:CrossIndustryInvoice>`
	blob := append([]byte(doc), []byte("\nendstream\ntrailing pdf objects")...)

	xml, ok := scanForXML(blob)
	require.True(t, ok)
	assert.Equal(t, doc, xml)
}

func TestScanForXML_NothingToFind(t *testing.T) {
	_, ok := scanForXML([]byte("plain bytes, no xml at all"))
	assert.False(t, ok)
}
