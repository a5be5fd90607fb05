// Package facturx provides the public API for generating, parsing and
// validating Factur-X invoices.
//
// Example usage:
//
//	result := facturx.Validate(&inv)
//	if !result.Valid {
//	    log.Fatal(result.Errors)
//	}
//	xml, err := facturx.Generate(&inv)
package facturx

import (
	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/tax"
	"github.com/rezonia/facturx/internal/validate"
)

// Re-export core types for the public API
type (
	Invoice          = model.Invoice
	InvoiceLine      = model.InvoiceLine
	TradeParty       = model.TradeParty
	PostalAddress    = model.PostalAddress
	Contact          = model.Contact
	PaymentInfo      = model.PaymentInfo
	References       = model.References
	InvoiceTotals    = model.InvoiceTotals
	TaxSummary       = model.TaxSummary
	Profile          = model.Profile
	TypeCode         = model.TypeCode
	TaxCategory      = model.TaxCategory
	ValidationResult = model.ValidationResult
	ParseError       = model.ParseError
	GenerateError    = model.GenerateError
)

// Re-export profile constants
const (
	ProfileMinimum  = model.ProfileMinimum
	ProfileBasicWL  = model.ProfileBasicWL
	ProfileBasic    = model.ProfileBasic
	ProfileEN16931  = model.ProfileEN16931
	ProfileExtended = model.ProfileExtended
)

// Re-export document type codes
const (
	TypeCommercialInvoice = model.TypeCommercialInvoice
	TypeCreditNote        = model.TypeCreditNote
	TypeCorrectedInvoice  = model.TypeCorrectedInvoice
	TypeSelfBilledInvoice = model.TypeSelfBilledInvoice
)

// Validate applies the defaultable header fields and checks the invoice
// against the EN 16931 business rules. It always returns a result.
func Validate(inv *Invoice) ValidationResult {
	inv.ApplyDefaults()
	return validate.Invoice(inv)
}

// Generate validates the invoice and renders it as Factur-X XML. Validation
// errors abort generation; warnings do not.
func Generate(inv *Invoice) (string, error) {
	result := Validate(inv)
	if !result.Valid {
		return "", &GenerateError{Errors: result.Errors}
	}
	return cii.Generate(inv)
}

// Parse reconstructs an invoice from Factur-X XML
func Parse(xml string) (*Invoice, error) {
	return cii.Parse([]byte(xml))
}

// Totals computes the monetary summation of a line sequence without
// generating a document
func Totals(lines []InvoiceLine) InvoiceTotals {
	return tax.Calculate(lines)
}
