// Package validate checks an invoice against the EN 16931 business rules
// that gate Factur-X generation. Messages carry the business-term identifier
// (BT-x / BG-x) of the offending field for traceability.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
)

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	countryRe  = regexp.MustCompile(`^[A-Z]{2}$`)
	ibanRe     = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Za-z0-9]{4,30}$`)
)

// amountTolerance is the allowed drift between quantity*unitPrice and the
// declared line total before a warning is raised
var amountTolerance = decimal.NewFromFloat(0.02)

// Invoice validates an invoice and returns a structured result. It never
// fails: every problem is reported as an error or a warning in order of
// discovery.
func Invoice(inv *model.Invoice) model.ValidationResult {
	result := model.ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	addErr := func(format string, args ...interface{}) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}
	addWarn := func(format string, args ...interface{}) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
	}

	// Header
	if strings.TrimSpace(inv.Number) == "" {
		addErr("BT-1: invoice number must not be empty")
	}
	if !dateRe.MatchString(inv.IssueDate) {
		addErr("BT-2: issue date must match YYYY-MM-DD, got %q", inv.IssueDate)
	}
	if !model.TypeCodes[inv.TypeCode] {
		addErr("BT-3: unknown invoice type code %q", inv.TypeCode)
	}
	if !currencyRe.MatchString(inv.Currency) {
		addErr("BT-5: currency must be a 3-letter ISO 4217 code, got %q", inv.Currency)
	}
	if !model.Profiles[inv.Profile] {
		addErr("BT-23: unknown Factur-X profile %q", inv.Profile)
	}
	if inv.DueDate != "" && !dateRe.MatchString(inv.DueDate) {
		addErr("BT-9: due date must match YYYY-MM-DD, got %q", inv.DueDate)
	}
	if inv.DeliveryDate != "" && !dateRe.MatchString(inv.DeliveryDate) {
		addErr("BT-72: delivery date must match YYYY-MM-DD, got %q", inv.DeliveryDate)
	}

	// Seller
	if strings.TrimSpace(inv.Seller.Name) == "" {
		addErr("BT-27: seller name must not be empty")
	}
	validateAddress("seller", "BT-35", "BT-37", "BT-38", "BT-40", inv.Seller.Address, addErr)
	if inv.Seller.VATNumber == "" && inv.Seller.ID == "" {
		addWarn("BT-31/BT-29: seller has neither a VAT number nor an identifier; required for EN 16931 conformance")
	}

	// Buyer
	if strings.TrimSpace(inv.Buyer.Name) == "" {
		addErr("BT-44: buyer name must not be empty")
	}
	if inv.Buyer.Address.Country != "" && !countryRe.MatchString(inv.Buyer.Address.Country) {
		addErr("BT-55: buyer country must be a 2-letter ISO 3166 code, got %q", inv.Buyer.Address.Country)
	}

	// Lines
	if len(inv.Lines) == 0 {
		addErr("BG-25: at least one invoice line is required")
	}
	seen := make(map[string]bool, len(inv.Lines))
	for i, line := range inv.Lines {
		pos := i + 1
		if strings.TrimSpace(line.ID) == "" {
			addErr("BT-126: line %d has no identifier", pos)
		} else if seen[line.ID] {
			addErr("BT-126: duplicate line identifier %q at line %d", line.ID, pos)
		} else {
			seen[line.ID] = true
		}
		if strings.TrimSpace(line.Description) == "" {
			addErr("BT-153: line %d has no item description", pos)
		}
		if line.TaxRate.IsNegative() {
			addErr("BT-152: line %d tax rate must be >= 0, got %s", pos, line.TaxRate)
		}
		if !model.TaxCategories[line.TaxCategory] {
			addErr("BT-151: line %d has unknown tax category %q", pos, line.TaxCategory)
		}

		expected := line.Quantity.Mul(line.UnitPrice)
		diff := line.Total.Sub(expected).Abs()
		if diff.GreaterThan(amountTolerance) {
			addWarn("BT-131: line %d total %s differs from quantity x unit price %s by %s",
				pos, line.Total, expected, diff)
		}
	}

	// Payment
	if inv.Payment != nil && inv.Payment.IBAN != "" {
		iban := strings.ToUpper(strings.ReplaceAll(inv.Payment.IBAN, " ", ""))
		if !ibanRe.MatchString(iban) {
			addWarn("BT-84: IBAN %q does not match the expected shape", inv.Payment.IBAN)
		}
	}

	return result
}

func validateAddress(party, btStreet, btCity, btPost, btCountry string,
	addr model.PostalAddress, addErr func(string, ...interface{})) {
	if strings.TrimSpace(addr.Street) == "" {
		addErr("%s: %s street must not be empty", btStreet, party)
	}
	if strings.TrimSpace(addr.City) == "" {
		addErr("%s: %s city must not be empty", btCity, party)
	}
	if strings.TrimSpace(addr.PostalCode) == "" {
		addErr("%s: %s postal code must not be empty", btPost, party)
	}
	if !countryRe.MatchString(addr.Country) {
		addErr("%s: %s country must be a 2-letter ISO 3166 code, got %q", btCountry, party, addr.Country)
	}
}
