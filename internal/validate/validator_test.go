package validate_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/validate"
)

func validInvoice() *model.Invoice {
	inv := &model.Invoice{
		Number:    "FA-2026-0042",
		IssueDate: "2026-03-15",
		Currency:  "EUR",
		Seller: model.TradeParty{
			Name:      "ACME SAS",
			VATNumber: "FR32123456789",
			Address: model.PostalAddress{
				Street:     "1 rue de la Paix",
				City:       "Paris",
				PostalCode: "75002",
				Country:    "FR",
			},
		},
		Buyer: model.TradeParty{
			Name: "CLIENT SA",
			Address: model.PostalAddress{
				Street:     "3 avenue des Champs",
				City:       "Lyon",
				PostalCode: "69001",
				Country:    "FR",
			},
		},
		Lines: []model.InvoiceLine{
			{
				ID:          "1",
				Description: "Consulting services",
				Quantity:    decimal.NewFromInt(10),
				Unit:        "DAY",
				UnitPrice:   decimal.NewFromInt(150),
				Total:       decimal.NewFromInt(1500),
				TaxRate:     decimal.NewFromInt(20),
				TaxCategory: model.TaxCategoryStandard,
			},
		},
	}
	inv.ApplyDefaults()
	return inv
}

func TestValidate_ValidInvoice(t *testing.T) {
	result := validate.Invoice(validInvoice())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_EmptyNumber(t *testing.T) {
	inv := validInvoice()
	inv.Number = ""

	result := validate.Invoice(inv)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "BT-1")
}

func TestValidate_NoLines(t *testing.T) {
	inv := validInvoice()
	inv.Lines = nil

	result := validate.Invoice(inv)

	assert.False(t, result.Valid)
	assertHasError(t, result, "BG-25")
}

func TestValidate_HeaderFormats(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Invoice)
		tag    string
	}{
		{"bad issue date", func(i *model.Invoice) { i.IssueDate = "15/03/2026" }, "BT-2"},
		{"unknown type code", func(i *model.Invoice) { i.TypeCode = "999" }, "BT-3"},
		{"lowercase currency", func(i *model.Invoice) { i.Currency = "eur" }, "BT-5"},
		{"unknown profile", func(i *model.Invoice) { i.Profile = "CUSTOM" }, "BT-23"},
		{"bad due date", func(i *model.Invoice) { i.DueDate = "soon" }, "BT-9"},
		{"bad delivery date", func(i *model.Invoice) { i.DeliveryDate = "20260315" }, "BT-72"},
		{"seller name empty", func(i *model.Invoice) { i.Seller.Name = "  " }, "BT-27"},
		{"seller street empty", func(i *model.Invoice) { i.Seller.Address.Street = "" }, "BT-35"},
		{"seller country bad", func(i *model.Invoice) { i.Seller.Address.Country = "FRA" }, "BT-40"},
		{"buyer name empty", func(i *model.Invoice) { i.Buyer.Name = "" }, "BT-44"},
		{"buyer country bad", func(i *model.Invoice) { i.Buyer.Address.Country = "fr" }, "BT-55"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)

			result := validate.Invoice(inv)

			assert.False(t, result.Valid)
			assertHasError(t, result, tt.tag)
		})
	}
}

func TestValidate_DuplicateLineIDs(t *testing.T) {
	inv := validInvoice()
	second := inv.Lines[0]
	inv.Lines = append(inv.Lines, second)

	result := validate.Invoice(inv)

	assert.False(t, result.Valid)
	assertHasError(t, result, "BT-126")
}

func TestValidate_NegativeTaxRate(t *testing.T) {
	inv := validInvoice()
	inv.Lines[0].TaxRate = decimal.NewFromInt(-5)

	result := validate.Invoice(inv)

	assert.False(t, result.Valid)
	assertHasError(t, result, "BT-152")
}

func TestValidate_UnknownTaxCategory(t *testing.T) {
	inv := validInvoice()
	inv.Lines[0].TaxCategory = "X"

	result := validate.Invoice(inv)

	assert.False(t, result.Valid)
	assertHasError(t, result, "BT-151")
}

func TestValidate_AmountMismatchWarnsButPasses(t *testing.T) {
	inv := validInvoice()
	// 10 x 15 = 150 expected, declared 151: diff 1 > 0.02 tolerance
	inv.Lines[0].Quantity = decimal.NewFromInt(10)
	inv.Lines[0].UnitPrice = decimal.NewFromInt(15)
	inv.Lines[0].Total = decimal.NewFromInt(151)

	result := validate.Invoice(inv)

	assert.True(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "BT-131")
	assert.Contains(t, result.Warnings[0], "1")
}

func TestValidate_AmountWithinTolerance(t *testing.T) {
	inv := validInvoice()
	inv.Lines[0].Quantity = decimal.NewFromInt(3)
	inv.Lines[0].UnitPrice = decimal.RequireFromString("33.333")
	inv.Lines[0].Total = decimal.RequireFromString("100.00") // expected 99.999, diff 0.001

	result := validate.Invoice(inv)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MissingSellerIdentifiersWarns(t *testing.T) {
	inv := validInvoice()
	inv.Seller.VATNumber = ""
	inv.Seller.ID = ""

	result := validate.Invoice(inv)

	assert.True(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "BT-31")
}

func TestValidate_IBANShape(t *testing.T) {
	inv := validInvoice()
	inv.Payment = &model.PaymentInfo{IBAN: "FR76 3000 6000 0112 3456 7890 189"}

	result := validate.Invoice(inv)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings, "spaced IBAN should pass after normalization")

	inv.Payment.IBAN = "NOT-AN-IBAN"
	result = validate.Invoice(inv)
	assert.True(t, result.Valid, "suspect IBAN is a warning, not an error")
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "BT-84")
}

func assertHasError(t *testing.T, result model.ValidationResult, tag string) {
	t.Helper()
	for _, e := range result.Errors {
		if strings.HasPrefix(e, tag) {
			return
		}
	}
	t.Fatalf("no error tagged %s in %v", tag, result.Errors)
}
