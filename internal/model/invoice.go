package model

import (
	"github.com/shopspring/decimal"
)

// Profile represents a Factur-X conformance profile
type Profile string

const (
	ProfileMinimum  Profile = "MINIMUM"
	ProfileBasicWL  Profile = "BASIC_WL"
	ProfileBasic    Profile = "BASIC"
	ProfileEN16931  Profile = "EN16931"
	ProfileExtended Profile = "EXTENDED"
)

// TypeCode represents a UNTDID 1001 invoice type code
type TypeCode string

const (
	TypeCommercialInvoice TypeCode = "380"
	TypeCreditNote        TypeCode = "381"
	TypeCorrectedInvoice  TypeCode = "384"
	TypeSelfBilledInvoice TypeCode = "389"
)

// TaxCategory represents a UNTDID 5305 tax category code
type TaxCategory string

const (
	TaxCategoryStandard      TaxCategory = "S"
	TaxCategoryZeroRated     TaxCategory = "Z"
	TaxCategoryExempt        TaxCategory = "E"
	TaxCategoryReverseCharge TaxCategory = "AE"
	TaxCategoryIntraCommunity TaxCategory = "K"
	TaxCategoryExport        TaxCategory = "G"
	TaxCategoryOutOfScope    TaxCategory = "O"
	TaxCategoryCanaryIslands TaxCategory = "L"
	TaxCategoryCeutaMelilla  TaxCategory = "M"
)

// TaxCategories is the closed set of recognized category codes
var TaxCategories = map[TaxCategory]bool{
	TaxCategoryStandard:       true,
	TaxCategoryZeroRated:      true,
	TaxCategoryExempt:         true,
	TaxCategoryReverseCharge:  true,
	TaxCategoryIntraCommunity: true,
	TaxCategoryExport:         true,
	TaxCategoryOutOfScope:     true,
	TaxCategoryCanaryIslands:  true,
	TaxCategoryCeutaMelilla:   true,
}

// TypeCodes is the closed set of supported document type codes
var TypeCodes = map[TypeCode]bool{
	TypeCommercialInvoice: true,
	TypeCreditNote:        true,
	TypeCorrectedInvoice:  true,
	TypeSelfBilledInvoice: true,
}

// Profiles is the closed set of conformance profiles
var Profiles = map[Profile]bool{
	ProfileMinimum:  true,
	ProfileBasicWL:  true,
	ProfileBasic:    true,
	ProfileEN16931:  true,
	ProfileExtended: true,
}

// Invoice represents a structured invoice ready for Factur-X generation.
//
// Dates are YYYY-MM-DD strings; the codec converts them to and from the
// standard's format-102 (YYYYMMDD) representation. All amounts are decimals.
type Invoice struct {
	// Header
	Number       string   `json:"number"`
	TypeCode     TypeCode `json:"type_code,omitempty"`
	IssueDate    string   `json:"issue_date"`
	DueDate      string   `json:"due_date,omitempty"`
	DeliveryDate string   `json:"delivery_date,omitempty"`
	Currency     string   `json:"currency"`
	Profile      Profile  `json:"profile,omitempty"`

	// Parties
	Seller TradeParty `json:"seller"`
	Buyer  TradeParty `json:"buyer"`

	// Line items
	Lines []InvoiceLine `json:"lines"`

	// Optional blocks
	Payment    *PaymentInfo `json:"payment,omitempty"`
	References *References  `json:"references,omitempty"`
	Note       string       `json:"note,omitempty"`
}

// TradeParty represents seller or buyer
type TradeParty struct {
	Name      string         `json:"name"`
	ID        string         `json:"id,omitempty"`        // e.g. SIREN
	VATNumber string         `json:"vat_number,omitempty"`
	LegalID   string         `json:"legal_id,omitempty"`  // e.g. SIRET
	Address   PostalAddress  `json:"address"`
	Contact   *Contact       `json:"contact,omitempty"`
}

// PostalAddress represents a structured postal address
type PostalAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"` // ISO 3166-1 alpha-2
}

// Contact represents an optional party contact
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// InvoiceLine represents one billable item
type InvoiceLine struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"` // UN/ECE rec 20, defaults to C62
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxCategory TaxCategory     `json:"tax_category"`
}

// PaymentInfo represents optional payment instructions
type PaymentInfo struct {
	MeansCode string `json:"means_code,omitempty"` // UNTDID 4461, e.g. 30 credit transfer
	IBAN      string `json:"iban,omitempty"`
	BIC       string `json:"bic,omitempty"`
	Reference string `json:"reference,omitempty"`
	Terms     string `json:"terms,omitempty"`
}

// References represents optional document references
type References struct {
	PurchaseOrder  string `json:"purchase_order,omitempty"`
	Contract       string `json:"contract,omitempty"`
	BuyerReference string `json:"buyer_reference,omitempty"`
}

// TaxSummary is one per-rate entry of the settlement tax breakdown
type TaxSummary struct {
	Category  TaxCategory     `json:"category"`
	Rate      decimal.Decimal `json:"rate"`
	Basis     decimal.Decimal `json:"basis"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// InvoiceTotals is the derived monetary summation of an invoice
type InvoiceTotals struct {
	LineTotal  decimal.Decimal `json:"line_total"`
	TaxBasis   decimal.Decimal `json:"tax_basis"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	DuePayable decimal.Decimal `json:"due_payable"`
	TaxGroups  []TaxSummary    `json:"tax_groups"`
}

// ApplyDefaults fills the two defaultable header fields before validation
func (inv *Invoice) ApplyDefaults() {
	if inv.TypeCode == "" {
		inv.TypeCode = TypeCommercialInvoice
	}
	if inv.Profile == "" {
		inv.Profile = ProfileEN16931
	}
}
