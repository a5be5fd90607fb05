// Package cii implements the bidirectional codec between the invoice model
// and the Factur-X (UN/CEFACT Cross Industry Invoice) XML representation.
package cii

import (
	"encoding/xml"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/tax"
)

// date format qualifier 102 = CCYYMMDD
const dateFormat102 = "102"

// Generate renders an invoice as a pretty-printed Factur-X XML document.
// The invoice is expected to have passed validation; Generate only fills
// the defaultable header fields and computes the settlement totals.
func Generate(inv *model.Invoice) (string, error) {
	inv.ApplyDefaults()
	totals := tax.Calculate(inv.Lines)

	doc := &xmlCrossIndustryInvoice{
		XmlnsRSM: nsRSM,
		XmlnsQDT: nsQDT,
		XmlnsRAM: nsRAM,
		XmlnsUDT: nsUDT,
		Context: xmlExchangedDocumentContext{
			GuidelineParameter: xmlDocumentContextParameter{ID: GuidelineURN(inv.Profile)},
		},
		Document: xmlExchangedDocument{
			ID:       inv.Number,
			TypeCode: string(inv.TypeCode),
			IssueDateTime: xmlDateTime{
				DateTimeString: xmlDateTimeString{Format: dateFormat102, Value: formatDate102(inv.IssueDate)},
			},
		},
	}

	if inv.Note != "" {
		doc.Document.IncludedNote = &xmlNote{Content: inv.Note}
	}

	for _, line := range inv.Lines {
		doc.Transaction.LineItems = append(doc.Transaction.LineItems, buildLineItem(line))
	}

	doc.Transaction.Agreement = buildAgreement(inv)
	doc.Transaction.Delivery = buildDelivery(inv)
	doc.Transaction.Settlement = buildSettlement(inv, totals)

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", model.NewParseError("document", "xml marshal failed", err)
	}
	return xml.Header + string(out), nil
}

func buildLineItem(line model.InvoiceLine) xmlTradeLineItem {
	unit := line.Unit
	if unit == "" {
		unit = "C62" // piece
	}
	return xmlTradeLineItem{
		LineDocument: xmlDocumentLine{LineID: line.ID},
		Product:      xmlTradeProduct{Name: line.Description},
		Agreement: xmlLineTradeAgreement{
			NetPrice: xmlTradePrice{ChargeAmount: line.UnitPrice.StringFixed(2)},
		},
		Delivery: xmlLineTradeDelivery{
			BilledQuantity: xmlQuantity{UnitCode: unit, Value: line.Quantity.String()},
		},
		Settlement: xmlLineTradeSettlement{
			TradeTax: xmlLineTradeTax{
				TypeCode:     "VAT",
				CategoryCode: string(line.TaxCategory),
				RatePercent:  line.TaxRate.String(),
			},
			Summation: xmlLineMonetarySummation{
				LineTotalAmount: line.Total.Round(2).StringFixed(2),
			},
		},
	}
}

func buildAgreement(inv *model.Invoice) xmlHeaderTradeAgreement {
	agreement := xmlHeaderTradeAgreement{
		Seller: buildParty(inv.Seller),
		Buyer:  buildParty(inv.Buyer),
	}
	if inv.References != nil {
		agreement.BuyerReference = inv.References.BuyerReference
		if inv.References.PurchaseOrder != "" {
			agreement.BuyerOrder = &xmlReferencedDocument{IssuerAssignedID: inv.References.PurchaseOrder}
		}
		if inv.References.Contract != "" {
			agreement.Contract = &xmlReferencedDocument{IssuerAssignedID: inv.References.Contract}
		}
	}
	return agreement
}

func buildParty(party model.TradeParty) xmlTradeParty {
	p := xmlTradeParty{
		ID:   party.ID,
		Name: party.Name,
		PostalAddress: xmlPostalAddress{
			PostcodeCode: party.Address.PostalCode,
			LineOne:      party.Address.Street,
			CityName:     party.Address.City,
			CountryID:    party.Address.Country,
		},
	}
	if party.LegalID != "" {
		p.LegalOrganization = &xmlLegalOrganization{ID: party.LegalID}
	}
	if party.Contact != nil {
		contact := &xmlTradeContact{PersonName: party.Contact.Name}
		if party.Contact.Phone != "" {
			contact.Phone = &xmlUniversalComm{CompleteNumber: party.Contact.Phone}
		}
		if party.Contact.Email != "" {
			contact.Email = &xmlUniversalCommURI{URIID: party.Contact.Email}
		}
		p.Contact = contact
	}
	if party.VATNumber != "" {
		p.TaxRegistration = &xmlTaxRegistration{
			ID: xmlSchemedID{SchemeID: "VA", Value: party.VATNumber},
		}
	}
	return p
}

func buildDelivery(inv *model.Invoice) xmlHeaderTradeDelivery {
	delivery := xmlHeaderTradeDelivery{}
	if inv.DeliveryDate != "" {
		delivery.DeliveryEvent = &xmlSupplyChainEvent{
			OccurrenceDateTime: xmlDateTime{
				DateTimeString: xmlDateTimeString{Format: dateFormat102, Value: formatDate102(inv.DeliveryDate)},
			},
		}
	}
	return delivery
}

func buildSettlement(inv *model.Invoice, totals model.InvoiceTotals) xmlHeaderTradeSettlement {
	settlement := xmlHeaderTradeSettlement{
		CurrencyCode: inv.Currency,
		Summation: xmlHeaderMonetarySummation{
			LineTotalAmount:     totals.LineTotal.StringFixed(2),
			TaxBasisTotalAmount: totals.TaxBasis.StringFixed(2),
			TaxTotalAmount:      xmlCurrencyAmount{CurrencyID: inv.Currency, Value: totals.TaxTotal.StringFixed(2)},
			GrandTotalAmount:    totals.GrandTotal.StringFixed(2),
			DuePayableAmount:    totals.DuePayable.StringFixed(2),
		},
	}

	if inv.Payment != nil {
		settlement.PaymentReference = inv.Payment.Reference
		if inv.Payment.MeansCode != "" || inv.Payment.IBAN != "" || inv.Payment.BIC != "" {
			means := &xmlPaymentMeans{TypeCode: inv.Payment.MeansCode}
			if means.TypeCode == "" {
				means.TypeCode = "30" // credit transfer
			}
			if inv.Payment.IBAN != "" {
				means.PayeeAccount = &xmlPayeeAccount{IBANID: stripIBAN(inv.Payment.IBAN)}
			}
			if inv.Payment.BIC != "" {
				means.PayeeInstitution = &xmlPayeeInstitution{BICID: inv.Payment.BIC}
			}
			settlement.PaymentMeans = means
		}
	}

	for _, group := range totals.TaxGroups {
		settlement.TradeTaxes = append(settlement.TradeTaxes, xmlHeaderTradeTax{
			CalculatedAmount: group.TaxAmount.StringFixed(2),
			TypeCode:         "VAT",
			BasisAmount:      group.Basis.StringFixed(2),
			CategoryCode:     string(group.Category),
			RatePercent:      group.Rate.String(),
		})
	}

	var terms *xmlPaymentTerms
	if inv.Payment != nil && inv.Payment.Terms != "" {
		terms = &xmlPaymentTerms{Description: inv.Payment.Terms}
	}
	if inv.DueDate != "" {
		if terms == nil {
			terms = &xmlPaymentTerms{}
		}
		terms.DueDateDateTime = &xmlDateTime{
			DateTimeString: xmlDateTimeString{Format: dateFormat102, Value: formatDate102(inv.DueDate)},
		}
	}
	settlement.PaymentTerms = terms

	return settlement
}
