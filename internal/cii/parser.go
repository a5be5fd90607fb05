package cii

import (
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
)

// Parse reconstructs an invoice from a Factur-X XML document.
//
// Element matching ignores namespace prefixes: the standard permits several
// prefix conventions (rsm/ram/udt, default namespaces, generator-specific
// prefixes), so lookups compare local names only. The document-identity and
// transaction sections are mandatory; every other section parses to an
// absent value when missing.
func Parse(data []byte) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewParseError("document", "not parseable as XML", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError("document", "empty XML document", nil)
	}

	header := child(root, "ExchangedDocument")
	if header == nil {
		return nil, model.NewParseError("ExchangedDocument", "missing document identity section", nil)
	}
	transaction := child(root, "SupplyChainTradeTransaction")
	if transaction == nil {
		return nil, model.NewParseError("SupplyChainTradeTransaction", "missing transaction section", nil)
	}

	inv := &model.Invoice{
		Number:   text(header, "ID"),
		TypeCode: model.TypeCode(text(header, "TypeCode")),
		Profile:  parseProfile(root),
		Note:     textAt(header, "IncludedNote", "Content"),
	}

	if issued := dateAt(header, "IssueDateTime"); issued != "" {
		inv.IssueDate = issued
	}

	for _, item := range children(transaction, "IncludedSupplyChainTradeLineItem") {
		inv.Lines = append(inv.Lines, parseLine(item))
	}

	if agreement := child(transaction, "ApplicableHeaderTradeAgreement"); agreement != nil {
		parseAgreement(agreement, inv)
	}

	if delivery := child(transaction, "ApplicableHeaderTradeDelivery"); delivery != nil {
		if event := child(delivery, "ActualDeliverySupplyChainEvent"); event != nil {
			inv.DeliveryDate = dateAt(event, "OccurrenceDateTime")
		}
	}

	if settlement := child(transaction, "ApplicableHeaderTradeSettlement"); settlement != nil {
		parseSettlement(settlement, inv)
	}

	return inv, nil
}

func parseProfile(root *etree.Element) model.Profile {
	if ctx := child(root, "ExchangedDocumentContext"); ctx != nil {
		if param := child(ctx, "GuidelineSpecifiedDocumentContextParameter"); param != nil {
			return ProfileFromURN(text(param, "ID"))
		}
	}
	return model.ProfileEN16931
}

func parseLine(item *etree.Element) model.InvoiceLine {
	line := model.InvoiceLine{Unit: "C62"}

	if doc := child(item, "AssociatedDocumentLineDocument"); doc != nil {
		line.ID = text(doc, "LineID")
	}
	if product := child(item, "SpecifiedTradeProduct"); product != nil {
		line.Description = text(product, "Name")
	}
	if agreement := child(item, "SpecifiedLineTradeAgreement"); agreement != nil {
		line.UnitPrice = decimalAt(agreement, "NetPriceProductTradePrice", "ChargeAmount")
	}
	if delivery := child(item, "SpecifiedLineTradeDelivery"); delivery != nil {
		if qty := child(delivery, "BilledQuantity"); qty != nil {
			line.Quantity = parseDecimal(qty.Text())
			if unit := qty.SelectAttrValue("unitCode", ""); unit != "" {
				line.Unit = unit
			}
		}
	}
	if settlement := child(item, "SpecifiedLineTradeSettlement"); settlement != nil {
		if tradeTax := child(settlement, "ApplicableTradeTax"); tradeTax != nil {
			line.TaxCategory = model.TaxCategory(text(tradeTax, "CategoryCode"))
			line.TaxRate = parseDecimal(text(tradeTax, "RateApplicablePercent"))
		}
		line.Total = decimalAt(settlement, "SpecifiedTradeSettlementLineMonetarySummation", "LineTotalAmount")
	}

	return line
}

func parseAgreement(agreement *etree.Element, inv *model.Invoice) {
	if seller := child(agreement, "SellerTradeParty"); seller != nil {
		inv.Seller = parseParty(seller)
	}
	if buyer := child(agreement, "BuyerTradeParty"); buyer != nil {
		inv.Buyer = parseParty(buyer)
	}

	refs := model.References{
		BuyerReference: text(agreement, "BuyerReference"),
		PurchaseOrder:  textAt(agreement, "BuyerOrderReferencedDocument", "IssuerAssignedID"),
		Contract:       textAt(agreement, "ContractReferencedDocument", "IssuerAssignedID"),
	}
	if refs != (model.References{}) {
		inv.References = &refs
	}
}

func parseParty(el *etree.Element) model.TradeParty {
	party := model.TradeParty{
		ID:      text(el, "ID"),
		Name:    text(el, "Name"),
		LegalID: textAt(el, "SpecifiedLegalOrganization", "ID"),
	}

	if addr := child(el, "PostalTradeAddress"); addr != nil {
		party.Address = model.PostalAddress{
			Street:     text(addr, "LineOne"),
			City:       text(addr, "CityName"),
			PostalCode: text(addr, "PostcodeCode"),
			Country:    text(addr, "CountryID"),
		}
	}

	if reg := child(el, "SpecifiedTaxRegistration"); reg != nil {
		party.VATNumber = text(reg, "ID")
	}

	if contactEl := child(el, "DefinedTradeContact"); contactEl != nil {
		contact := model.Contact{
			Name:  text(contactEl, "PersonName"),
			Phone: textAt(contactEl, "TelephoneUniversalCommunication", "CompleteNumber"),
			Email: textAt(contactEl, "EmailURIUniversalCommunication", "URIID"),
		}
		if contact != (model.Contact{}) {
			party.Contact = &contact
		}
	}

	return party
}

func parseSettlement(settlement *etree.Element, inv *model.Invoice) {
	inv.Currency = text(settlement, "InvoiceCurrencyCode")

	payment := model.PaymentInfo{
		Reference: text(settlement, "PaymentReference"),
	}

	if means := child(settlement, "SpecifiedTradeSettlementPaymentMeans"); means != nil {
		payment.MeansCode = text(means, "TypeCode")
		payment.IBAN = textAt(means, "PayeePartyCreditorFinancialAccount", "IBANID")
		payment.BIC = textAt(means, "PayeeSpecifiedCreditorFinancialInstitution", "BICID")
	}

	if terms := child(settlement, "SpecifiedTradePaymentTerms"); terms != nil {
		payment.Terms = text(terms, "Description")
		if due := child(terms, "DueDateDateTime"); due != nil {
			inv.DueDate = dateOf(due)
		}
	}

	if payment != (model.PaymentInfo{}) {
		inv.Payment = &payment
	}
}

// Element helpers. etree keeps the namespace prefix in Space and the local
// name in Tag, so comparing Tag alone is prefix-agnostic.

func child(el *etree.Element, localName string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == localName {
			return c
		}
	}
	return nil
}

func children(el *etree.Element, localName string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == localName {
			out = append(out, c)
		}
	}
	return out
}

func text(el *etree.Element, localName string) string {
	if c := child(el, localName); c != nil {
		return c.Text()
	}
	return ""
}

func textAt(el *etree.Element, localName, childName string) string {
	if c := child(el, localName); c != nil {
		return text(c, childName)
	}
	return ""
}

func decimalAt(el *etree.Element, localName, childName string) decimal.Decimal {
	return parseDecimal(textAt(el, localName, childName))
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dateAt reads the format-102 DateTimeString nested under the named element
func dateAt(el *etree.Element, localName string) string {
	if c := child(el, localName); c != nil {
		return dateOf(c)
	}
	return ""
}

func dateOf(el *etree.Element) string {
	if dt := child(el, "DateTimeString"); dt != nil {
		if date, err := parseDate102(dt.Text()); err == nil {
			return date
		}
	}
	return ""
}
