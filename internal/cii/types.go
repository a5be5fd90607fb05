package cii

import "encoding/xml"

// XML tree for the UN/CEFACT Cross Industry Invoice D16B syntax.
// Field order mirrors the schema's fixed element sequence; downstream
// schema validation is positional, so do not reorder.

const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

type xmlCrossIndustryInvoice struct {
	XMLName  xml.Name `xml:"rsm:CrossIndustryInvoice"`
	XmlnsRSM string   `xml:"xmlns:rsm,attr"`
	XmlnsQDT string   `xml:"xmlns:qdt,attr"`
	XmlnsRAM string   `xml:"xmlns:ram,attr"`
	XmlnsUDT string   `xml:"xmlns:udt,attr"`

	Context     xmlExchangedDocumentContext `xml:"rsm:ExchangedDocumentContext"`
	Document    xmlExchangedDocument        `xml:"rsm:ExchangedDocument"`
	Transaction xmlTradeTransaction         `xml:"rsm:SupplyChainTradeTransaction"`
}

type xmlExchangedDocumentContext struct {
	GuidelineParameter xmlDocumentContextParameter `xml:"ram:GuidelineSpecifiedDocumentContextParameter"`
}

type xmlDocumentContextParameter struct {
	ID string `xml:"ram:ID"`
}

type xmlExchangedDocument struct {
	ID            string       `xml:"ram:ID"`
	TypeCode      string       `xml:"ram:TypeCode"`
	IssueDateTime xmlDateTime  `xml:"ram:IssueDateTime"`
	IncludedNote  *xmlNote     `xml:"ram:IncludedNote,omitempty"`
}

type xmlDateTime struct {
	DateTimeString xmlDateTimeString `xml:"udt:DateTimeString"`
}

type xmlDateTimeString struct {
	Format string `xml:"format,attr"`
	Value  string `xml:",chardata"`
}

type xmlNote struct {
	Content string `xml:"ram:Content"`
}

type xmlTradeTransaction struct {
	LineItems  []xmlTradeLineItem       `xml:"ram:IncludedSupplyChainTradeLineItem"`
	Agreement  xmlHeaderTradeAgreement  `xml:"ram:ApplicableHeaderTradeAgreement"`
	Delivery   xmlHeaderTradeDelivery   `xml:"ram:ApplicableHeaderTradeDelivery"`
	Settlement xmlHeaderTradeSettlement `xml:"ram:ApplicableHeaderTradeSettlement"`
}

type xmlTradeLineItem struct {
	LineDocument xmlDocumentLine         `xml:"ram:AssociatedDocumentLineDocument"`
	Product      xmlTradeProduct         `xml:"ram:SpecifiedTradeProduct"`
	Agreement    xmlLineTradeAgreement   `xml:"ram:SpecifiedLineTradeAgreement"`
	Delivery     xmlLineTradeDelivery    `xml:"ram:SpecifiedLineTradeDelivery"`
	Settlement   xmlLineTradeSettlement  `xml:"ram:SpecifiedLineTradeSettlement"`
}

type xmlDocumentLine struct {
	LineID string `xml:"ram:LineID"`
}

type xmlTradeProduct struct {
	Name string `xml:"ram:Name"`
}

type xmlLineTradeAgreement struct {
	NetPrice xmlTradePrice `xml:"ram:NetPriceProductTradePrice"`
}

type xmlTradePrice struct {
	ChargeAmount string `xml:"ram:ChargeAmount"`
}

type xmlLineTradeDelivery struct {
	BilledQuantity xmlQuantity `xml:"ram:BilledQuantity"`
}

type xmlQuantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type xmlLineTradeSettlement struct {
	TradeTax   xmlLineTradeTax          `xml:"ram:ApplicableTradeTax"`
	Summation  xmlLineMonetarySummation `xml:"ram:SpecifiedTradeSettlementLineMonetarySummation"`
}

type xmlLineTradeTax struct {
	TypeCode     string `xml:"ram:TypeCode"`
	CategoryCode string `xml:"ram:CategoryCode"`
	RatePercent  string `xml:"ram:RateApplicablePercent"`
}

type xmlLineMonetarySummation struct {
	LineTotalAmount string `xml:"ram:LineTotalAmount"`
}

type xmlHeaderTradeAgreement struct {
	BuyerReference string                 `xml:"ram:BuyerReference,omitempty"`
	Seller         xmlTradeParty          `xml:"ram:SellerTradeParty"`
	Buyer          xmlTradeParty          `xml:"ram:BuyerTradeParty"`
	BuyerOrder     *xmlReferencedDocument `xml:"ram:BuyerOrderReferencedDocument,omitempty"`
	Contract       *xmlReferencedDocument `xml:"ram:ContractReferencedDocument,omitempty"`
}

type xmlReferencedDocument struct {
	IssuerAssignedID string `xml:"ram:IssuerAssignedID"`
}

type xmlTradeParty struct {
	ID                string                `xml:"ram:ID,omitempty"`
	Name              string                `xml:"ram:Name"`
	LegalOrganization *xmlLegalOrganization `xml:"ram:SpecifiedLegalOrganization,omitempty"`
	Contact           *xmlTradeContact      `xml:"ram:DefinedTradeContact,omitempty"`
	PostalAddress     xmlPostalAddress      `xml:"ram:PostalTradeAddress"`
	TaxRegistration   *xmlTaxRegistration   `xml:"ram:SpecifiedTaxRegistration,omitempty"`
}

type xmlLegalOrganization struct {
	ID string `xml:"ram:ID"`
}

type xmlTradeContact struct {
	PersonName string               `xml:"ram:PersonName,omitempty"`
	Phone      *xmlUniversalComm    `xml:"ram:TelephoneUniversalCommunication,omitempty"`
	Email      *xmlUniversalCommURI `xml:"ram:EmailURIUniversalCommunication,omitempty"`
}

type xmlUniversalComm struct {
	CompleteNumber string `xml:"ram:CompleteNumber"`
}

type xmlUniversalCommURI struct {
	URIID string `xml:"ram:URIID"`
}

type xmlPostalAddress struct {
	PostcodeCode string `xml:"ram:PostcodeCode"`
	LineOne      string `xml:"ram:LineOne"`
	CityName     string `xml:"ram:CityName"`
	CountryID    string `xml:"ram:CountryID"`
}

type xmlTaxRegistration struct {
	ID xmlSchemedID `xml:"ram:ID"`
}

type xmlSchemedID struct {
	SchemeID string `xml:"schemeID,attr"`
	Value    string `xml:",chardata"`
}

type xmlHeaderTradeDelivery struct {
	DeliveryEvent *xmlSupplyChainEvent `xml:"ram:ActualDeliverySupplyChainEvent,omitempty"`
}

type xmlSupplyChainEvent struct {
	OccurrenceDateTime xmlDateTime `xml:"ram:OccurrenceDateTime"`
}

type xmlHeaderTradeSettlement struct {
	PaymentReference string                      `xml:"ram:PaymentReference,omitempty"`
	CurrencyCode     string                      `xml:"ram:InvoiceCurrencyCode"`
	PaymentMeans     *xmlPaymentMeans            `xml:"ram:SpecifiedTradeSettlementPaymentMeans,omitempty"`
	TradeTaxes       []xmlHeaderTradeTax         `xml:"ram:ApplicableTradeTax"`
	PaymentTerms     *xmlPaymentTerms            `xml:"ram:SpecifiedTradePaymentTerms,omitempty"`
	Summation        xmlHeaderMonetarySummation  `xml:"ram:SpecifiedTradeSettlementHeaderMonetarySummation"`
}

type xmlPaymentMeans struct {
	TypeCode        string              `xml:"ram:TypeCode"`
	PayeeAccount    *xmlPayeeAccount    `xml:"ram:PayeePartyCreditorFinancialAccount,omitempty"`
	PayeeInstitution *xmlPayeeInstitution `xml:"ram:PayeeSpecifiedCreditorFinancialInstitution,omitempty"`
}

type xmlPayeeAccount struct {
	IBANID string `xml:"ram:IBANID"`
}

type xmlPayeeInstitution struct {
	BICID string `xml:"ram:BICID"`
}

type xmlHeaderTradeTax struct {
	CalculatedAmount string `xml:"ram:CalculatedAmount"`
	TypeCode         string `xml:"ram:TypeCode"`
	BasisAmount      string `xml:"ram:BasisAmount"`
	CategoryCode     string `xml:"ram:CategoryCode"`
	RatePercent      string `xml:"ram:RateApplicablePercent"`
}

type xmlPaymentTerms struct {
	Description     string       `xml:"ram:Description,omitempty"`
	DueDateDateTime *xmlDateTime `xml:"ram:DueDateDateTime,omitempty"`
}

type xmlHeaderMonetarySummation struct {
	LineTotalAmount     string            `xml:"ram:LineTotalAmount"`
	TaxBasisTotalAmount string            `xml:"ram:TaxBasisTotalAmount"`
	TaxTotalAmount      xmlCurrencyAmount `xml:"ram:TaxTotalAmount"`
	GrandTotalAmount    string            `xml:"ram:GrandTotalAmount"`
	DuePayableAmount    string            `xml:"ram:DuePayableAmount"`
}

type xmlCurrencyAmount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}
