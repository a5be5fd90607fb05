// Package tax computes the monetary summation of an invoice.
//
// Rounding happens at every aggregation boundary (per line, per tax group,
// per total) using decimal.Round, which rounds half away from zero. This
// matches the EN 16931 expectation of reproducible 2-decimal cent amounts;
// rounding only once at the end diverges from conformant references.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
)

var hundred = decimal.NewFromInt(100)

// groupKey identifies one (category, rate) tax breakdown entry
type groupKey struct {
	category model.TaxCategory
	rate     string
}

// Calculate aggregates line items into invoice totals.
//
// Group order follows first appearance of each (category, rate) pair.
// A zero-rate line still produces its own group so the zero-rate basis
// is reported in the settlement breakdown.
func Calculate(lines []model.InvoiceLine) model.InvoiceTotals {
	lineTotal := decimal.Zero
	order := make([]groupKey, 0, len(lines))
	bases := make(map[groupKey]decimal.Decimal)
	rates := make(map[groupKey]decimal.Decimal)

	for _, line := range lines {
		amount := line.Total.Round(2)
		lineTotal = lineTotal.Add(amount)

		key := groupKey{category: line.TaxCategory, rate: line.TaxRate.StringFixed(4)}
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			rates[key] = line.TaxRate
		}
		bases[key] = bases[key].Add(amount)
	}

	lineTotal = lineTotal.Round(2)

	groups := make([]model.TaxSummary, 0, len(order))
	taxTotal := decimal.Zero
	for _, key := range order {
		basis := bases[key].Round(2)
		taxAmount := basis.Mul(rates[key]).Div(hundred).Round(2)
		taxTotal = taxTotal.Add(taxAmount)
		groups = append(groups, model.TaxSummary{
			Category:  key.category,
			Rate:      rates[key],
			Basis:     basis,
			TaxAmount: taxAmount,
		})
	}
	taxTotal = taxTotal.Round(2)

	grandTotal := lineTotal.Add(taxTotal).Round(2)

	return model.InvoiceTotals{
		LineTotal:  lineTotal,
		TaxBasis:   lineTotal,
		TaxTotal:   taxTotal,
		GrandTotal: grandTotal,
		DuePayable: grandTotal,
		TaxGroups:  groups,
	}
}
