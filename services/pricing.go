// Package services provides pricing, aggregation and export functions for
// room BOQs.
package services

// GST is charged at a combined 18%. In INR it is split evenly into the state
// (SGST) and central (CGST) components.
const (
	GSTRate  = 0.18
	SGSTRate = GSTRate / 2
	CGSTRate = GSTRate / 2
)

// PricedLine is a line item converted into the target currency with margin
// and tax applied.
type PricedLine struct {
	Item             LineItem
	MarginPercent    float64
	ConvertedUnit    float64 // unit price in target currency, before margin
	ConvertedTotal   float64 // line total in target currency, before margin
	UnitAfterMargin  float64
	TotalAfterMargin float64
	SGST             float64 // INR only
	CGST             float64 // INR only
	Tax              float64 // combined tax; equals SGST+CGST for INR
	FinalUnit        float64
	FinalTotal       float64
}

// SplitTax reports whether tax for currency is presented as SGST + CGST.
func SplitTax(currency Currency) bool {
	return currency == CurrencyINR
}

// EffectiveMargin returns the margin percent that applies to item: its own
// override when set and non-negative, otherwise the project-wide margin.
func EffectiveMargin(item LineItem, globalMargin float64) float64 {
	if item.MarginOverride != nil && *item.MarginOverride >= 0 {
		return *item.MarginOverride
	}
	return globalMargin
}

// ClampMargin returns margin, or 0 if it is negative.
func ClampMargin(margin float64) float64 {
	if margin < 0 {
		return 0
	}
	return margin
}

// PriceItem converts item from USD at rate and applies marginPercent and tax.
// marginPercent must already be clamped to >= 0.
func PriceItem(item LineItem, marginPercent, rate float64, currency Currency) PricedLine {
	convertedUnit := item.UnitPrice * rate
	convertedTotal := item.BaseTotal() * rate

	multiplier := 1 + marginPercent/100
	totalAfterMargin := convertedTotal * multiplier
	unitAfterMargin := convertedUnit * multiplier

	line := PricedLine{
		Item:             item,
		MarginPercent:    marginPercent,
		ConvertedUnit:    convertedUnit,
		ConvertedTotal:   convertedTotal,
		UnitAfterMargin:  unitAfterMargin,
		TotalAfterMargin: totalAfterMargin,
		FinalUnit:        unitAfterMargin * (1 + GSTRate),
	}

	if SplitTax(currency) {
		line.SGST = totalAfterMargin * SGSTRate
		line.CGST = totalAfterMargin * CGSTRate
		line.Tax = line.SGST + line.CGST
		line.FinalTotal = totalAfterMargin + line.SGST + line.CGST
	} else {
		line.Tax = totalAfterMargin * GSTRate
		line.FinalTotal = totalAfterMargin + line.Tax
	}
	return line
}
