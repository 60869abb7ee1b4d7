package services

import "github.com/shopspring/decimal"

// RoomTotals are the priced lines of one room and their running totals, all
// in the target currency.
type RoomTotals struct {
	RoomID           string
	RoomName         string
	Lines            []PricedLine
	SubTotal         float64 // converted, before margin
	TotalAfterMargin float64
	MarginAmount     float64
	SGSTTotal        float64
	CGSTTotal        float64
	TaxTotal         float64 // combined tax; equals SGST+CGST for INR
	GrandTotal       float64
}

// ProjectTotals holds the totals of every room that has a BOQ, in room list
// order.
type ProjectTotals struct {
	Currency   Currency
	Rate       float64
	Rooms      []RoomTotals
	GrandTotal float64
}

// AggregateRoom prices every line of room in its existing order and sums the
// totals. It returns false for a room without a BOQ.
func AggregateRoom(room Room, globalMargin, rate float64, currency Currency) (RoomTotals, bool) {
	if !room.HasBOQ() {
		return RoomTotals{}, false
	}

	totals := RoomTotals{
		RoomID:   room.ID,
		RoomName: room.Name,
		Lines:    make([]PricedLine, 0, len(room.LineItems)),
	}
	for _, item := range room.LineItems {
		line := PriceItem(item, EffectiveMargin(item, globalMargin), rate, currency)
		totals.Lines = append(totals.Lines, line)

		totals.SubTotal += line.ConvertedTotal
		totals.TotalAfterMargin += line.TotalAfterMargin
		totals.SGSTTotal += line.SGST
		totals.CGSTTotal += line.CGST
		totals.TaxTotal += line.Tax
	}

	totals.MarginAmount = totals.TotalAfterMargin - totals.SubTotal
	if SplitTax(currency) {
		totals.GrandTotal = totals.TotalAfterMargin + totals.SGSTTotal + totals.CGSTTotal
	} else {
		totals.GrandTotal = totals.TotalAfterMargin + totals.TaxTotal
	}
	return totals, true
}

// AggregateProject aggregates every room with a BOQ and sums their grand
// totals in room list order. Rooms without a BOQ are left out entirely.
func AggregateProject(rooms []Room, globalMargin, rate float64, currency Currency) ProjectTotals {
	project := ProjectTotals{
		Currency: currency,
		Rate:     rate,
	}
	for _, room := range rooms {
		totals, ok := AggregateRoom(room, globalMargin, rate, currency)
		if !ok {
			continue
		}
		project.Rooms = append(project.Rooms, totals)
		project.GrandTotal += totals.GrandTotal
	}
	return project
}

// Rounded returns a copy of p for display. Every amount is rounded to 2
// decimal places and every total is the sum of the rounded amounts it covers,
// so printed columns add up to their printed totals.
func (p ProjectTotals) Rounded() ProjectTotals {
	out := ProjectTotals{
		Currency: p.Currency,
		Rate:     p.Rate,
		Rooms:    make([]RoomTotals, 0, len(p.Rooms)),
	}
	grand := decimal.Zero
	for _, room := range p.Rooms {
		r := room.Rounded()
		out.Rooms = append(out.Rooms, r)
		grand = grand.Add(decimal.NewFromFloat(r.GrandTotal))
	}
	out.GrandTotal = grand.InexactFloat64()
	return out
}

// Rounded returns a copy of r with its line amounts rounded to 2 decimal
// places and its totals recomputed from the rounded lines.
func (r RoomTotals) Rounded() RoomTotals {
	out := RoomTotals{
		RoomID:   r.RoomID,
		RoomName: r.RoomName,
		Lines:    make([]PricedLine, len(r.Lines)),
	}
	var sub, afterMargin, sgst, cgst, tax, grand decimal.Decimal
	add := func(sum *decimal.Decimal, v float64) {
		*sum = sum.Add(decimal.NewFromFloat(v))
	}
	for i, line := range r.Lines {
		line.ConvertedUnit = RoundMoney(line.ConvertedUnit)
		line.ConvertedTotal = RoundMoney(line.ConvertedTotal)
		line.UnitAfterMargin = RoundMoney(line.UnitAfterMargin)
		line.TotalAfterMargin = RoundMoney(line.TotalAfterMargin)
		line.SGST = RoundMoney(line.SGST)
		line.CGST = RoundMoney(line.CGST)
		line.Tax = RoundMoney(line.Tax)
		line.FinalUnit = RoundMoney(line.FinalUnit)
		line.FinalTotal = RoundMoney(line.FinalTotal)
		out.Lines[i] = line

		add(&sub, line.ConvertedTotal)
		add(&afterMargin, line.TotalAfterMargin)
		add(&sgst, line.SGST)
		add(&cgst, line.CGST)
		add(&tax, line.Tax)
		add(&grand, line.FinalTotal)
	}

	out.SubTotal = sub.InexactFloat64()
	out.TotalAfterMargin = afterMargin.InexactFloat64()
	out.MarginAmount = afterMargin.Sub(sub).InexactFloat64()
	out.SGSTTotal = sgst.InexactFloat64()
	out.CGSTTotal = cgst.InexactFloat64()
	out.TaxTotal = tax.InexactFloat64()
	out.GrandTotal = grand.InexactFloat64()
	return out
}
