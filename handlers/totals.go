package handlers

import "boqproposal/services"

// totalsResponse is the on-screen view of a priced project. Amounts are
// rounded to cents for display.
type totalsResponse struct {
	Currency   string           `json:"currency"`
	Rate       float64          `json:"exchangeRate"`
	SplitTax   bool             `json:"splitTax"`
	Rooms      []roomTotalsJSON `json:"rooms"`
	GrandTotal float64          `json:"grandTotal"`
	Formatted  string           `json:"grandTotalFormatted"`
}

type roomTotalsJSON struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Lines            []lineTotalJSON `json:"lines"`
	SubTotal         float64         `json:"subTotal"`
	TotalAfterMargin float64         `json:"totalAfterMargin"`
	MarginAmount     float64         `json:"marginAmount"`
	SGST             float64         `json:"sgst,omitempty"`
	CGST             float64         `json:"cgst,omitempty"`
	Tax              float64         `json:"tax"`
	GrandTotal       float64         `json:"grandTotal"`
}

type lineTotalJSON struct {
	Description      string  `json:"itemDescription"`
	Quantity         int     `json:"quantity"`
	MarginPercent    float64 `json:"marginPercent"`
	UnitPrice        float64 `json:"unitPrice"`
	FinalUnit        float64 `json:"finalUnitPrice"`
	TotalAfterMargin float64 `json:"totalAfterMargin"`
	Tax              float64 `json:"tax"`
	FinalTotal       float64 `json:"finalTotal"`
}

func newTotalsResponse(data services.ProposalData) totalsResponse {
	totals := data.Totals.Rounded()
	resp := totalsResponse{
		Currency:   string(data.Currency),
		Rate:       data.Rate,
		SplitTax:   services.SplitTax(data.Currency),
		Rooms:      make([]roomTotalsJSON, 0, len(totals.Rooms)),
		GrandTotal: totals.GrandTotal,
		Formatted:  services.FormatMoney(data.Currency, totals.GrandTotal),
	}
	for _, room := range totals.Rooms {
		rt := roomTotalsJSON{
			ID:               room.RoomID,
			Name:             room.RoomName,
			Lines:            make([]lineTotalJSON, 0, len(room.Lines)),
			SubTotal:         room.SubTotal,
			TotalAfterMargin: room.TotalAfterMargin,
			MarginAmount:     room.MarginAmount,
			SGST:             room.SGSTTotal,
			CGST:             room.CGSTTotal,
			Tax:              room.TaxTotal,
			GrandTotal:       room.GrandTotal,
		}
		for _, l := range room.Lines {
			rt.Lines = append(rt.Lines, lineTotalJSON{
				Description:      l.Item.Description,
				Quantity:         l.Item.Quantity,
				MarginPercent:    l.MarginPercent,
				UnitPrice:        l.ConvertedUnit,
				FinalUnit:        l.FinalUnit,
				TotalAfterMargin: l.TotalAfterMargin,
				Tax:              l.Tax,
				FinalTotal:       l.FinalTotal,
			})
		}
		resp.Rooms = append(resp.Rooms, rt)
	}
	return resp
}
