package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// generatedItem mirrors one element of the generator's JSON response. Numbers
// arrive as JSON numbers that may carry fractions.
type generatedItem struct {
	Category    string  `json:"category"`
	Description string  `json:"itemDescription"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// NormalizeGeneratedBOQ parses the generator's JSON array into line items,
// keeping their order. Quantities are rounded to whole units, negative or
// non-finite numbers become 0, and totalPrice is recomputed from quantity and
// unit price. A surrounding markdown code fence is tolerated.
func NormalizeGeneratedBOQ(raw []byte) ([]LineItem, error) {
	raw = stripCodeFence(raw)

	var generated []generatedItem
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, fmt.Errorf("parse generated BOQ: %w", err)
	}

	items := make([]LineItem, 0, len(generated))
	for _, g := range generated {
		item := LineItem{
			Category:    g.Category,
			Description: g.Description,
			Brand:       g.Brand,
			Model:       g.Model,
			Quantity:    int(math.Round(nonNegative(g.Quantity))),
			UnitPrice:   nonNegative(g.UnitPrice),
		}
		item.TotalPrice = item.BaseTotal()
		items = append(items, item)
	}
	return items, nil
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func stripCodeFence(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if !bytes.HasPrefix(raw, []byte("```")) {
		return raw
	}
	if nl := bytes.IndexByte(raw, '\n'); nl >= 0 {
		raw = raw[nl+1:]
	} else {
		raw = raw[3:]
	}
	raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte("```"))
	return bytes.TrimSpace(raw)
}
