package services

import "testing"

func TestNormalizeGeneratedBOQ(t *testing.T) {
	raw := []byte("```json\n" + `[
		{"category":"Display","itemDescription":"65\" panel","brand":"LG","model":"65UH5N","quantity":1.6,"unitPrice":1450,"totalPrice":1},
		{"category":"Audio","itemDescription":"Mic","brand":"Shure","model":"MXA310","quantity":-3,"unitPrice":-10,"totalPrice":0},
		{"category":"Cabling","itemDescription":"HDMI","brand":"Kramer","model":"C-HM","quantity":4,"unitPrice":12.5}
	]` + "\n```")

	items, err := NormalizeGeneratedBOQ(raw)
	if err != nil {
		t.Fatalf("NormalizeGeneratedBOQ() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	tests := []struct {
		desc  string
		qty   int
		price float64
		total float64
	}{
		{"65\" panel", 2, 1450, 2900},
		{"Mic", 0, 0, 0},
		{"HDMI", 4, 12.5, 50},
	}
	for i, tt := range tests {
		got := items[i]
		if got.Description != tt.desc || got.Quantity != tt.qty || got.UnitPrice != tt.price || got.TotalPrice != tt.total {
			t.Errorf("item %d = %+v, want %s qty=%d price=%v total=%v", i, got, tt.desc, tt.qty, tt.price, tt.total)
		}
		if got.MarginOverride != nil {
			t.Errorf("item %d should have no margin override", i)
		}
	}
}

func TestNormalizeGeneratedBOQ_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Here is your BOQ"},
		{"object not array", `{"items":[]}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeGeneratedBOQ([]byte(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNormalizeGeneratedBOQ_EmptyArray(t *testing.T) {
	items, err := NormalizeGeneratedBOQ([]byte("[]"))
	if err != nil {
		t.Fatalf("NormalizeGeneratedBOQ() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %#v, want empty non-nil slice", items)
	}
}
