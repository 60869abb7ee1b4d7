package services

import (
	"errors"
	"testing"
)

func TestValidateProject_Valid(t *testing.T) {
	if err := ValidateProject(testProject(CurrencyGBP)); err != nil {
		t.Errorf("ValidateProject() error = %v", err)
	}
}

func TestValidationMessages(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Currency = "XYZ"
	p.GlobalMargin = -5
	p.Rooms[0].LineItems[1].Quantity = -1
	p.Rooms[2].LineItems[0].MarginOverride = ptr(-1) // ignored when priced, not rejected

	err := ValidateProject(p)
	if !errors.Is(err, ErrInvalidProject) {
		t.Fatalf("error = %v, want ErrInvalidProject", err)
	}

	msgs := ValidationMessages(err)
	want := map[string]string{
		"currency":                 "Must be one of: USD EUR GBP INR AED",
		"margin":                   "Must be greater than or equal to 0",
		"rooms[0].boq[1].quantity": "Must be greater than or equal to 0",
	}
	for field, msg := range want {
		if msgs[field] != msg {
			t.Errorf("msgs[%q] = %q, want %q", field, msgs[field], msg)
		}
	}
	if len(msgs) != len(want) {
		t.Errorf("got %d messages, want %d: %v", len(msgs), len(want), msgs)
	}
}

func TestValidationMessages_RequiredCurrency(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Currency = ""

	msgs := ValidationMessages(ValidateProject(p))
	if msgs["currency"] != "This field is required" {
		t.Errorf("msgs = %v", msgs)
	}
}

func TestValidationMessages_NonValidationError(t *testing.T) {
	if msgs := ValidationMessages(errors.New("boom")); len(msgs) != 0 {
		t.Errorf("expected no messages, got %v", msgs)
	}
}
