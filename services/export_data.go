package services

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ProposalData holds everything the workbook and PDF builders need.
type ProposalData struct {
	ClientDetails ClientDetails
	Branding      BrandingSettings
	Currency      Currency
	Rate          float64
	GlobalMargin  float64
	Totals        ProjectTotals
	Terms         []TermsSection
	GeneratedOn   time.Time
}

// BuildProposal validates p, picks the rate for its currency from rates and
// prices every room. It fails with ErrNonFiniteAmount rather than let a NaN or
// infinity reach a document.
func BuildProposal(p Project, rates Rates, now time.Time) (ProposalData, error) {
	if err := ValidateProject(p); err != nil {
		return ProposalData{}, err
	}

	rate, err := rates.Rate(p.Currency)
	if err != nil {
		return ProposalData{}, err
	}

	totals := AggregateProject(p.Rooms, p.GlobalMargin, rate, p.Currency)
	if err := checkFinite(totals); err != nil {
		return ProposalData{}, err
	}

	return ProposalData{
		ClientDetails: p.ClientDetails,
		Branding:      p.Branding,
		Currency:      p.Currency,
		Rate:          rate,
		GlobalMargin:  p.GlobalMargin,
		Totals:        totals,
		Terms:         termsFor(p),
		GeneratedOn:   now,
	}, nil
}

func checkFinite(t ProjectTotals) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
	if bad(t.GrandTotal) {
		return fmt.Errorf("%w: project grand total", ErrNonFiniteAmount)
	}
	for _, r := range t.Rooms {
		for i, l := range r.Lines {
			for _, v := range []float64{l.ConvertedUnit, l.ConvertedTotal, l.TotalAfterMargin, l.Tax, l.FinalUnit, l.FinalTotal} {
				if bad(v) {
					return fmt.Errorf("%w: room %q line %d", ErrNonFiniteAmount, r.RoomName, i+1)
				}
			}
		}
	}
	return nil
}

// ProposalFilename returns "{projectName|BOQ}_{YYYY-MM-DD}.xlsx".
func ProposalFilename(projectName string, now time.Time) string {
	return proposalBaseName(projectName, now) + ".xlsx"
}

func proposalBaseName(projectName string, now time.Time) string {
	name := sanitizeFilename(strings.TrimSpace(projectName))
	if name == "" {
		name = "BOQ"
	}
	return name + "_" + now.Format("2006-01-02")
}

// sanitizeFilename replaces path separators and characters that are not valid
// in file names on common platforms.
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}
