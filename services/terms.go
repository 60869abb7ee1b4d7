package services

// DefaultCommercialTerms is used when a project carries no terms of its own.
var DefaultCommercialTerms = []TermsSection{
	{
		Title: "Payment Terms",
		Rows: [][]string{
			{"Sr. No", "Description"},
			{"1", "50% advance along with the purchase order."},
			{"2", "40% on delivery of materials at site, pro-rata."},
			{"3", "10% on installation, testing and commissioning."},
		},
	},
	{
		Title: "Delivery & Installation",
		Rows: [][]string{
			{"Sr. No", "Description"},
			{"1", "Delivery within 6-8 weeks from the date of confirmed order and advance."},
			{"2", "Installation will commence once the site is ready and civil work is complete."},
			{"3", "Power points, conduits and false ceiling work are in the client's scope."},
		},
	},
	{
		Title: "Warranty",
		Rows: [][]string{
			{"Sr. No", "Description"},
			{"1", "One year comprehensive warranty from the date of installation."},
			{"2", "Warranty does not cover physical damage, power surges or misuse."},
		},
	},
	{
		Title: "Validity",
		Rows: [][]string{
			{"Sr. No", "Description"},
			{"1", "Prices are valid for 30 days from the date of this proposal."},
			{"2", "Prices are subject to change with exchange rate variation beyond 2%."},
		},
	},
}

// termsFor returns the project's commercial terms, or the defaults.
func termsFor(p Project) []TermsSection {
	if len(p.CommercialTerms) > 0 {
		return p.CommercialTerms
	}
	return DefaultCommercialTerms
}
