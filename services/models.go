package services

// Currency is an ISO code of a currency the proposal can be priced in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyAED Currency = "AED"
)

// CurrencyOption describes a selectable currency.
type CurrencyOption struct {
	Code   Currency
	Symbol string
	Name   string
}

// Currencies lists the supported currencies in selector order.
var Currencies = []CurrencyOption{
	{CurrencyUSD, "$", "US Dollars"},
	{CurrencyEUR, "€", "Euros"},
	{CurrencyGBP, "£", "Pounds"},
	{CurrencyINR, "₹", "Rupees"},
	{CurrencyAED, "AED ", "Dirhams"},
}

// LookupCurrency returns the option for code.
func LookupCurrency(code Currency) (CurrencyOption, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencyOption{}, false
}

// LineItem is one entry of a room's BOQ. Prices are in USD. A negative
// MarginOverride is ignored in favor of the project margin.
type LineItem struct {
	Category       string   `json:"category"`
	Description    string   `json:"itemDescription"`
	Brand          string   `json:"brand"`
	Model          string   `json:"model"`
	Quantity       int      `json:"quantity" validate:"gte=0"`
	UnitPrice      float64  `json:"unitPrice" validate:"gte=0"`
	TotalPrice     float64  `json:"totalPrice" validate:"gte=0"`
	MarginOverride *float64 `json:"margin,omitempty"`
}

// BaseTotal returns quantity * unitPrice in USD.
func (li LineItem) BaseTotal() float64 {
	return float64(li.Quantity) * li.UnitPrice
}

// ValidationResult is the outcome of the external design audit for a room.
// It is transient: any edit to the room clears it.
type ValidationResult struct {
	IsValid           bool     `json:"isValid"`
	Warnings          []string `json:"warnings"`
	Suggestions       []string `json:"suggestions"`
	MissingComponents []string `json:"missingComponents"`
}

// Room is an independently priced area of the project. A nil LineItems slice
// means the BOQ has not been generated yet.
type Room struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Answers    map[string]any    `json:"answers,omitempty"`
	LineItems  []LineItem        `json:"boq" validate:"omitempty,dive"`
	Validation *ValidationResult `json:"validationResult,omitempty"`
}

// HasBOQ reports whether the room has a generated BOQ, even an empty one.
func (r Room) HasBOQ() bool {
	return r.LineItems != nil
}

// ClientDetails are labels interpolated into the cover sheet and filename.
type ClientDetails struct {
	ClientName         string `json:"clientName"`
	ProjectName        string `json:"projectName"`
	PreparedBy         string `json:"preparedBy"`
	Date               string `json:"date"`
	DesignEngineer     string `json:"designEngineer"`
	AccountManager     string `json:"accountManager"`
	KeyClientPersonnel string `json:"keyClientPersonnel"`
	Location           string `json:"location"`
	KeyComments        string `json:"keyComments"`
}

// CompanyInfo is the integrator's contact block.
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// BrandingSettings only affects presentation.
type BrandingSettings struct {
	LogoURL      string      `json:"logoUrl"`
	PrimaryColor string      `json:"primaryColor"`
	CompanyInfo  CompanyInfo `json:"companyInfo"`
}

// DefaultPrimaryColor is the header fill used when branding has no valid color.
const DefaultPrimaryColor = "#92D050"

// DefaultBranding returns the placeholder branding of a new project.
func DefaultBranding() BrandingSettings {
	return BrandingSettings{
		PrimaryColor: DefaultPrimaryColor,
		CompanyInfo: CompanyInfo{
			Name:    "Your Company Name",
			Address: "123 Main Street, Suite 100, Anytown, USA 12345",
			Phone:   "555-123-4567",
			Email:   "contact@yourcompany.com",
			Website: "www.yourcompany.com",
		},
	}
}

// TermsSection is one titled table of the commercial terms sheet. The first
// row is the table header.
type TermsSection struct {
	Title string     `json:"title"`
	Rows  [][]string `json:"rows"`
}

// Project is the caller-owned snapshot everything in this package works on.
type Project struct {
	ClientDetails   ClientDetails    `json:"clientDetails"`
	Rooms           []Room           `json:"rooms" validate:"omitempty,dive"`
	GlobalMargin    float64          `json:"margin" validate:"gte=0"`
	Branding        BrandingSettings `json:"brandingSettings"`
	Currency        Currency         `json:"currency" validate:"required,oneof=USD EUR GBP INR AED"`
	CommercialTerms []TermsSection   `json:"commercialTerms,omitempty"`
}
