package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// DefaultRatesURL returns USD-based rates as {"rates": {"INR": 83.1, ...}}.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"

// Rates maps a currency to how many units of it one USD buys.
type Rates map[Currency]float64

// fallbackRates are used whenever live rates cannot be fetched.
var fallbackRates = Rates{
	CurrencyUSD: 1.0,
	CurrencyEUR: 0.92,
	CurrencyGBP: 0.79,
	CurrencyINR: 83.5,
	CurrencyAED: 3.6725,
}

// FallbackRates returns a copy of the static rate table.
func FallbackRates() Rates {
	out := make(Rates, len(fallbackRates))
	for k, v := range fallbackRates {
		out[k] = v
	}
	return out
}

// Rate returns the rate for currency, using the fallback table when r has no
// usable entry.
func (r Rates) Rate(currency Currency) (float64, error) {
	if v, ok := r[currency]; ok && validRate(v) {
		return v, nil
	}
	if v, ok := fallbackRates[currency]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
}

func validRate(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RateProvider supplies exchange rates relative to USD. Implementations never
// fail; they degrade to FallbackRates.
type RateProvider interface {
	Rates(ctx context.Context) Rates
}

// StaticRateProvider always returns the same table.
type StaticRateProvider struct {
	Table Rates
}

// Rates returns a copy of the static table, or the fallback table if empty.
func (p StaticRateProvider) Rates(context.Context) Rates {
	if len(p.Table) == 0 {
		return FallbackRates()
	}
	out := make(Rates, len(p.Table))
	for k, v := range p.Table {
		out[k] = v
	}
	return out
}

// HTTPRateProvider fetches live rates on every call.
type HTTPRateProvider struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPRateProvider creates a provider for url. A zero timeout leaves the
// client default in place.
func NewHTTPRateProvider(url string, timeout time.Duration, logger *slog.Logger) *HTTPRateProvider {
	if url == "" {
		url = DefaultRatesURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPRateProvider{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Rates fetches current rates. Any failure is logged and the fallback table
// is returned instead.
func (p *HTTPRateProvider) Rates(ctx context.Context) Rates {
	rates, err := p.fetch(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "exchange rate fetch failed, using fallback rates",
			"url", p.url,
			"error", err,
		)
		return FallbackRates()
	}
	return rates
}

func (p *HTTPRateProvider) fetch(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rates status %d", resp.StatusCode)
	}

	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("rates response has no rates")
	}

	rates := make(Rates, len(result.Rates)+1)
	for code, v := range result.Rates {
		if validRate(v) {
			rates[Currency(code)] = v
		}
	}
	// The base currency is sometimes omitted from the table.
	rates[CurrencyUSD] = 1.0
	return rates, nil
}
