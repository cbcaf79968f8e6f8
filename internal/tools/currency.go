package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/shopspring/decimal"
)

// CurrencyToolName is the function-calling name of the exchange-rate tool.
const CurrencyToolName = "currency_price_checker"

// DefaultRatesURL is the free exchange-rate endpoint; the source
// currency code is appended.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/"

var supportedCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "MXN", "BRL", "CNY"}

// currencyNames maps common spellings to ISO codes. Plural forms come
// first so "dollars" doesn't leave a stray "s" behind.
var currencyNames = []struct{ name, code string }{
	{"DOLLARS", "USD"}, {"DOLLAR", "USD"},
	{"EUROS", "EUR"}, {"EURO", "EUR"},
	{"POUNDS", "GBP"}, {"POUND", "GBP"}, {"STERLING", "GBP"},
	{"YEN", "JPY"}, {"FRANC", "CHF"},
	{"CANADIAN", "CAD"}, {"AUSTRALIAN", "AUD"}, {"AUSSIE", "AUD"},
	{"PESO", "MXN"}, {"REAL", "BRL"},
	{"YUAN", "CNY"}, {"RENMINBI", "CNY"},
}

// fallbackRates cover USD pairs when the rate API is unreachable.
var fallbackRates = map[string]string{
	"USD/EUR": "0.92", "USD/GBP": "0.79", "USD/JPY": "149.50",
	"USD/CHF": "0.88", "USD/CAD": "1.35", "USD/AUD": "1.52",
	"USD/MXN": "17.20", "USD/BRL": "4.98", "USD/CNY": "7.24",
	"EUR/USD": "1.09", "GBP/USD": "1.27",
}

var amountRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// CurrencyTool fetches exchange rates for the agent. Responses are
// cached at the HTTP layer through an in-memory caching transport, so
// repeated rate lookups within a session don't hammer the free API.
type CurrencyTool struct {
	http    *http.Client
	baseURL string
}

type CurrencyOption func(*CurrencyTool)

func WithRatesURL(url string) CurrencyOption {
	return func(t *CurrencyTool) { t.baseURL = url }
}

func WithRatesHTTPClient(h *http.Client) CurrencyOption {
	return func(t *CurrencyTool) { t.http = h }
}

// NewCurrencyTool creates the exchange-rate tool. By default it wraps
// its client in httpcache's memory transport.
func NewCurrencyTool(opts ...CurrencyOption) *CurrencyTool {
	transport := httpcache.NewMemoryCacheTransport()
	t := &CurrencyTool{
		http:    &http.Client{Transport: transport, Timeout: 5 * time.Second},
		baseURL: DefaultRatesURL,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *CurrencyTool) Name() string { return CurrencyToolName }

func (t *CurrencyTool) Description() string {
	return `Real-time currency exchange rates. Use this tool to get current prices for currency pairs.
Supports: USD, EUR, GBP, JPY, CHF, CAD, AUD, MXN, BRL, CNY

Input should specify the currencies, like:
- "USD to EUR"
- "euro dollar rate"
- "100 USD in GBP"

Output includes exchange rate, timestamp, and conversion example.`
}

// Run parses the currency pair out of the query and reports the rate,
// falling back to static reference rates when the API is unavailable.
func (t *CurrencyTool) Run(ctx context.Context, query string) (string, error) {
	from, to, amount := parseCurrencyQuery(query)
	if from == "" || to == "" {
		return currencyError("Could not understand currency query. " +
			"Please specify currencies like 'USD to EUR' or 'dollar to euro'."), nil
	}

	rate, err := t.fetchRate(ctx, from, to)
	if err != nil {
		return t.fallback(from, to, amount), nil
	}
	return formatRate(from, to, rate, amount), nil
}

// parseCurrencyQuery extracts (from, to, amount) from free text. A lone
// non-USD currency is quoted against USD; a lone USD defaults to EUR.
func parseCurrencyQuery(query string) (from, to string, amount decimal.Decimal) {
	amount = decimal.NewFromInt(1)
	if m := amountRe.FindString(query); m != "" {
		if d, err := decimal.NewFromString(m); err == nil {
			amount = d
		}
	}

	q := strings.ToUpper(query)
	for _, cn := range currencyNames {
		q = strings.ReplaceAll(q, cn.name, cn.code)
	}

	// Collect codes in order of appearance so "EUR to USD" and
	// "USD to EUR" parse as different pairs.
	type hit struct {
		idx  int
		code string
	}
	var hits []hit
	for _, curr := range supportedCurrencies {
		rest := 0
		for {
			idx := strings.Index(q[rest:], curr)
			if idx < 0 {
				break
			}
			hits = append(hits, hit{idx: rest + idx, code: curr})
			rest += idx + len(curr)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })

	var found []string
	for _, h := range hits {
		found = append(found, h.code)
	}

	switch {
	case len(found) >= 2:
		return found[0], found[1], amount
	case len(found) == 1 && found[0] == "USD":
		return "USD", "EUR", amount
	case len(found) == 1:
		return "USD", found[0], amount
	}
	return "", "", amount
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (t *CurrencyTool) fetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+from, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create rates request: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("read rates: %w", err)
	}

	var rates ratesResponse
	if err := json.Unmarshal(body, &rates); err != nil {
		return decimal.Zero, fmt.Errorf("decode rates: %w", err)
	}

	rate, ok := rates.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s in %s response", to, from)
	}
	return decimal.NewFromFloat(rate), nil
}

func (t *CurrencyTool) fallback(from, to string, amount decimal.Decimal) string {
	rate, ok := lookupFallbackRate(from, to)
	if !ok {
		return currencyError(fmt.Sprintf(
			"Unable to fetch exchange rate for %s to %s. "+
				"API unavailable and no reference data for this pair.", from, to))
	}
	return formatRate(from, to, rate, amount) +
		"\n\nNote: using cached reference data (rate API temporarily unavailable)"
}

func lookupFallbackRate(from, to string) (decimal.Decimal, bool) {
	if s, ok := fallbackRates[from+"/"+to]; ok {
		d, _ := decimal.NewFromString(s)
		return d, true
	}
	if s, ok := fallbackRates[to+"/"+from]; ok {
		d, _ := decimal.NewFromString(s)
		if d.IsZero() {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(1).DivRound(d, 6), true
	}
	return decimal.Zero, false
}

func formatRate(from, to string, rate, amount decimal.Decimal) string {
	converted := amount.Mul(rate).Round(2)
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 UTC")

	var b strings.Builder
	fmt.Fprintf(&b, "Current exchange rate: 1 %s = %s %s\n", from, rate.Round(4), to)
	fmt.Fprintf(&b, "(as of %s)\n\n", timestamp)
	b.WriteString("This means:\n")
	fmt.Fprintf(&b, "  %s %s = %s %s\n", amount.Round(2), from, converted, to)
	if amount.Equal(decimal.NewFromInt(1)) {
		hundred := rate.Mul(decimal.NewFromInt(100)).Round(2)
		fmt.Fprintf(&b, "  100 %s = %s %s\n", from, hundred, to)
	}
	return b.String()
}

func currencyError(message string) string {
	return fmt.Sprintf(`Error: %s

Supported currencies: %s
Example queries:
  - 'USD to EUR'
  - '100 dollars in euros'
  - 'current pound sterling rate'`, message, strings.Join(supportedCurrencies, ", "))
}
