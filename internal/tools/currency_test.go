package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCurrencyQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		from   string
		to     string
		amount string
	}{
		{"explicit pair", "USD to EUR", "USD", "EUR", "1"},
		{"reversed pair", "EUR to USD", "EUR", "USD", "1"},
		{"spelled out", "euro dollar rate", "EUR", "USD", "1"},
		{"amount and names", "100 dollars in euros", "USD", "EUR", "100"},
		{"decimal amount", "convert 49.99 GBP to JPY", "GBP", "JPY", "49.99"},
		{"lone usd defaults to eur", "what is the dollar worth", "USD", "EUR", "1"},
		{"lone currency quoted in usd", "current yen rate", "USD", "JPY", "1"},
		{"plural form strips cleanly", "pounds to francs", "GBP", "CHF", "1"},
		{"no currency", "tell me a joke", "", "", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, amount := parseCurrencyQuery(tt.query)
			if from != tt.from || to != tt.to {
				t.Errorf("parseCurrencyQuery(%q) = %s->%s, want %s->%s",
					tt.query, from, to, tt.from, tt.to)
			}
			if want, _ := decimal.NewFromString(tt.amount); !amount.Equal(want) {
				t.Errorf("amount = %s, want %s", amount, want)
			}
		})
	}
}

func TestCurrencyToolFetchesLiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/USD") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9,"GBP":0.8}}`))
	}))
	defer srv.Close()

	tool := NewCurrencyTool(WithRatesURL(srv.URL + "/v4/latest/"))

	out, err := tool.Run(context.Background(), "100 USD to EUR")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 USD = 0.9 EUR") {
		t.Errorf("expected live rate in output:\n%s", out)
	}
	if !strings.Contains(out, "100 USD = 90 EUR") {
		t.Errorf("expected conversion for the asked amount:\n%s", out)
	}
	if strings.Contains(out, "reference data") {
		t.Errorf("live rate must not be marked as fallback:\n%s", out)
	}
}

func TestCurrencyToolFallsBackWhenAPIDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	tool := NewCurrencyTool(WithRatesURL(srv.URL + "/v4/latest/"))

	out, err := tool.Run(context.Background(), "USD to EUR")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0.92") {
		t.Errorf("expected fallback reference rate:\n%s", out)
	}
	if !strings.Contains(out, "reference data") {
		t.Errorf("expected fallback note:\n%s", out)
	}
}

func TestCurrencyToolUnparseableQuery(t *testing.T) {
	tool := NewCurrencyTool()

	out, err := tool.Run(context.Background(), "how tall is the eiffel tower")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Could not understand currency query") {
		t.Errorf("expected parse error message:\n%s", out)
	}
}

func TestLookupFallbackRateInverse(t *testing.T) {
	rate, ok := lookupFallbackRate("EUR", "JPY")
	if ok {
		t.Fatalf("no reference data exists for EUR/JPY, got %s", rate)
	}

	rate, ok = lookupFallbackRate("JPY", "USD")
	if !ok {
		t.Fatal("expected inverse of USD/JPY")
	}
	want := decimal.NewFromInt(1).DivRound(decimal.RequireFromString("149.50"), 6)
	if !rate.Equal(want) {
		t.Errorf("inverse rate = %s, want %s", rate, want)
	}
}
