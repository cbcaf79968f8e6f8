package cache

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	k1 := Fingerprint("find melancholic songs", "gpt-4o-mini", 0.1)
	k2 := Fingerprint("find melancholic songs", "gpt-4o-mini", 0.1)
	if k1 != k2 {
		t.Errorf("same inputs produced different keys: %s vs %s", k1, k2)
	}
	if len(k1) != 16 {
		t.Errorf("key length = %d, want 16", len(k1))
	}
}

func TestFingerprintDistinguishesFields(t *testing.T) {
	base := Fingerprint("query", "gpt-4o-mini", 0.1)

	tests := []struct {
		name  string
		query string
		model string
		temp  float64
	}{
		{"different query", "other query", "gpt-4o-mini", 0.1},
		{"different model", "query", "gpt-4o", 0.1},
		{"different temperature", "query", "gpt-4o-mini", 0.7},
	}

	for _, tt := range tests {
		if got := Fingerprint(tt.query, tt.model, tt.temp); got == base {
			t.Errorf("%s: key collision with base", tt.name)
		}
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	// Concatenation ambiguity must not collapse distinct inputs.
	a := Fingerprint("ab", "c", 0)
	b := Fingerprint("a", "bc", 0)
	if a == b {
		t.Error("query/model boundary not preserved")
	}
}
