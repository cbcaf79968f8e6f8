package comparison

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTestCases(t *testing.T) {
	cases := DefaultTestCases()
	if len(cases) != 8 {
		t.Fatalf("got %d default cases, want 8", len(cases))
	}
	if cases[0].Query != "Find melancholic Pink Floyd songs" {
		t.Errorf("first case = %q", cases[0].Query)
	}
	if cases[5].Category != "multi_tool" || len(cases[5].ExpectedTools) != 2 {
		t.Errorf("multi-tool case = %+v", cases[5])
	}
	for _, tc := range cases {
		if tc.ID == 0 || tc.Query == "" || tc.Category == "" {
			t.Errorf("incomplete case: %+v", tc)
		}
	}
}

func TestLoadTestCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	content := `
- id: 1
  query: custom query
  category: custom
  expected_tool: pink_floyd_database
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cases, err := LoadTestCases(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 1 || cases[0].Query != "custom query" {
		t.Errorf("cases = %+v", cases)
	}
}

func TestLoadTestCasesRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTestCases(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTestCases(empty); err == nil {
		t.Error("expected error for empty case list")
	}

	noQuery := filepath.Join(dir, "noquery.yaml")
	if err := os.WriteFile(noQuery, []byte("- id: 1\n  category: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTestCases(noQuery); err == nil {
		t.Error("expected error for case without query")
	}
}

func TestFilterByCategory(t *testing.T) {
	got := FilterByCategory(DefaultTestCases(), "currency_simple")
	if len(got) != 3 {
		t.Fatalf("got %d currency_simple cases, want 3", len(got))
	}
	for _, tc := range got {
		if tc.Category != "currency_simple" {
			t.Errorf("wrong category: %+v", tc)
		}
	}
}
