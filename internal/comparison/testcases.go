// Package comparison runs the same query set against several models
// and aggregates timing, token and cost statistics so the models can
// be ranked.
package comparison

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed testcases.yaml
var defaultTestCasesYAML []byte

// TestCase is one evaluation query with the expectations used to judge
// the answer.
type TestCase struct {
	ID               int      `yaml:"id" json:"id"`
	Query            string   `yaml:"query" json:"query"`
	Category         string   `yaml:"category" json:"category"`
	ExpectedTool     string   `yaml:"expected_tool,omitempty" json:"expected_tool,omitempty"`
	ExpectedTools    []string `yaml:"expected_tools,omitempty" json:"expected_tools,omitempty"`
	ExpectedKeywords []string `yaml:"expected_keywords,omitempty" json:"expected_keywords,omitempty"`
}

// DefaultTestCases returns the built-in evaluation query set.
func DefaultTestCases() []TestCase {
	cases, err := parseTestCases(defaultTestCasesYAML)
	if err != nil {
		// The embedded file is validated by tests; this cannot
		// happen at runtime.
		panic(fmt.Sprintf("embedded test cases: %v", err))
	}
	return cases
}

// LoadTestCases reads a custom evaluation set from a YAML file.
func LoadTestCases(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test cases: %w", err)
	}
	cases, err := parseTestCases(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cases, nil
}

func parseTestCases(data []byte) ([]TestCase, error) {
	var cases []TestCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no test cases defined")
	}
	for i, tc := range cases {
		if tc.Query == "" {
			return nil, fmt.Errorf("test case %d has no query", i+1)
		}
	}
	return cases, nil
}

// FilterByCategory keeps only cases in the named category.
func FilterByCategory(cases []TestCase, category string) []TestCase {
	var out []TestCase
	for _, tc := range cases {
		if tc.Category == category {
			out = append(out, tc)
		}
	}
	return out
}
