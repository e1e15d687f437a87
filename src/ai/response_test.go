package ai

import (
	"testing"
)

const validAnalysisJSON = `{
	"technicalImpact": "Adds a new fee module.",
	"economicConsequences": "Raises treasury inflow.",
	"governanceAndDecentralization": "No change to voting power.",
	"advantages": ["sustainable funding"],
	"risks": ["user pushback"],
	"recommendation": {"For": 0.8, "Against": 0.2}
}`

func TestParseAnalysis(t *testing.T) {
	a, err := parseAnalysis(validAnalysisJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a.Recommendation["For"] != 0.8 {
		t.Fatalf("weights lost: %v", a.Recommendation)
	}
}

func TestParseAnalysisStripsFence(t *testing.T) {
	fenced := "```json\n" + validAnalysisJSON + "\n```"
	a, err := parseAnalysis(fenced)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if a.Recommendation["Against"] != 0.2 {
		t.Fatalf("weights lost: %v", a.Recommendation)
	}
}

func TestParseAnalysisEmbeddedJSON(t *testing.T) {
	wrapped := "Here is my analysis:\n" + validAnalysisJSON + "\nHope that helps!"
	if _, err := parseAnalysis(wrapped); err != nil {
		t.Fatalf("parse embedded: %v", err)
	}
}

func TestParseAnalysisRejectsBadWeights(t *testing.T) {
	cases := map[string]string{
		"no weights":   `{"technicalImpact": "x", "recommendation": {}}`,
		"bad sum":      `{"recommendation": {"For": 0.5, "Against": 0.2}}`,
		"out of range": `{"recommendation": {"For": 1.5, "Against": -0.5}}`,
		"not json":     `the proposal looks fine to me`,
	}
	for name, input := range cases {
		if _, err := parseAnalysis(input); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseAnalysisToleratesEpsilon(t *testing.T) {
	input := `{"recommendation": {"For": 0.333, "Against": 0.333, "Abstain": 0.333}}`
	if _, err := parseAnalysis(input); err != nil {
		t.Fatalf("sum within epsilon must pass: %v", err)
	}
}
