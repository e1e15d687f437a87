package ai

import (
	"context"
	"encoding/json"
)

// Analysis is the structured assessment the model returns for a proposal.
// The prose sections stay as raw JSON (string or list, the model varies);
// only the vote recommendation is typed because its weights are validated.
type Analysis struct {
	TechnicalImpact               json.RawMessage    `json:"technicalImpact"`
	EconomicConsequences          json.RawMessage    `json:"economicConsequences"`
	GovernanceAndDecentralization json.RawMessage    `json:"governanceAndDecentralization"`
	Advantages                    json.RawMessage    `json:"advantages"`
	Risks                         json.RawMessage    `json:"risks"`
	Recommendation                map[string]float64 `json:"recommendation"`
}

// Client analyzes one proposal document and returns the parsed assessment.
type Client interface {
	AnalyzeProposal(ctx context.Context, proposalDoc string) (*Analysis, error)
}

// Options are per-provider generation defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}
