package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const weightEpsilon = 0.01

// parseAnalysis decodes a model response into an Analysis. Models wrap JSON
// in markdown fences or lead with prose often enough that both are handled
// before giving up.
func parseAnalysis(text string) (*Analysis, error) {
	cleaned := cleanMarkdown(text)

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		// Try to extract JSON if embedded
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("ai: response is not JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &analysis); err != nil {
			return nil, fmt.Errorf("ai: parse response: %w", err)
		}
	}

	if err := analysis.validateRecommendation(); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// validateRecommendation enforces the weight invariant: at least one option,
// every weight in [0,1], weights summing to 1 within epsilon.
func (a *Analysis) validateRecommendation() error {
	if len(a.Recommendation) == 0 {
		return fmt.Errorf("ai: response has no recommendation weights")
	}
	sum := 0.0
	for option, weight := range a.Recommendation {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("ai: weight %g for option %q out of range", weight, option)
		}
		sum += weight
	}
	if math.Abs(sum-1) > weightEpsilon {
		return fmt.Errorf("ai: recommendation weights sum to %g, want 1", sum)
	}
	return nil
}

// cleanMarkdown strips a surrounding ``` fence if present.
func cleanMarkdown(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
