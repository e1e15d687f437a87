package ai

import (
	"encoding/json"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/daoscope/snapvote/src/gov"
)

const systemMessage = "You act as an expert with deep knowledge in blockchain technologies, " +
	"decentralized organizations, and DAO management, particularly regarding DAO governance proposals."

const promptTemplate = `Please help analyze this DAO governance proposal. Here is its brief description: [%s].

Analyze the proposal from the following perspectives:
1. Technical impact on protocol development.
2. Economic consequences for ecosystem sustainability.
3. Governance and decentralization aspects for the community.

For each of these points, provide the following data in JSON format with key-value pairs:
- technicalImpact: A detailed description of the technical impact.
- economicConsequences: An analysis of the economic consequences for the ecosystem.
- governanceAndDecentralization: An evaluation of the governance and decentralization aspects.
- advantages: A list of the key advantages of the proposal.
- risks: A list of the key risks and potential negative aspects.
- recommendation: An object with suggested voting options and their weights (the sum of weights must equal 1), for example:
"recommendation": { "For": 0.8, "Against": 0.2 }`

const maxDocumentLength = 10000

var htmlPolicy = bluemonday.StrictPolicy()

// ProposalDocument serializes the fields the model needs. The body is
// stripped of HTML first; forum-sourced proposals regularly embed markup.
func ProposalDocument(p gov.Proposal) string {
	doc := map[string]any{
		"id":      p.ID,
		"space":   rawOrNull(p.Space),
		"type":    p.Type,
		"title":   htmlPolicy.Sanitize(p.Title),
		"body":    htmlPolicy.Sanitize(p.Body),
		"author":  p.Author,
		"choices": rawOrNull(p.Choices),
		"state":   p.State,
		"start":   p.Start.Unix(),
		"end":     p.End.Unix(),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return p.ID
	}
	s := string(b)
	if len(s) > maxDocumentLength {
		s = s[:maxDocumentLength] + "... [truncated]"
	}
	return s
}

func rawOrNull(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

func buildPrompt(proposalDoc string) string {
	return fmt.Sprintf(promptTemplate, proposalDoc)
}
