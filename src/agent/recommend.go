package agent

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/ai"
	"github.com/daoscope/snapvote/src/data"
	"github.com/daoscope/snapvote/src/gov"
)

// GenerateRecommendations analyzes every active proposal that has no
// recommendation yet, spacing calls by delay to stay under the provider's
// rate limits. One proposal failing never stops the scan.
func GenerateRecommendations(ctx context.Context, db *gorm.DB, client ai.Client, delay time.Duration) error {
	proposals, err := data.ActiveWithoutRecommendation(db, time.Now().UTC())
	if err != nil {
		return err
	}
	log.Printf("agent: %d proposals without recommendations", len(proposals))

	for i, p := range proposals {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		analysis, err := client.AnalyzeProposal(ctx, ai.ProposalDocument(p))
		if err != nil {
			log.Printf("agent: analyze proposal %s: %v", p.ID, err)
			continue
		}
		rec, err := recommendationRow(p.ID, analysis)
		if err != nil {
			log.Printf("agent: encode recommendation for %s: %v", p.ID, err)
			continue
		}
		if err := data.SaveRecommendation(db, rec); err != nil {
			log.Printf("agent: save recommendation for %s: %v", p.ID, err)
			continue
		}
		log.Printf("agent: recommendation created for proposal %s", p.ID)
	}
	return nil
}

func recommendationRow(proposalID string, analysis *ai.Analysis) (*gov.Recommendation, error) {
	weights, err := json.Marshal(analysis.Recommendation)
	if err != nil {
		return nil, err
	}
	return &gov.Recommendation{
		ProposalID:                    proposalID,
		TechnicalImpact:               jsonColumn(analysis.TechnicalImpact),
		EconomicConsequences:          jsonColumn(analysis.EconomicConsequences),
		GovernanceAndDecentralization: jsonColumn(analysis.GovernanceAndDecentralization),
		Advantages:                    jsonColumn(analysis.Advantages),
		Risks:                         jsonColumn(analysis.Risks),
		Recommendation:                datatypes.JSON(weights),
	}, nil
}

func jsonColumn(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(raw)
}
