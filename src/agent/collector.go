package agent

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/data"
	"github.com/daoscope/snapvote/src/gov"
	"github.com/daoscope/snapvote/src/snapshot"
)

// Fetcher is the feed dependency of the collector.
type Fetcher interface {
	FetchSince(ctx context.Context, axis string, cursor int64) ([]gov.Proposal, error)
}

var axes = []string{snapshot.AxisCreated, snapshot.AxisUpdated}

// CollectProposals crawls both feed axes from their stored cursors and
// merges the results by proposal id. The axes are fetched in created,
// updated order, so when one id surfaces on both, the updated-axis record
// wins.
func CollectProposals(ctx context.Context, db *gorm.DB, fetcher Fetcher) ([]gov.Proposal, error) {
	var all []gov.Proposal
	for _, axis := range axes {
		cursor, err := data.MaxAxisUnix(db, axis)
		if err != nil {
			return nil, err
		}
		batch, err := fetcher.FetchSince(ctx, axis, cursor)
		if err != nil {
			// Partial results are kept; the missing tail is picked up next
			// cycle when the cursor has advanced past what did land.
			log.Printf("agent: %s axis fetch incomplete: %v", axis, err)
		}
		log.Printf("agent: %d proposals on %s axis from cursor %d", len(batch), axis, cursor)
		all = append(all, batch...)
	}

	merged := make(map[string]gov.Proposal, len(all))
	order := make([]string, 0, len(all))
	for _, p := range all {
		if _, seen := merged[p.ID]; !seen {
			order = append(order, p.ID)
		}
		merged[p.ID] = p
	}

	out := make([]gov.Proposal, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	log.Printf("agent: %d proposals to upsert", len(out))
	return out, nil
}
