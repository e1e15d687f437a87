package agent

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/ai"
	"github.com/daoscope/snapvote/src/data"
)

// Agent runs the sync loop: an ingest phase (collect feed, upsert) followed
// by a backfill phase (generate missing recommendations), repeated on a
// fixed period. The two phases never overlap; a phase error is logged and
// the loop moves on.
type Agent struct {
	db            *gorm.DB
	fetcher       Fetcher
	ai            ai.Client
	interval      time.Duration
	analysisDelay time.Duration

	ingest   func(ctx context.Context) error
	backfill func(ctx context.Context) error
}

func New(db *gorm.DB, fetcher Fetcher, client ai.Client, interval, analysisDelay time.Duration) *Agent {
	a := &Agent{
		db:            db,
		fetcher:       fetcher,
		ai:            client,
		interval:      interval,
		analysisDelay: analysisDelay,
	}
	a.ingest = a.runIngest
	a.backfill = a.runBackfill
	return a
}

// Run loops until ctx is cancelled. The first iteration starts immediately;
// each later one starts when the ticker fires, so a slow iteration is
// followed by the next without extra sleep.
func (a *Agent) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		log.Printf("agent: collecting proposals")
		if err := a.ingest(ctx); err != nil {
			log.Printf("agent: ingest failed: %v", err)
		}
		if ctx.Err() != nil {
			log.Printf("agent: stopped")
			return
		}

		log.Printf("agent: generating recommendations")
		if err := a.backfill(ctx); err != nil {
			log.Printf("agent: backfill failed: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Printf("agent: stopped")
			return
		case <-ticker.C:
		}
	}
}

func (a *Agent) runIngest(ctx context.Context) error {
	proposals, err := CollectProposals(ctx, a.db, a.fetcher)
	if err != nil {
		return err
	}
	return data.UpsertProposals(a.db, proposals)
}

func (a *Agent) runBackfill(ctx context.Context) error {
	return GenerateRecommendations(ctx, a.db, a.ai, a.analysisDelay)
}
