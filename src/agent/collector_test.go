package agent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/daoscope/snapvote/src/data"
	"github.com/daoscope/snapvote/src/gov"
	"github.com/daoscope/snapvote/src/snapshot"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := data.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func feedProposal(id, title string, created, updated int64) gov.Proposal {
	start := time.Unix(created, 0).UTC()
	return gov.Proposal{
		ID:      id,
		Title:   title,
		State:   "active",
		Start:   start,
		End:     start.Add(72 * time.Hour),
		Created: time.Unix(created, 0).UTC(),
		Updated: time.Unix(updated, 0).UTC(),
	}
}

type fakeFetcher struct {
	byAxis  map[string][]gov.Proposal
	errs    map[string]error
	cursors map[string]int64
}

func (f *fakeFetcher) FetchSince(_ context.Context, axis string, cursor int64) ([]gov.Proposal, error) {
	if f.cursors == nil {
		f.cursors = map[string]int64{}
	}
	f.cursors[axis] = cursor
	return f.byAxis[axis], f.errs[axis]
}

func TestCollectProposalsMergesAxes(t *testing.T) {
	db := newTestDB(t)
	fetcher := &fakeFetcher{byAxis: map[string][]gov.Proposal{
		snapshot.AxisCreated: {
			feedProposal("pA", "stale", 100, 100),
			feedProposal("pB", "fresh b", 200, 200),
		},
		snapshot.AxisUpdated: {
			feedProposal("pA", "fresh a", 100, 300),
		},
	}}

	got, err := CollectProposals(context.Background(), db, fetcher)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d proposals, want 2", len(got))
	}
	if got[0].ID != "pA" || got[1].ID != "pB" {
		t.Fatalf("order not stable: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Title != "fresh a" {
		t.Fatalf("updated axis record did not win the merge: %q", got[0].Title)
	}
}

func TestCollectProposalsUsesStoredCursors(t *testing.T) {
	db := newTestDB(t)
	seed := feedProposal("seed", "seed", 100, 250)
	if err := data.UpsertProposals(db, []gov.Proposal{seed}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fetcher := &fakeFetcher{}
	if _, err := CollectProposals(context.Background(), db, fetcher); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if fetcher.cursors[snapshot.AxisCreated] != 100 {
		t.Fatalf("created cursor = %d, want 100", fetcher.cursors[snapshot.AxisCreated])
	}
	if fetcher.cursors[snapshot.AxisUpdated] != 250 {
		t.Fatalf("updated cursor = %d, want 250", fetcher.cursors[snapshot.AxisUpdated])
	}
}

func TestCollectProposalsKeepsPartialResults(t *testing.T) {
	db := newTestDB(t)
	fetcher := &fakeFetcher{
		byAxis: map[string][]gov.Proposal{
			snapshot.AxisCreated: {feedProposal("pA", "a", 100, 100)},
			snapshot.AxisUpdated: {feedProposal("pB", "b", 50, 200)},
		},
		errs: map[string]error{
			snapshot.AxisUpdated: fmt.Errorf("page 2 failed"),
		},
	}

	got, err := CollectProposals(context.Background(), db, fetcher)
	if err != nil {
		t.Fatalf("collect must keep partial batches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d proposals, want both including the partial axis", len(got))
	}
}
