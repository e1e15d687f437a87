package data

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/daoscope/snapvote/src/gov"
)

// MaxAxisUnix returns the largest stored value of the given timestamp axis
// ("created" or "updated") as Unix seconds, or 0 when the store is empty.
// The store itself is the crawl cursor; nothing is persisted separately.
func MaxAxisUnix(db *gorm.DB, axis string) (int64, error) {
	if axis != "created" && axis != "updated" {
		return 0, fmt.Errorf("data: unknown axis %q", axis)
	}

	var p gov.Proposal
	err := db.Order("`" + axis + "` DESC").Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("data: max %s: %w", axis, err)
	}

	t := p.Created
	if axis == "updated" {
		t = p.Updated
	}
	// Rows ingested before the feed ever set the axis carry a zero time.
	if t.IsZero() || t.Unix() < 0 {
		return 0, nil
	}
	return t.Unix(), nil
}

// UpsertProposals persists a batch in one transaction. First sight of an id
// writes every column; a conflict refreshes only the volatile columns, so
// replaying the same batch is a no-op. Any row failure rolls the whole
// batch back.
func UpsertProposals(db *gorm.DB, proposals []gov.Proposal) error {
	if len(proposals) == 0 {
		log.Printf("data: no proposals to upsert")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range proposals {
			p := &proposals[i]
			if p.ID == "" {
				return fmt.Errorf("data: proposal at index %d has no id", i)
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(gov.VolatileColumns),
			}).Create(p).Error
			if err != nil {
				return fmt.Errorf("data: upsert proposal %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// ActiveWithoutRecommendation returns proposals that are active, not yet
// ended, and have no recommendation row. Ordered by created descending so a
// given store snapshot always yields the same sequence.
func ActiveWithoutRecommendation(db *gorm.DB, now time.Time) ([]gov.Proposal, error) {
	sub := db.Model(&gov.Recommendation{}).Select("proposal_id")

	var proposals []gov.Proposal
	err := db.
		Where("state = ?", "active").
		Where("`end` >= ?", now).
		Where("id NOT IN (?)", sub).
		Order("created DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("data: scan for backfill: %w", err)
	}
	return proposals, nil
}

// ProposalByID fetches one proposal.
func ProposalByID(db *gorm.DB, id string) (*gov.Proposal, error) {
	var p gov.Proposal
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProposalsBySpace lists a space's active, not yet ended proposals, newest
// first.
func ProposalsBySpace(db *gorm.DB, spaceID string, now time.Time) ([]gov.Proposal, error) {
	var proposals []gov.Proposal
	err := db.
		Where("JSON_EXTRACT(space, '$.id') = ?", spaceID).
		Where("state = ?", "active").
		Where("`end` >= ?", now).
		Order("created DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("data: proposals by space: %w", err)
	}
	return proposals, nil
}

// ProposalsByDate lists proposals starting within the given UTC day.
func ProposalsByDate(db *gorm.DB, day time.Time) ([]gov.Proposal, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	var proposals []gov.Proposal
	err := db.
		Where("`start` >= ? AND `start` < ?", from, to).
		Order("`start` DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("data: proposals by date: %w", err)
	}
	return proposals, nil
}

// SpaceSummary is one row of the spaces overview.
type SpaceSummary struct {
	SpaceID         string `json:"space_id"`
	SpaceName       string `json:"space_name"`
	SpaceAvatar     string `json:"space_avatar"`
	ActiveProposals int64  `json:"active_proposals_count"`
	TotalProposals  int64  `json:"proposals_count"`
}

// Spaces aggregates the stored proposals into the 50 busiest spaces that
// still have something active to vote on. MySQL dialect (JSON_UNQUOTE).
func Spaces(db *gorm.DB, now time.Time) ([]SpaceSummary, error) {
	summaries := []SpaceSummary{}
	err := db.Model(&gov.Proposal{}).
		Select(
			"JSON_UNQUOTE(JSON_EXTRACT(space, '$.id')) AS space_id, "+
				"JSON_UNQUOTE(JSON_EXTRACT(space, '$.name')) AS space_name, "+
				"JSON_UNQUOTE(JSON_EXTRACT(space, '$.avatar')) AS space_avatar, "+
				"SUM(CASE WHEN state = 'active' AND `end` >= ? THEN 1 ELSE 0 END) AS active_proposals, "+
				"COUNT(*) AS total_proposals", now).
		Group("space_id, space_name, space_avatar").
		Having("active_proposals > 0").
		Order("total_proposals DESC").
		Limit(50).
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("data: spaces overview: %w", err)
	}
	return summaries, nil
}
