package data

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/gov"
)

// SaveRecommendation appends a recommendation row. Rows are never updated
// afterwards; a re-analysis produces a new row with a newer created_at.
func SaveRecommendation(db *gorm.DB, rec *gov.Recommendation) error {
	if rec.ProposalID == "" {
		return fmt.Errorf("data: recommendation has no proposal id")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.NewFlag = true

	if err := db.Create(rec).Error; err != nil {
		return fmt.Errorf("data: save recommendation for %s: %w", rec.ProposalID, err)
	}
	return nil
}

// LatestRecommendation returns the current (newest) recommendation for a
// proposal, or gorm.ErrRecordNotFound.
func LatestRecommendation(db *gorm.DB, proposalID string) (*gov.Recommendation, error) {
	var rec gov.Recommendation
	err := db.
		Where("proposal_id = ?", proposalID).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ConsumeNextRecommendation hands out the newest unconsumed recommendation
// and clears its new_flag in the same transaction, so the vote bot sees
// each row exactly once. Returns gorm.ErrRecordNotFound when nothing is
// pending.
func ConsumeNextRecommendation(db *gorm.DB) (*gov.Recommendation, error) {
	var rec gov.Recommendation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("new_flag = ?", true).Order("created_at DESC").First(&rec).Error; err != nil {
			return err
		}
		return tx.Model(&gov.Recommendation{}).Where("id = ?", rec.ID).Update("new_flag", false).Error
	})
	if err != nil {
		return nil, err
	}
	rec.NewFlag = false
	return &rec, nil
}
