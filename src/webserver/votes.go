package webserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/data"
	"github.com/daoscope/snapvote/src/gov"
	"github.com/daoscope/snapvote/src/snapshot"
)

type Votes struct {
	db    *gorm.DB
	voter *snapshot.VoteClient
}

func NewVotes(db *gorm.DB, voter *snapshot.VoteClient) Votes {
	return Votes{db: db, voter: voter}
}

// Next hands out the newest unconsumed recommendation together with the
// suggested choice. Each recommendation is served exactly once.
func (v Votes) Next(c *gin.Context) {
	rec, err := data.ConsumeNextRecommendation(v.db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "no pending recommendation"})
			return
		}
		log.Printf("webserver: next recommendation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load recommendation"})
		return
	}

	choice, option := suggestedChoice(v.db, rec)
	c.JSON(http.StatusOK, gin.H{
		"proposalId": rec.ProposalID,
		"voteOption": option,
		"choice":     choice,
		"weights":    rec.Recommendation,
	})
}

// Cast signs and submits a vote for the proposal. Requires a configured
// signing key.
func (v Votes) Cast(c *gin.Context) {
	var req struct {
		Choice uint32 `json:"choice" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	proposalID := c.Param("proposalID")
	if _, err := data.ProposalByID(v.db, proposalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
			return
		}
		log.Printf("webserver: proposal %s: %v", proposalID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load proposal"})
		return
	}

	if v.voter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "voting is not configured"})
		return
	}

	if err := v.voter.CastVote(c.Request.Context(), proposalID, req.Choice); err != nil {
		log.Printf("webserver: cast vote for %s: %v", proposalID, err)
		c.JSON(http.StatusBadGateway, gin.H{"err": "hub rejected the vote"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": v.voter.Address()})
}

// suggestedChoice maps the highest-weight option name to its 1-based index
// in the proposal's choices. Returns 0 when the name is not among them.
func suggestedChoice(db *gorm.DB, rec *gov.Recommendation) (string, uint32) {
	var weights map[string]float64
	if err := json.Unmarshal(rec.Recommendation, &weights); err != nil || len(weights) == 0 {
		return "", 0
	}

	best := ""
	bestWeight := -1.0
	for name, w := range weights {
		if w > bestWeight || (w == bestWeight && name < best) {
			best, bestWeight = name, w
		}
	}

	proposal, err := data.ProposalByID(db, rec.ProposalID)
	if err != nil {
		return best, 0
	}
	var choices []string
	if err := json.Unmarshal(proposal.Choices, &choices); err != nil {
		return best, 0
	}
	for i, name := range choices {
		if name == best {
			return best, uint32(i + 1)
		}
	}
	return best, 0
}
