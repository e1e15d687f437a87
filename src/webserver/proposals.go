package webserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/data"
)

type Proposals struct{ db *gorm.DB }

func NewProposals(db *gorm.DB) Proposals { return Proposals{db: db} }

func (p Proposals) ByID(c *gin.Context) {
	id := c.Param("id")
	proposal, err := data.ProposalByID(p.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
			return
		}
		log.Printf("webserver: proposal %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load proposal"})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func (p Proposals) BySpace(c *gin.Context) {
	spaceID := c.Param("spaceID")
	proposals, err := data.ProposalsBySpace(p.db, spaceID, time.Now().UTC())
	if err != nil {
		log.Printf("webserver: proposals for space %s: %v", spaceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load proposals"})
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// ByDate lists proposals starting on a given UTC day. Defaults to today.
func (p Proposals) ByDate(c *gin.Context) {
	day := time.Now().UTC()
	if q := c.Query("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	proposals, err := data.ProposalsByDate(p.db, day)
	if err != nil {
		log.Printf("webserver: proposals by date: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load proposals"})
		return
	}
	c.JSON(http.StatusOK, proposals)
}
