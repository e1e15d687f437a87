package webserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/data"
)

type Recommendations struct{ db *gorm.DB }

func NewRecommendations(db *gorm.DB) Recommendations { return Recommendations{db: db} }

func (r Recommendations) Latest(c *gin.Context) {
	proposalID := c.Param("proposalID")
	rec, err := data.LatestRecommendation(r.db, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "no recommendation for this proposal"})
			return
		}
		log.Printf("webserver: recommendation for %s: %v", proposalID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load recommendation"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
