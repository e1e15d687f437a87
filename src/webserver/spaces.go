package webserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/data"
)

const (
	spacesCacheKey = "snapvote:spaces"
	spacesCacheTTL = 60 * time.Second
)

type Spaces struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewSpaces(db *gorm.DB, rdb *redis.Client) Spaces {
	return Spaces{db: db, rdb: rdb}
}

// List serves the spaces overview, cached in redis for a minute since the
// aggregate scans every proposal row.
func (s Spaces) List(c *gin.Context) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(c.Request.Context(), spacesCacheKey).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	summaries, err := data.Spaces(s.db, time.Now().UTC())
	if err != nil {
		log.Printf("webserver: spaces overview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to load spaces"})
		return
	}

	if s.rdb != nil {
		if b, err := json.Marshal(summaries); err == nil {
			if err := s.rdb.Set(context.Background(), spacesCacheKey, b, spacesCacheTTL).Err(); err != nil {
				log.Printf("webserver: cache spaces: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, summaries)
}
