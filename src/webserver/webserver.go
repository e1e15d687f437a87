package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/snapshot"
)

func New(db *gorm.DB, rdb *redis.Client, voter *snapshot.VoteClient) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, db, rdb, voter)
	return g
}
