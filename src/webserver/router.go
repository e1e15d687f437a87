package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/snapshot"
)

func attachRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, voter *snapshot.VoteClient) {
	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	spaceH := NewSpaces(db, rdb)
	propH := NewProposals(db)
	recH := NewRecommendations(db)
	voteH := NewVotes(db, voter)

	v1 := r.Group("/v1")
	{
		v1.GET("/spaces", spaceH.List)
		v1.GET("/proposals", propH.ByDate)
		v1.GET("/proposals/:spaceID", propH.BySpace)
		v1.GET("/proposal/:id", propH.ByID)
		v1.GET("/recommendation/:proposalID", recH.Latest)
		v1.GET("/vote/next", voteH.Next)
		v1.POST("/vote/:proposalID", voteH.Cast)
	}
}
