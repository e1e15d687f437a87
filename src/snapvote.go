package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daoscope/snapvote/src/agent"
	"github.com/daoscope/snapvote/src/ai"
	"github.com/daoscope/snapvote/src/config"
	"github.com/daoscope/snapvote/src/data"
	"github.com/daoscope/snapvote/src/snapshot"
	"github.com/daoscope/snapvote/src/webserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	rdb := data.MustRedis(cfg.RedisURL)

	feed := snapshot.NewClient(cfg.GraphQLURL)
	aiClient := ai.NewClient(ai.FactoryConfig{
		Provider:  cfg.Provider,
		OpenAIKey: cfg.OpenAIKey,
		ClaudeKey: cfg.ClaudeKey,
		Model:     cfg.Model,
	})

	var voter *snapshot.VoteClient
	if cfg.VotePrivateKey != "" {
		voter, err = snapshot.NewVoteClient(cfg.HubURL, cfg.Space, cfg.VotePrivateKey)
		if err != nil {
			log.Fatalf("vote client: %v", err)
		}
		log.Printf("voting enabled for %s as %s", cfg.Space, voter.Address())
	} else {
		log.Printf("voting disabled (VOTE_PRIVATE_KEY not set)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agent.New(db, feed, aiClient, cfg.PollInterval, cfg.AnalysisDelay).Run(ctx)

	router := webserver.New(db, rdb, voter)
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("snapvote API listening on %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
