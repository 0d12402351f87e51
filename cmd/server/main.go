package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hersh/blockstack/internal/config"
	"github.com/hersh/blockstack/internal/leaderboard"
	"github.com/hersh/blockstack/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load(config.Server, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	opts := []server.Option{server.WithAPIKey(cfg.ScoreAPIKey)}
	path := cfg.ScoreFile
	if path == "" {
		path, err = leaderboard.DefaultPath()
	}
	if err != nil {
		log.Printf("leaderboard disabled: %v", err)
	} else {
		store := leaderboard.NewFileStore(path)
		opts = append(opts, server.WithStore(store), server.WithReporter(store))
		log.Printf("Leaderboard file: %s", store.Path())
	}
	if cfg.ScoreAPIKey == "" {
		log.Println("No score API key set, POST /scores is open")
	}

	hub := server.NewHub(opts...)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Blockstack server starting on %s", cfg.Addr)
	log.Printf("WebSocket endpoint: ws://localhost%s/ws", cfg.Addr)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
