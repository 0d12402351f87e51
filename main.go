package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hersh/blockstack/internal/config"
	"github.com/hersh/blockstack/internal/leaderboard"
	"github.com/hersh/blockstack/internal/tui"
)

// This is the standalone single-player entry point.
// To play against a hosted session, use:
//   Server: go run ./cmd/server
//   Client: go run ./cmd/client --server ws://localhost:8080/ws --name YourName

func main() {
	cfg, err := config.Load(config.Game, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.Debug {
		f, err := tea.LogToFile(cfg.LogFile, "blockstack")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	logger := log.Default()

	var reporters leaderboard.Multi
	store := openStore(cfg, logger)
	if store != nil {
		reporters = append(reporters, store)
	}
	var remote *leaderboard.HTTPReporter
	if cfg.ScoreAPIURL != "" {
		remote = leaderboard.NewHTTPReporter(cfg.ScoreAPIURL,
			leaderboard.WithAPIKey(cfg.ScoreAPIKey),
			leaderboard.WithLogger(logger),
		)
		reporters = append(reporters, remote)
	}

	opts := tui.Options{
		Name:   cfg.Name,
		Mode:   cfg.GameMode(logger).Key,
		Seed:   cfg.Seed,
		Store:  store,
		Logger: logger,
	}
	if len(reporters) > 0 {
		opts.Reporter = reporters
	}

	// nil client = local session, no network
	p := tea.NewProgram(
		tui.NewModel(opts, nil),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	_, err = p.Run()
	if remote != nil {
		remote.Wait()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config, logger *log.Logger) *leaderboard.FileStore {
	path := cfg.ScoreFile
	if path == "" {
		var err error
		if path, err = leaderboard.DefaultPath(); err != nil {
			logger.Printf("leaderboard disabled: %v", err)
			return nil
		}
	}
	return leaderboard.NewFileStore(path)
}
