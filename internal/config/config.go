// Package config reads the settings shared by the blockstack binaries from
// the environment and the command line. Flags win over environment.
package config

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os/user"
	"strconv"
	"strings"

	"github.com/hersh/blockstack/internal/mode"
)

// Program selects which flags a binary accepts.
type Program int

const (
	Game Program = iota
	Server
	Client
)

const (
	DefaultPort      = "8080"
	DefaultServerURL = "ws://localhost:8080/ws"
	DefaultLogFile   = "debug.log"
	GuestName        = "GUEST"
)

type Config struct {
	Name        string
	Mode        string
	ServerURL   string
	Addr        string
	ScoreAPIURL string
	ScoreAPIKey string
	ScoreFile   string
	Debug       bool
	LogFile     string
	Seed        int64
}

// Load parses args for prog on top of the environment read through getenv.
func Load(prog Program, args []string, getenv func(string) string) (Config, error) {
	cfg := fromEnv(getenv)

	fs := flag.NewFlagSet(prog.name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ScoreFile, "scores", cfg.ScoreFile, "local leaderboard file (empty: user config dir)")
	switch prog {
	case Game, Client:
		fs.StringVar(&cfg.Name, "name", cfg.Name, "player name (defaults to OS username)")
		fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "game mode: "+strings.Join(mode.Keys(), ", "))
		fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write logs to -log")
		fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file used with -debug")
	}
	switch prog {
	case Game:
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "piece sequence seed (0: random)")
		fs.StringVar(&cfg.ScoreAPIURL, "score-api", cfg.ScoreAPIURL, "score API base URL")
		fs.StringVar(&cfg.ScoreAPIKey, "score-api-key", cfg.ScoreAPIKey, "score API key")
	case Server:
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
		fs.StringVar(&cfg.ScoreAPIKey, "score-api-key", cfg.ScoreAPIKey, "key required on POST /scores")
	case Client:
		fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "WebSocket server address")
	}
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("parse %s flags: %w", prog.name(), err)
	}

	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = defaultName()
	}
	return cfg, nil
}

func fromEnv(getenv func(string) string) Config {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }
	cfg := Config{
		Name:        env("BLOCKSTACK_NAME"),
		Mode:        env("BLOCKSTACK_MODE"),
		ServerURL:   env("BLOCKSTACK_SERVER"),
		ScoreAPIURL: env("BLOCKSTACK_SCORE_API_URL"),
		ScoreAPIKey: env("BLOCKSTACK_SCORE_API_KEY"),
		ScoreFile:   env("BLOCKSTACK_SCORE_FILE"),
		LogFile:     DefaultLogFile,
	}
	if cfg.Mode == "" {
		cfg.Mode = mode.DefaultKey
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	port := env("PORT")
	if port == "" {
		port = DefaultPort
	}
	cfg.Addr = ":" + port
	if v, err := strconv.ParseBool(env("BLOCKSTACK_DEBUG")); err == nil {
		cfg.Debug = v
	}
	return cfg
}

// GameMode resolves Mode, warning through logger when it falls back.
func (c Config) GameMode(logger *log.Logger) mode.Config {
	m, ok := mode.Resolve(c.Mode)
	if !ok && logger != nil {
		logger.Printf("config: unknown mode %q, using %s", c.Mode, m.Key)
	}
	return m
}

func defaultName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return GuestName
}

func (p Program) name() string {
	switch p {
	case Server:
		return "blockstack-server"
	case Client:
		return "blockstack-client"
	}
	return "blockstack"
}
