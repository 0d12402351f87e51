package engine

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/mode"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// harness drives a session with a virtual clock.
type harness struct {
	t       *testing.T
	s       *Session
	now     time.Time
	results []Result
}

func newHarness(t *testing.T, cfg mode.Config, opts ...Option) *harness {
	t.Helper()
	h := &harness{t: t, now: epoch}
	opts = append([]Option{
		WithSeed(42),
		WithStart(epoch),
		WithUsername("tester"),
		WithLogger(log.New(io.Discard, "", 0)),
		WithReporter(ReporterFunc(func(r Result) { h.results = append(h.results, r) })),
	}, opts...)
	h.s = New(cfg, opts...)
	h.s.Start()
	return h
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
	h.s.Advance(h.now)
}

// play runs the countdown out so the first piece is live.
func (h *harness) play() {
	h.t.Helper()
	h.advance(h.s.timing.Ready + h.s.timing.Go)
	require.Equal(h.t, StatePlaying, h.s.State())
	require.NotNil(h.t, h.s.current)
}

// place replaces the active piece with kind at its spawn position.
func (h *harness) place(kind game.Kind) *game.Piece {
	p := game.Spawn(kind)
	h.s.current = &p
	return h.s.current
}

// floor puts the active piece on the lowest row it can reach.
func (h *harness) floor() {
	h.s.current.Y = h.s.board.LowestValidRow(*h.s.current)
}

func minX(p *game.Piece) int {
	x := game.Cols
	for _, c := range p.Cells() {
		x = min(x, c.X)
	}
	return x
}

func levelMode(t *testing.T, key string) mode.Config {
	t.Helper()
	c, ok := mode.Lookup(key)
	require.True(t, ok)
	return c
}
