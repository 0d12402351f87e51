package engine

import (
	"time"

	"github.com/hersh/blockstack/internal/game"
)

// PieceView is the active piece as seen by a renderer.
type PieceView struct {
	Kind     game.Kind
	Rotation int
	X, Y     int
	Color    int
	Cells    []game.Point
	// GhostY is the row the piece would land on if hard dropped.
	GhostY     int
	GhostCells []game.Point
}

// Snapshot is a read-only copy of everything a front end needs to draw one
// frame. It shares no memory with the session.
type Snapshot struct {
	State  State
	Phase  Phase
	Reason GameOverReason

	Mode        string
	ModeName    string
	IsTimeValue bool

	Board   [][]int
	Current *PieceView
	Next    game.Kind
	Held    *game.Kind
	CanHold bool

	Score     int
	Level     int
	Lines     int
	Remaining int
	Pieces    int
	Elapsed   time.Duration
	Grounded  bool
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:       s.state,
		Phase:       s.phase,
		Reason:      s.reason,
		Mode:        s.cfg.Key,
		ModeName:    s.cfg.Name,
		IsTimeValue: s.cfg.IsSprint(),
		Board:       s.board.Clone().Cells,
		Next:        s.next,
		CanHold:     s.canHold,
		Score:       s.score,
		Level:       s.level,
		Lines:       s.lines,
		Remaining:   s.cfg.Remaining(s.lines),
		Pieces:      s.pieces,
		Elapsed:     s.Elapsed(),
		Grounded:    s.grounded,
	}
	if s.hasHeld {
		held := s.held
		snap.Held = &held
	}
	if s.current != nil {
		p := *s.current
		ghost := p
		ghost.Y = s.board.LowestValidRow(p)
		snap.Current = &PieceView{
			Kind:       p.Kind,
			Rotation:   p.Rotation,
			X:          p.X,
			Y:          p.Y,
			Color:      p.Color,
			Cells:      p.Cells(),
			GhostY:     ghost.Y,
			GhostCells: ghost.Cells(),
		}
	}
	return snap
}
