package protocol

import (
	"encoding/json"
	"time"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/game"
)

// FromSnapshot flattens an engine snapshot for the wire.
func FromSnapshot(s engine.Snapshot) SnapshotPayload {
	height := len(s.Board)
	width := 0
	if height > 0 {
		width = len(s.Board[0])
	}
	p := SnapshotPayload{
		State:       int(s.State),
		Phase:       int(s.Phase),
		Reason:      int(s.Reason),
		Mode:        s.Mode,
		ModeName:    s.ModeName,
		IsTimeValue: s.IsTimeValue,
		Width:       width,
		Height:      height,
		Board:       (&game.Board{Cells: s.Board, Width: width, Height: height}).ToFlat(),
		Next:        int(s.Next),
		CanHold:     s.CanHold,
		Score:       s.Score,
		Level:       s.Level,
		Lines:       s.Lines,
		Remaining:   s.Remaining,
		Pieces:      s.Pieces,
		ElapsedMS:   s.Elapsed.Milliseconds(),
		Grounded:    s.Grounded,
	}
	if s.Held != nil {
		held := int(*s.Held)
		p.Held = &held
	}
	if c := s.Current; c != nil {
		p.Current = &PiecePayload{
			Kind:       int(c.Kind),
			Rotation:   c.Rotation,
			X:          c.X,
			Y:          c.Y,
			Color:      c.Color,
			Cells:      toPoints(c.Cells),
			GhostY:     c.GhostY,
			GhostCells: toPoints(c.GhostCells),
		}
	}
	return p
}

// Snapshot rebuilds the engine view so remote and local play render alike.
func (p SnapshotPayload) Snapshot() engine.Snapshot {
	s := engine.Snapshot{
		State:       engine.State(p.State),
		Phase:       engine.Phase(p.Phase),
		Reason:      engine.GameOverReason(p.Reason),
		Mode:        p.Mode,
		ModeName:    p.ModeName,
		IsTimeValue: p.IsTimeValue,
		Board:       game.BoardFromFlat(p.Board, p.Width, p.Height).Cells,
		Next:        game.Kind(p.Next),
		CanHold:     p.CanHold,
		Score:       p.Score,
		Level:       p.Level,
		Lines:       p.Lines,
		Remaining:   p.Remaining,
		Pieces:      p.Pieces,
		Elapsed:     time.Duration(p.ElapsedMS) * time.Millisecond,
		Grounded:    p.Grounded,
	}
	if p.Held != nil {
		held := game.Kind(*p.Held)
		s.Held = &held
	}
	if c := p.Current; c != nil {
		s.Current = &engine.PieceView{
			Kind:       game.Kind(c.Kind),
			Rotation:   c.Rotation,
			X:          c.X,
			Y:          c.Y,
			Color:      c.Color,
			Cells:      fromPoints(c.Cells),
			GhostY:     c.GhostY,
			GhostCells: fromPoints(c.GhostCells),
		}
	}
	return s
}

func toPoints(in []game.Point) []Point {
	out := make([]Point, len(in))
	for i, pt := range in {
		out[i] = Point{X: pt.X, Y: pt.Y}
	}
	return out
}

func fromPoints(in []Point) []game.Point {
	out := make([]game.Point, len(in))
	for i, pt := range in {
		out[i] = game.Point{X: pt.X, Y: pt.Y}
	}
	return out
}

// ExtractPayload re-unmarshals the raw JSON to extract a typed payload.
func ExtractPayload(raw []byte, target interface{}) error {
	var wrapper struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(wrapper.Payload, target)
}

// Decode reads the envelope type of a raw message.
func Decode(raw []byte) (MessageType, error) {
	var env struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}
