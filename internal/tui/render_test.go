package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/leaderboard"
)

func emptyBoard() [][]int {
	return game.NewBoard().Cells
}

func TestRenderPiece(t *testing.T) {
	assert.Equal(t, "Empty", RenderPiece(nil))

	o := game.KindO
	assert.Len(t, strings.Split(RenderPiece(&o), "\n"), 2)

	i := game.KindI
	assert.Len(t, strings.Split(RenderPiece(&i), "\n"), 1)
}

func TestRenderInfoLevelAndSprint(t *testing.T) {
	level := engine.Snapshot{ModeName: "Medium", Score: 1200, Level: 3, Lines: 21, Next: game.KindT}
	out := RenderInfo(level, "ann")
	assert.Contains(t, out, "Score: 1200")
	assert.Contains(t, out, "Level: 3")
	assert.NotContains(t, out, "Time:")

	sprint := engine.Snapshot{ModeName: "40 Lines", IsTimeValue: true, Lines: 12, Remaining: 28, Elapsed: 83450 * time.Millisecond}
	out = RenderInfo(sprint, "ann")
	assert.Contains(t, out, "Time: 01:23.45")
	assert.Contains(t, out, "Lines left: 28")
	assert.NotContains(t, out, "Score:")
}

func TestRenderBoardGhostAndOverlay(t *testing.T) {
	s := engine.Snapshot{
		State: engine.StatePlaying,
		Board: emptyBoard(),
		Current: &engine.PieceView{
			Color:      game.KindO.Color(),
			Cells:      []game.Point{{X: 4, Y: 0}, {X: 5, Y: 0}, {X: 4, Y: 1}, {X: 5, Y: 1}},
			GhostCells: []game.Point{{X: 4, Y: 18}, {X: 5, Y: 18}, {X: 4, Y: 19}, {X: 5, Y: 19}},
		},
	}
	out := RenderBoard(s)
	assert.Equal(t, 4, strings.Count(out, "[]"))
	assert.Equal(t, 4, strings.Count(out, "██"))

	s.State = engine.StatePaused
	assert.Contains(t, RenderBoard(s), "PAUSED")

	s.State = engine.StateCountdown
	s.Phase = engine.PhaseReady
	assert.Contains(t, RenderBoard(s), "READY")
}

func TestRenderGameOver(t *testing.T) {
	s := engine.Snapshot{Reason: engine.ReasonGoalReached}
	res := &engine.Result{Mode: "40L", Username: "ann", Value: 61230, IsTimeValue: true, Completed: true}
	top := []leaderboard.Entry{
		{Username: "ann", Value: 61230, IsTimeValue: true},
		{Username: "bob", Value: 70000, IsTimeValue: true},
	}
	out := RenderGameOver(s, res, top, "ann")
	assert.Contains(t, out, "FINISHED!")
	assert.Contains(t, out, "Time: 01:01.23")
	assert.Contains(t, out, "bob")

	s = engine.Snapshot{Reason: engine.ReasonBlockOut, Remaining: 12}
	res = &engine.Result{Mode: "40L", Value: 5000, IsTimeValue: true}
	out = RenderGameOver(s, res, nil, "ann")
	assert.Contains(t, out, "GAME OVER")
	assert.Contains(t, out, "12 lines short")
}

func TestRenderControlsListsBindings(t *testing.T) {
	out := RenderControls(Keys)
	for _, b := range Keys.PlayHelp() {
		assert.Contains(t, out, b.Help().Desc)
	}
}
