package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/mode"
)

func TestGravityGroundsThenLockDelayLocks(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindO)
	h.floor()

	h.advance(599 * time.Millisecond)
	assert.False(t, h.s.grounded)
	h.advance(time.Millisecond)
	require.True(t, h.s.grounded)
	assert.True(t, h.s.sched.Pending(slotLockDelay))
	assert.True(t, h.s.sched.Pending(slotForceLock))

	h.advance(499 * time.Millisecond)
	assert.Equal(t, 0, h.s.pieces)
	h.advance(time.Millisecond)
	assert.Equal(t, 1, h.s.pieces)
	assert.Equal(t, game.KindO.Color(), h.s.board.Cells[19][4])
}

func TestLockDelayRechecksSupport(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.s.board.Fill(19, 1)
	h.place(game.KindO)
	h.floor()
	require.Equal(t, 17, h.s.current.Y)

	h.advance(600 * time.Millisecond)
	require.True(t, h.s.grounded)

	h.s.board.Fill(19, 0)
	h.advance(500 * time.Millisecond)
	assert.Equal(t, 0, h.s.pieces)
	assert.False(t, h.s.grounded)
	assert.False(t, h.s.sched.Pending(slotForceLock))
}

func TestSoftDropNeverStartsLockDelay(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindO)
	h.floor()

	require.True(t, h.s.SoftDrop(true))
	h.advance(100 * time.Millisecond)
	assert.False(t, h.s.grounded)
	assert.False(t, h.s.sched.Pending(slotLockDelay))
	assert.Equal(t, 0, h.s.pieces)
}

func TestForceLockBoundsLateralResets(t *testing.T) {
	cfg := mode.Config{Key: "test", Name: "Test", Type: mode.TypeLevel, DropInterval: 50 * time.Millisecond}
	timing := DefaultTiming()
	timing.MaxLockResets = 1000
	h := newHarness(t, cfg, WithTiming(timing))
	h.play()
	h.place(game.KindO)

	step := 10 * time.Millisecond
	for !h.s.grounded {
		h.advance(step)
	}
	grounded := h.now

	var lockedAt time.Time
	left := true
	for i := 1; i <= 700; i++ {
		h.advance(step)
		if h.s.pieces > 0 {
			lockedAt = h.now
			break
		}
		if i%10 == 0 {
			if left {
				require.True(t, h.s.MoveLeft(true))
				h.s.MoveLeft(false)
			} else {
				require.True(t, h.s.MoveRight(true))
				h.s.MoveRight(false)
			}
			left = !left
		}
	}
	require.False(t, lockedAt.IsZero(), "piece never locked")
	assert.Equal(t, timing.ForceLock, lockedAt.Sub(grounded))
}

func TestLockResetsAreCapped(t *testing.T) {
	cfg := mode.Config{Key: "test", Name: "Test", Type: mode.TypeLevel, DropInterval: 50 * time.Millisecond}
	h := newHarness(t, cfg)
	h.play()
	h.place(game.KindO)
	for !h.s.grounded {
		h.advance(10 * time.Millisecond)
	}
	grounded := h.now

	left := true
	for h.s.pieces == 0 {
		h.advance(100 * time.Millisecond)
		if h.s.pieces > 0 {
			break
		}
		if left {
			h.s.MoveLeft(true)
			h.s.MoveLeft(false)
		} else {
			h.s.MoveRight(true)
			h.s.MoveRight(false)
		}
		left = !left
	}
	elapsed := h.now.Sub(grounded)
	assert.Equal(t, 15*100*time.Millisecond+h.s.timing.LockDelay, elapsed)
	assert.Less(t, elapsed, h.s.timing.ForceLock)
}

func TestRotationCancelsForceLock(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindO)
	h.floor()
	h.advance(600 * time.Millisecond)
	require.True(t, h.s.grounded)

	h.advance(300 * time.Millisecond)
	require.True(t, h.s.RotateCW())
	assert.True(t, h.s.grounded)
	assert.False(t, h.s.sched.Pending(slotForceLock))
	rem, ok := h.s.sched.Remaining(slotLockDelay)
	require.True(t, ok)
	assert.Equal(t, h.s.timing.LockDelay, rem)
	assert.Equal(t, 1, h.s.lockResets)

	// the next failed gravity step re-arms it
	h.advance(300 * time.Millisecond)
	assert.Equal(t, 0, h.s.pieces)
	assert.True(t, h.s.sched.Pending(slotForceLock))
}

func TestUpwardKickUngrounds(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindT)
	h.floor()
	require.Equal(t, 18, h.s.current.Y)
	h.advance(600 * time.Millisecond)
	require.True(t, h.s.grounded)

	require.True(t, h.s.RotateCW())
	assert.Equal(t, 17, h.s.current.Y)
	assert.False(t, h.s.grounded)
	assert.False(t, h.s.sched.Pending(slotLockDelay))
	assert.False(t, h.s.sched.Pending(slotForceLock))
}

func TestHardDropLocksImmediately(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindI)
	require.True(t, h.s.HardDrop())
	assert.Equal(t, 1, h.s.pieces)
	for x := 3; x <= 6; x++ {
		assert.Equal(t, game.KindI.Color(), h.s.board.Cells[19][x])
	}
	assert.Equal(t, 0, h.s.score)
	assert.True(t, h.s.sched.Pending(slotGravity))
}

func TestLineClearScoring(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.s.board.Fill(18, 2, 4, 5)
	h.s.board.Fill(19, 2, 4, 5)
	h.place(game.KindO)
	h.s.HardDrop()

	snap := h.s.Snapshot()
	assert.Equal(t, 2, snap.Lines)
	assert.Equal(t, 300, snap.Score)
	assert.Equal(t, 1, snap.Level)
	for _, row := range snap.Board {
		assert.Equal(t, make([]int, game.Cols), row)
	}
}

func TestLevelUpSpeedsGravity(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.s.lines = 9
	h.s.board.Fill(19, 2, 4, 5)
	h.s.board.Fill(18, 2)
	h.s.board.Fill(18, 0)
	h.place(game.KindO)
	h.s.current.X = 4
	h.s.HardDrop()

	assert.Equal(t, 10, h.s.lines)
	assert.Equal(t, 2, h.s.level)
	assert.Equal(t, 100, h.s.score)
	rem, ok := h.s.sched.Remaining(slotGravity)
	require.True(t, ok)
	assert.Equal(t, 560*time.Millisecond, rem)
}

func TestSprintReportsUnpausedTime(t *testing.T) {
	cfg := mode.Config{Key: "1L", Name: "1 Line", Type: mode.TypeSprint, DropInterval: mode.SprintInterval, LineGoal: 1}
	h := newHarness(t, cfg)
	h.play()
	h.s.board.Fill(19, 3, 4, 5)

	h.advance(3 * time.Second)
	require.True(t, h.s.Pause())
	h.advance(2 * time.Second)
	require.True(t, h.s.Resume())
	h.advance(500 * time.Millisecond)

	h.place(game.KindO)
	require.True(t, h.s.HardDrop())

	snap := h.s.Snapshot()
	assert.Equal(t, StateGameOver, snap.State)
	assert.Equal(t, ReasonGoalReached, snap.Reason)
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, 3500*time.Millisecond, snap.Elapsed)
	require.Len(t, h.results, 1)
	assert.Equal(t, Result{
		Game: GameName, Mode: "1L", Username: "tester",
		Value: 3500, IsTimeValue: true, Completed: true,
	}, h.results[0])
}

func TestSprintTopOutIsIncomplete(t *testing.T) {
	h := newHarness(t, levelMode(t, "20L"))
	h.play()
	for y := 1; y < game.Rows; y++ {
		h.s.board.Fill(y, 1, 0)
	}
	h.advance(time.Second)
	h.place(game.KindO)
	h.s.HardDrop()

	require.Len(t, h.results, 1)
	r := h.results[0]
	assert.True(t, r.IsTimeValue)
	assert.False(t, r.Completed)
	assert.Equal(t, int64(1000), r.Value)
}
