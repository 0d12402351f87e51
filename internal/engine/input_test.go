package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/mode"
)

func TestTapMovesOnce(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)

	require.True(t, h.s.MoveRight(true))
	assert.Equal(t, 5, p.X)
	assert.True(t, h.s.MoveRight(false))
	h.advance(300 * time.Millisecond)
	assert.Equal(t, 5, p.X)

	require.True(t, h.s.MoveLeft(true))
	require.True(t, h.s.MoveLeft(false))
	assert.Equal(t, 4, p.X)
}

func TestRepeatedKeyDownIgnored(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)
	require.True(t, h.s.MoveLeft(true))
	assert.False(t, h.s.MoveLeft(true))
	assert.Equal(t, 3, p.X)
}

func TestDASThenInstantShift(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.s.current
	start := minX(p)

	require.True(t, h.s.MoveLeft(true))
	assert.Equal(t, start-1, minX(p))
	h.advance(94 * time.Millisecond)
	assert.Equal(t, start-1, minX(p))
	h.advance(time.Millisecond)
	assert.Equal(t, 0, minX(p))
	assert.False(t, h.s.sched.Pending(slotARR))
}

func TestARRRepeats(t *testing.T) {
	timing := DefaultTiming()
	timing.ARR = 20 * time.Millisecond
	h := newHarness(t, mode.Default(), WithTiming(timing))
	h.play()
	p := h.s.current
	start := minX(p)

	require.True(t, h.s.MoveLeft(true))
	h.advance(95 * time.Millisecond)
	assert.Equal(t, start-1, minX(p))
	h.advance(20 * time.Millisecond)
	assert.Equal(t, start-2, minX(p))
	h.advance(20 * time.Millisecond)
	assert.Equal(t, start-3, minX(p))

	require.True(t, h.s.MoveLeft(false))
	h.advance(100 * time.Millisecond)
	assert.Equal(t, start-3, minX(p))
	assert.False(t, h.s.sched.Pending(slotDAS))
	assert.False(t, h.s.sched.Pending(slotARR))
}

func TestARRStopsAtWall(t *testing.T) {
	timing := DefaultTiming()
	timing.ARR = 20 * time.Millisecond
	h := newHarness(t, mode.Default(), WithTiming(timing))
	h.play()
	p := h.place(game.KindO)

	require.True(t, h.s.MoveLeft(true))
	h.advance(95*time.Millisecond + 5*20*time.Millisecond)
	assert.Equal(t, 0, p.X)
	assert.False(t, h.s.sched.Pending(slotARR))
}

func TestBlockedPressIsNotHeld(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)
	p.X = 0

	assert.False(t, h.s.MoveLeft(true))
	assert.Equal(t, 0, h.s.heldDir)
	assert.False(t, h.s.sched.Pending(slotDAS))
}

func TestOppositeDirectionTakesOver(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)

	require.True(t, h.s.MoveLeft(true))
	require.True(t, h.s.MoveRight(true))
	assert.Equal(t, 4, p.X)
	assert.False(t, h.s.MoveLeft(false))

	h.advance(95 * time.Millisecond)
	assert.Equal(t, game.Cols-2, p.X)
}

func TestSoftDropRepeatsUntilRelease(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)
	y := p.Y

	require.True(t, h.s.SoftDrop(true))
	assert.Equal(t, y+1, p.Y)
	h.advance(30 * time.Millisecond)
	assert.Equal(t, y+4, p.Y)

	require.True(t, h.s.SoftDrop(false))
	assert.False(t, h.s.SoftDrop(false))
	h.advance(100 * time.Millisecond)
	assert.Equal(t, y+4, p.Y)
	assert.Equal(t, 0, h.s.score)
}

func TestSoftDropCancelsLateral(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)

	require.True(t, h.s.MoveLeft(true))
	require.True(t, h.s.SoftDrop(true))
	assert.Equal(t, 0, h.s.heldDir)
	h.advance(200 * time.Millisecond)
	assert.Equal(t, 3, p.X)
}

func TestSoftDropCarriesToNextPiece(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindO)
	require.True(t, h.s.SoftDrop(true))
	h.s.HardDrop()

	require.True(t, h.s.sched.Pending(slotSDR))
	y := h.s.current.Y
	h.advance(20 * time.Millisecond)
	assert.Equal(t, y+2, h.s.current.Y)
}

func TestRotationRestartsHeldRepeat(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	p := h.place(game.KindO)
	require.True(t, h.s.MoveRight(true))
	require.True(t, h.s.sched.Pending(slotDAS))

	require.True(t, h.s.RotateCW())
	assert.Equal(t, game.Cols-2, p.X)
	assert.False(t, h.s.sched.Pending(slotDAS))
}

func TestRotateBlockedReturnsFalse(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	for y := 0; y < game.Rows; y++ {
		h.s.board.Fill(y, 1)
	}
	h.s.board.Fill(11, 1, 3, 4, 5, 6)
	p := h.place(game.KindI)
	p.Y = 10
	before := *p

	assert.False(t, h.s.RotateCW())
	assert.Equal(t, before, *h.s.current)
}

func TestHoldStashesThenSwaps(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.place(game.KindT)
	next := h.s.next

	require.True(t, h.s.Hold())
	snap := h.s.Snapshot()
	require.NotNil(t, snap.Held)
	assert.Equal(t, game.KindT, *snap.Held)
	assert.Equal(t, next, snap.Current.Kind)
	assert.False(t, snap.CanHold)

	assert.False(t, h.s.Hold())

	h.s.HardDrop()
	assert.True(t, h.s.Snapshot().CanHold)
	current := h.s.current.Kind
	require.True(t, h.s.Hold())
	snap = h.s.Snapshot()
	assert.Equal(t, game.KindT, snap.Current.Kind)
	assert.Equal(t, current, *snap.Held)
	assert.Equal(t, game.Spawn(game.KindT).Y, snap.Current.Y)
}

func TestHoldRestartsGravity(t *testing.T) {
	h := newHarness(t, mode.Default())
	h.play()
	h.advance(500 * time.Millisecond)
	require.True(t, h.s.Hold())
	rem, ok := h.s.sched.Remaining(slotGravity)
	require.True(t, ok)
	assert.Equal(t, 600*time.Millisecond, rem)
}
