package mode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIgnoresCase(t *testing.T) {
	c, ok := Lookup("40l")
	require.True(t, ok)
	assert.Equal(t, "40L", c.Key)
	assert.Equal(t, 40, c.LineGoal)
	assert.True(t, c.IsSprint())

	c, ok = Lookup("HARD")
	require.True(t, ok)
	assert.Equal(t, 400*time.Millisecond, c.DropInterval)
}

func TestResolveFallsBackToMedium(t *testing.T) {
	c, ok := Resolve("marathon")
	assert.False(t, ok)
	assert.Equal(t, "medium", c.Key)
	assert.Equal(t, 600*time.Millisecond, c.DropInterval)
	assert.Equal(t, 40*time.Millisecond, c.SpeedIncrement)

	_, ok = Resolve("easy")
	assert.True(t, ok)
}

func TestKeysMenuOrder(t *testing.T) {
	assert.Equal(t, []string{"easy", "medium", "hard", "20L", "40L", "100L", "1000L"}, Keys())
}

func TestLevelFor(t *testing.T) {
	c := Default()
	assert.Equal(t, 1, c.LevelFor(0))
	assert.Equal(t, 1, c.LevelFor(9))
	assert.Equal(t, 2, c.LevelFor(10))
	assert.Equal(t, 4, c.LevelFor(35))

	s, _ := Lookup("40L")
	assert.Equal(t, 1, s.LevelFor(35))
}

func TestDropIntervalCurve(t *testing.T) {
	easy, _ := Lookup("easy")
	assert.Equal(t, 800*time.Millisecond, easy.DropIntervalFor(1))
	assert.Equal(t, 750*time.Millisecond, easy.DropIntervalFor(2))
	assert.Equal(t, 100*time.Millisecond, easy.DropIntervalFor(15))
	assert.Equal(t, 100*time.Millisecond, easy.DropIntervalFor(40))

	s, _ := Lookup("20L")
	assert.Equal(t, SprintInterval, s.DropIntervalFor(9))
}

func TestPoints(t *testing.T) {
	c := Default()
	assert.Equal(t, 0, c.Points(0, 3))
	assert.Equal(t, 100, c.Points(1, 1))
	assert.Equal(t, 900, c.Points(2, 3))
	assert.Equal(t, 1000, c.Points(3, 2))
	assert.Equal(t, 800, c.Points(4, 1))

	s, _ := Lookup("20L")
	assert.Equal(t, 0, s.Points(4, 1))
}

func TestSprintProgress(t *testing.T) {
	s, _ := Lookup("20L")
	assert.False(t, s.Complete(19))
	assert.True(t, s.Complete(20))
	assert.True(t, s.Complete(23))
	assert.Equal(t, 5, s.Remaining(15))
	assert.Equal(t, 0, s.Remaining(23))

	assert.False(t, Default().Complete(1000))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00.00", FormatElapsed(0))
	assert.Equal(t, "01:05.43", FormatElapsed(65*time.Second+437*time.Millisecond))
	assert.Equal(t, "00:00.00", FormatElapsed(-time.Second))
}
