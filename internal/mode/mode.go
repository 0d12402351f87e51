// Package mode holds the game mode presets and the rules that differ between
// them: gravity speed, scoring and the sprint line goal.
package mode

import (
	"fmt"
	"strings"
	"time"
)

type Type int

const (
	// TypeLevel speeds up every LinesPerLevel lines and scores clears.
	TypeLevel Type = iota
	// TypeSprint runs at a fixed speed until LineGoal lines are cleared; the
	// result is the elapsed time.
	TypeSprint
)

func (t Type) String() string {
	if t == TypeSprint {
		return "sprint"
	}
	return "level"
}

const (
	LinesPerLevel   = 10
	MinDropInterval = 100 * time.Millisecond
	SprintInterval  = 900 * time.Millisecond
	DefaultKey      = "medium"
)

// Points awarded per clear before the level multiplier, indexed by rows cleared.
var linePoints = [5]int{0, 100, 300, 500, 800}

type Config struct {
	Key            string
	Name           string
	Type           Type
	DropInterval   time.Duration
	SpeedIncrement time.Duration
	LineGoal       int
}

var presets = []Config{
	{Key: "easy", Name: "Easy", Type: TypeLevel, DropInterval: 800 * time.Millisecond, SpeedIncrement: 50 * time.Millisecond},
	{Key: "medium", Name: "Medium", Type: TypeLevel, DropInterval: 600 * time.Millisecond, SpeedIncrement: 40 * time.Millisecond},
	{Key: "hard", Name: "Hard", Type: TypeLevel, DropInterval: 400 * time.Millisecond, SpeedIncrement: 30 * time.Millisecond},
	sprint(20),
	sprint(40),
	sprint(100),
	sprint(1000),
}

func sprint(goal int) Config {
	return Config{
		Key:          fmt.Sprintf("%dL", goal),
		Name:         fmt.Sprintf("%d Lines", goal),
		Type:         TypeSprint,
		DropInterval: SprintInterval,
		LineGoal:     goal,
	}
}

// Keys returns the preset keys in menu order.
func Keys() []string {
	keys := make([]string, len(presets))
	for i, p := range presets {
		keys[i] = p.Key
	}
	return keys
}

// All returns a copy of every preset in menu order.
func All() []Config {
	out := make([]Config, len(presets))
	copy(out, presets)
	return out
}

// Lookup finds a preset by key, ignoring case.
func Lookup(key string) (Config, bool) {
	key = strings.TrimSpace(key)
	for _, p := range presets {
		if strings.EqualFold(p.Key, key) {
			return p, true
		}
	}
	return Config{}, false
}

// Default returns the medium preset.
func Default() Config {
	c, _ := Lookup(DefaultKey)
	return c
}

// Resolve is Lookup with a fallback: an unknown key yields the medium preset
// and ok=false so the caller can warn about it.
func Resolve(key string) (Config, bool) {
	if c, ok := Lookup(key); ok {
		return c, true
	}
	return Default(), false
}

func (c Config) IsSprint() bool {
	return c.Type == TypeSprint
}

// LevelFor returns the level reached after clearing lines. Sprints stay on
// level 1.
func (c Config) LevelFor(lines int) int {
	if c.IsSprint() || lines < 0 {
		return 1
	}
	return lines/LinesPerLevel + 1
}

// DropIntervalFor returns the gravity period at level, never faster than
// MinDropInterval.
func (c Config) DropIntervalFor(level int) time.Duration {
	if c.IsSprint() {
		return c.DropInterval
	}
	if level < 1 {
		level = 1
	}
	d := c.DropInterval - time.Duration(level-1)*c.SpeedIncrement
	return max(d, MinDropInterval)
}

// Points returns the score for clearing n rows at once on level.
func (c Config) Points(n, level int) int {
	if c.IsSprint() || n <= 0 {
		return 0
	}
	n = min(n, len(linePoints)-1)
	return linePoints[n] * level
}

// Complete reports whether a sprint has reached its goal. Level mode never
// completes.
func (c Config) Complete(lines int) bool {
	return c.IsSprint() && lines >= c.LineGoal
}

// Remaining returns the lines left in a sprint, clamped at zero.
func (c Config) Remaining(lines int) int {
	if !c.IsSprint() {
		return 0
	}
	return max(c.LineGoal-lines, 0)
}

// FormatElapsed renders d as mm:ss.cc.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := int64(d / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
