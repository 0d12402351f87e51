package engine

import (
	"log"
	"time"
)

// Timing holds the input and lock tunables. Zero values are not replaced with
// defaults; start from DefaultTiming and override fields.
type Timing struct {
	DAS           time.Duration // delay before a held direction starts repeating
	ARR           time.Duration // repeat period; 0 shifts to the wall at once
	SDR           time.Duration // soft drop repeat period
	LockDelay     time.Duration
	MaxLockResets int
	ForceLock     time.Duration // ceiling from first grounding to lock
	Ready         time.Duration
	Go            time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		DAS:           95 * time.Millisecond,
		ARR:           0,
		SDR:           10 * time.Millisecond,
		LockDelay:     500 * time.Millisecond,
		MaxLockResets: 15,
		ForceLock:     5000 * time.Millisecond,
		Ready:         800 * time.Millisecond,
		Go:            200 * time.Millisecond,
	}
}

type Option func(*Session)

// WithSeed makes the piece sequence reproducible. Restart reuses the seed.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = seed
		s.seeded = true
	}
}

func WithTiming(t Timing) Option {
	return func(s *Session) { s.timing = t }
}

// WithReporter sets where the final result goes.
func WithReporter(r Reporter) Option {
	return func(s *Session) { s.reporter = r }
}

func WithUsername(name string) Option {
	return func(s *Session) { s.username = name }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStart sets the clock reading the session starts from. Defaults to
// time.Now().
func WithStart(t time.Time) Option {
	return func(s *Session) { s.start = t }
}
