// Package engine runs one game: the lifecycle state machine, gravity and
// lock timing, input repeat, hold and scoring.
//
// A Session is single-threaded. Callers drive it with intents and Advance and
// must serialize those calls themselves; nothing inside starts a goroutine.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/hersh/blockstack/internal/game"
	"github.com/hersh/blockstack/internal/mode"
	"github.com/hersh/blockstack/internal/schedule"
)

type State int

const (
	StateCountdown State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Phase is the countdown step shown before play starts.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseReady
	PhaseGo
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseGo:
		return "go"
	}
	return ""
}

type GameOverReason int

const (
	ReasonNone GameOverReason = iota
	// ReasonLockOut: a piece locked with a cell above the visible board.
	ReasonLockOut
	// ReasonBlockOut: a new piece had nowhere to spawn.
	ReasonBlockOut
	// ReasonGoalReached: a sprint cleared its line goal.
	ReasonGoalReached
)

func (r GameOverReason) String() string {
	switch r {
	case ReasonLockOut:
		return "lock_out"
	case ReasonBlockOut:
		return "block_out"
	case ReasonGoalReached:
		return "goal_reached"
	}
	return ""
}

const (
	slotCountdown schedule.Slot = iota
	slotGravity
	slotLockDelay
	slotForceLock
	slotDAS
	slotARR
	slotSDR
)

type Session struct {
	cfg      mode.Config
	timing   Timing
	username string
	seed     int64
	seeded   bool
	reporter Reporter
	logger   *log.Logger
	start    time.Time

	sched *schedule.Scheduler
	board *game.Board
	bag   *game.Bag

	state      State
	phase      Phase
	pausedFrom State
	reason     GameOverReason

	current *game.Piece
	next    game.Kind
	held    game.Kind
	hasHeld bool
	canHold bool

	score        int
	level        int
	lines        int
	pieces       int
	dropInterval time.Duration

	startedAt    time.Time
	pausedAt     time.Time
	finalElapsed time.Duration
	frozen       schedule.Frozen

	grounded   bool
	lockResets int

	heldDir      int
	softDropping bool

	reported bool
	result   *Result
}

// New builds a session for cfg. Call Start to begin the countdown.
func New(cfg mode.Config, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		timing: DefaultTiming(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.start.IsZero() {
		s.start = time.Now()
	}
	if !s.seeded {
		s.seed = s.start.UnixNano()
	}
	s.sched = schedule.New(s.start)
	s.reset()
	return s
}

func (s *Session) reset() {
	s.sched.CancelAll()
	s.board = game.NewBoard()
	s.bag = game.NewBag(s.seed)
	s.current = nil
	s.next = s.bag.Next()
	s.held, s.hasHeld, s.canHold = 0, false, true

	s.score, s.lines, s.pieces = 0, 0, 0
	s.level = 1
	s.dropInterval = s.cfg.DropIntervalFor(1)

	s.state = StateCountdown
	s.phase = PhaseNone
	s.reason = ReasonNone
	s.startedAt = s.sched.Now()
	s.finalElapsed = 0
	s.frozen = schedule.Frozen{}

	s.grounded, s.lockResets = false, 0
	s.heldDir, s.softDropping = 0, false
	s.reported, s.result = false, nil
}

// Start discards any game in progress and begins the countdown.
func (s *Session) Start() {
	s.reset()
	s.phase = PhaseReady
	s.sched.After(slotCountdown, s.timing.Ready, func() {
		s.phase = PhaseGo
		s.sched.After(slotCountdown, s.timing.Go, s.begin)
	})
}

// SetUsername changes the name carried by later results.
func (s *Session) SetUsername(name string) {
	s.username = name
}

// Restart switches to cfg and starts over.
func (s *Session) Restart(cfg mode.Config) {
	s.cfg = cfg
	if !s.seeded {
		s.seed = s.sched.Now().UnixNano()
	}
	s.Start()
}

func (s *Session) begin() {
	s.phase = PhaseNone
	s.state = StatePlaying
	s.startedAt = s.sched.Now()
	if !s.spawnNext() {
		return
	}
	s.startGravity()
}

// Advance moves the session clock to now, running every timer that falls due.
func (s *Session) Advance(now time.Time) {
	s.sched.Advance(now)
}

// Now returns the session clock.
func (s *Session) Now() time.Time {
	return s.sched.Now()
}

func (s *Session) State() State { return s.state }

func (s *Session) Mode() mode.Config { return s.cfg }

func (s *Session) playing() bool {
	return s.state == StatePlaying && s.current != nil
}

// Elapsed returns the un-paused play time.
func (s *Session) Elapsed() time.Duration {
	return s.elapsedAt(s.sched.Now())
}

func (s *Session) elapsedAt(now time.Time) time.Duration {
	switch s.state {
	case StateCountdown:
		return 0
	case StatePaused:
		if s.pausedFrom != StatePlaying {
			return 0
		}
		return s.pausedAt.Sub(s.startedAt)
	case StateGameOver:
		return s.finalElapsed
	}
	return now.Sub(s.startedAt)
}

// Pause freezes every timer and the elapsed clock. It drops held keys, so
// directions must be pressed again after Resume.
func (s *Session) Pause() bool {
	if s.state != StatePlaying && s.state != StateCountdown {
		return false
	}
	s.releaseInputs()
	s.pausedFrom = s.state
	s.pausedAt = s.sched.Now()
	s.frozen = s.sched.Freeze()
	s.state = StatePaused
	return true
}

func (s *Session) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	now := s.sched.Now()
	if s.pausedFrom == StatePlaying {
		s.startedAt = s.startedAt.Add(now.Sub(s.pausedAt))
	}
	s.state = s.pausedFrom
	if s.state == StateCountdown {
		s.sched.Thaw(s.frozen, slotCountdown)
	} else {
		s.sched.Thaw(s.frozen, slotGravity, slotLockDelay, slotForceLock)
	}
	s.frozen = schedule.Frozen{}
	return true
}

func (s *Session) releaseInputs() {
	s.sched.Cancel(slotDAS, slotARR, slotSDR)
	s.heldDir = 0
	s.softDropping = false
}

func (s *Session) gameOver(reason GameOverReason) {
	s.finalElapsed = s.elapsedAt(s.sched.Now())
	s.sched.CancelAll()
	s.heldDir, s.softDropping = 0, false
	s.grounded = false
	s.state = StateGameOver
	s.phase = PhaseNone
	s.reason = reason
	s.logger.Printf("engine: game over (%s) mode=%s score=%d lines=%d elapsed=%s",
		reason, s.cfg.Key, s.score, s.lines, mode.FormatElapsed(s.finalElapsed))
	s.report()
}

// spawnNext promotes the next kind to the active piece and draws a new next.
func (s *Session) spawnNext() bool {
	kind := s.next
	s.next = s.bag.Next()
	return s.spawn(kind)
}

// spawn places kind at its spawn position, or one row higher. A spawn with
// no cell on the visible board counts as blocked.
func (s *Session) spawn(kind game.Kind) bool {
	s.grounded, s.lockResets = false, 0
	for _, p := range game.SpawnCandidates(kind) {
		if s.board.IsValidPlacement(p) && p.Visible() {
			piece := p
			s.current = &piece
			return true
		}
	}
	s.current = nil
	s.gameOver(ReasonBlockOut)
	return false
}

// Hold swaps the active piece with the held one, or stashes it and takes the
// next piece. Allowed once per spawned piece.
func (s *Session) Hold() bool {
	if !s.playing() || !s.canHold {
		return false
	}
	s.sched.CancelAll()
	kind := s.current.Kind
	s.canHold = false
	var ok bool
	if s.hasHeld {
		swap := s.held
		s.held = kind
		ok = s.spawn(swap)
	} else {
		s.held, s.hasHeld = kind, true
		ok = s.spawnNext()
	}
	if !ok {
		return true
	}
	s.startGravity()
	s.resumeInputs()
	return true
}
