package engine

import "github.com/hersh/blockstack/internal/game"

const (
	left  = -1
	right = 1
)

// MoveLeft handles the left key going down or up. On press the piece shifts
// once and auto-repeat arms after DAS.
func (s *Session) MoveLeft(down bool) bool {
	return s.direction(left, down)
}

func (s *Session) MoveRight(down bool) bool {
	return s.direction(right, down)
}

func (s *Session) direction(dir int, down bool) bool {
	if !s.playing() {
		return false
	}
	if !down {
		if s.heldDir != dir {
			return false
		}
		s.heldDir = 0
		s.sched.Cancel(slotDAS, slotARR)
		return true
	}
	if s.heldDir == dir {
		return false
	}
	s.sched.Cancel(slotDAS, slotARR, slotSDR)
	s.softDropping = false
	if !s.shift(dir) {
		s.heldDir = 0
		return false
	}
	s.heldDir = dir
	s.sched.After(slotDAS, s.timing.DAS, s.autoRepeat)
	return true
}

func (s *Session) shift(dx int) bool {
	moved := s.current.Moved(dx, 0)
	if !s.board.IsValidPlacement(moved) {
		return false
	}
	*s.current = moved
	s.resetLockDelay()
	return true
}

// autoRepeat starts ARR for the held direction. With ARR at zero the piece
// slides to the wall at once.
func (s *Session) autoRepeat() {
	dir := s.heldDir
	if dir == 0 || !s.playing() {
		return
	}
	if s.timing.ARR <= 0 {
		for s.shift(dir) {
		}
		return
	}
	s.sched.Every(slotARR, s.timing.ARR, func() {
		if !s.playing() || s.heldDir != dir || !s.shift(dir) {
			s.sched.Cancel(slotARR)
		}
	})
}

// SoftDrop handles the down key. While held the piece steps down every SDR;
// soft drop never starts the lock delay.
func (s *Session) SoftDrop(down bool) bool {
	if !s.playing() {
		return false
	}
	if !down {
		if !s.softDropping {
			return false
		}
		s.softDropping = false
		s.sched.Cancel(slotSDR)
		return true
	}
	if s.softDropping {
		return false
	}
	s.sched.Cancel(slotDAS, slotARR)
	s.heldDir = 0
	s.softDropping = true
	s.stepDown(true)
	s.startSoftDrop()
	return true
}

func (s *Session) startSoftDrop() {
	s.sched.Every(slotSDR, s.timing.SDR, func() { s.stepDown(true) })
}

func (s *Session) RotateCW() bool {
	return s.rotate(game.Clockwise)
}

func (s *Session) RotateCCW() bool {
	return s.rotate(game.CounterClockwise)
}

func (s *Session) rotate(dir game.Direction) bool {
	if !s.playing() {
		return false
	}
	p, kick, ok := game.TryRotate(s.board, *s.current, dir)
	if !ok {
		return false
	}
	*s.current = p
	if kick.DY < 0 {
		s.unground()
	} else {
		s.resetLockDelay()
		s.sched.Cancel(slotForceLock)
	}
	s.sched.Cancel(slotDAS, slotARR)
	if s.heldDir != 0 {
		s.autoRepeat()
	}
	return true
}

// resumeInputs re-arms repeat for keys still held when a new piece spawns.
func (s *Session) resumeInputs() {
	switch {
	case s.softDropping:
		s.startSoftDrop()
	case s.heldDir != 0:
		s.sched.After(slotDAS, s.timing.DAS, s.autoRepeat)
	}
}
