package engine

func (s *Session) startGravity() {
	s.sched.Every(slotGravity, s.dropInterval, s.gravityStep)
}

func (s *Session) gravityStep() {
	s.stepDown(false)
}

// stepDown moves the active piece one row down. When gravity cannot move it
// the piece becomes grounded and the lock timers start; a failed soft drop
// step does nothing.
func (s *Session) stepDown(manual bool) bool {
	if !s.playing() {
		return false
	}
	moved := s.current.Moved(0, 1)
	if s.board.IsValidPlacement(moved) {
		*s.current = moved
		if s.grounded {
			s.unground()
		}
		return true
	}
	if manual {
		return false
	}
	switch {
	case !s.grounded:
		s.grounded = true
		s.lockResets = 0
		s.startLockDelay()
		s.startForceLock()
	case !s.sched.Pending(slotForceLock):
		s.startForceLock()
	}
	return false
}

func (s *Session) unground() {
	s.grounded = false
	s.lockResets = 0
	s.sched.Cancel(slotLockDelay, slotForceLock)
}

func (s *Session) startLockDelay() {
	s.sched.After(slotLockDelay, s.timing.LockDelay, s.settle)
}

func (s *Session) startForceLock() {
	s.sched.After(slotForceLock, s.timing.ForceLock, s.settle)
}

// resetLockDelay restarts a running lock delay after a successful move or
// rotation, up to MaxLockResets times per grounding.
func (s *Session) resetLockDelay() {
	if !s.grounded || !s.sched.Pending(slotLockDelay) {
		return
	}
	if s.lockResets >= s.timing.MaxLockResets {
		return
	}
	s.lockResets++
	s.startLockDelay()
}

// settle runs when a lock timer expires: lock if the piece still rests on
// something, otherwise let it fall again.
func (s *Session) settle() {
	if !s.playing() {
		return
	}
	if s.board.IsValidPlacement(s.current.Moved(0, 1)) {
		s.unground()
		return
	}
	s.lock()
}

// HardDrop drops the active piece to the lowest valid row and locks it.
func (s *Session) HardDrop() bool {
	if !s.playing() {
		return false
	}
	s.sched.CancelAll()
	s.current.Y = s.board.LowestValidRow(*s.current)
	s.lock()
	return true
}

// lock merges the active piece, clears rows, applies scoring and spawns the
// next piece. It completes before any other timer can run.
func (s *Session) lock() {
	p := *s.current
	s.sched.CancelAll()
	s.grounded, s.lockResets = false, 0
	s.current = nil

	lockOut := p.AboveSkyline()
	s.board.Merge(p)
	s.pieces++
	if lockOut {
		s.gameOver(ReasonLockOut)
		return
	}

	s.applyClear(s.board.ClearFullRows())
	if s.cfg.Complete(s.lines) {
		s.gameOver(ReasonGoalReached)
		return
	}

	s.canHold = true
	if !s.spawnNext() {
		return
	}
	s.startGravity()
	s.resumeInputs()
}

func (s *Session) applyClear(n int) {
	if n <= 0 {
		return
	}
	s.score += s.cfg.Points(n, s.level)
	s.lines += n
	if level := s.cfg.LevelFor(s.lines); level != s.level {
		s.level = level
		s.dropInterval = s.cfg.DropIntervalFor(level)
	}
}
