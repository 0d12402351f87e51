// Package schedule runs named timers against a virtual clock.
//
// A Scheduler owns at most one timer per Slot. Time only moves when the owner
// calls Advance, so every callback runs on the caller's goroutine and finishes
// before the next one fires.
package schedule

import (
	"slices"
	"time"

	"github.com/kamstrup/intmap"
)

// Slot names one timing concern. Scheduling into an occupied slot replaces
// the timer already there.
type Slot int

// MinInterval is the shortest period accepted by Every.
const MinInterval = time.Millisecond

type timer struct {
	deadline time.Time
	interval time.Duration
	seq      uint64
	fn       func()
}

type Scheduler struct {
	now    time.Time
	timers *intmap.Map[Slot, *timer]
	seq    uint64
}

func New(start time.Time) *Scheduler {
	return &Scheduler{
		now:    start,
		timers: intmap.New[Slot, *timer](8),
	}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After runs fn once, d from now.
func (s *Scheduler) After(slot Slot, d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.put(slot, &timer{deadline: s.now.Add(d), fn: fn})
}

// Every runs fn each interval, first at now+interval.
func (s *Scheduler) Every(slot Slot, interval time.Duration, fn func()) {
	if interval < MinInterval {
		interval = MinInterval
	}
	s.put(slot, &timer{deadline: s.now.Add(interval), interval: interval, fn: fn})
}

func (s *Scheduler) put(slot Slot, t *timer) {
	s.seq++
	t.seq = s.seq
	s.timers.Put(slot, t)
}

// Cancel removes the timers in the given slots. Empty slots are ignored.
func (s *Scheduler) Cancel(slots ...Slot) {
	for _, slot := range slots {
		s.timers.Del(slot)
	}
}

// CancelAll removes every timer.
func (s *Scheduler) CancelAll() {
	s.timers.Clear()
}

// Pending reports whether slot holds a timer.
func (s *Scheduler) Pending(slot Slot) bool {
	_, ok := s.timers.Get(slot)
	return ok
}

// Remaining returns the time until slot next fires.
func (s *Scheduler) Remaining(slot Slot) (time.Duration, bool) {
	t, ok := s.timers.Get(slot)
	if !ok {
		return 0, false
	}
	return t.deadline.Sub(s.now), true
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	return s.timers.Len()
}

// Advance moves the clock to `to`, firing every timer that falls due on the
// way in deadline order. Timers sharing a deadline fire in the order they were
// scheduled. Callbacks see Now() equal to their own deadline and may schedule
// or cancel freely; newly scheduled timers that fall due before `to` fire in
// the same call. Advance returns the number of callbacks run. A `to` earlier
// than Now() fires nothing.
func (s *Scheduler) Advance(to time.Time) int {
	fired := 0
	for {
		slot, t, ok := s.earliest(to)
		if !ok {
			break
		}
		s.now = t.deadline
		if t.interval > 0 {
			t.deadline = t.deadline.Add(t.interval)
			s.seq++
			t.seq = s.seq
		} else {
			s.timers.Del(slot)
		}
		fired++
		t.fn()
	}
	if to.After(s.now) {
		s.now = to
	}
	return fired
}

func (s *Scheduler) earliest(limit time.Time) (Slot, *timer, bool) {
	var (
		bestSlot Slot
		best     *timer
	)
	s.timers.ForEach(func(slot Slot, t *timer) bool {
		if t.deadline.After(limit) {
			return true
		}
		if best == nil || t.deadline.Before(best.deadline) ||
			(t.deadline.Equal(best.deadline) && t.seq < best.seq) {
			bestSlot, best = slot, t
		}
		return true
	})
	return bestSlot, best, best != nil
}

// Frozen is the set of timers captured by Freeze, each with the time it had
// left to run.
type Frozen struct {
	entries []frozenTimer
}

type frozenTimer struct {
	slot      Slot
	remaining time.Duration
	interval  time.Duration
	seq       uint64
	fn        func()
}

// Freeze cancels every timer and returns them with their remaining time.
func (s *Scheduler) Freeze() Frozen {
	var f Frozen
	s.timers.ForEach(func(slot Slot, t *timer) bool {
		f.entries = append(f.entries, frozenTimer{
			slot:      slot,
			remaining: max(t.deadline.Sub(s.now), 0),
			interval:  t.interval,
			seq:       t.seq,
			fn:        t.fn,
		})
		return true
	})
	slices.SortFunc(f.entries, func(a, b frozenTimer) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	s.timers.Clear()
	return f
}

// Thaw re-arms frozen timers relative to Now(), keeping their remaining time
// and period. With no slots given every frozen timer is restored; otherwise
// only the listed ones.
func (s *Scheduler) Thaw(f Frozen, slots ...Slot) {
	for _, e := range f.entries {
		if len(slots) > 0 && !slices.Contains(slots, e.slot) {
			continue
		}
		s.put(e.slot, &timer{
			deadline: s.now.Add(e.remaining),
			interval: e.interval,
			fn:       e.fn,
		})
	}
}
