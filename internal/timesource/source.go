// Package timesource owns the single "currently selected instant": either the
// live clock or an instant pinned by the user.
//
// Transitions:
//
//	LIVE   --PinTo-->       PINNED
//	PINNED --PinTo-->       PINNED
//	PINNED --ResetToLive--> LIVE
//	LIVE   --ResetToLive--> LIVE
//	LIVE   --Tick-->        LIVE    (emits a change)
//	PINNED --Tick-->        PINNED  (no-op)
package timesource

import (
	"sync"
	"time"
)

// Mode is the selection mode.
type Mode int

const (
	// Live tracks the clock.
	Live Mode = iota
	// Pinned is frozen at a user-chosen instant.
	Pinned
)

func (m Mode) String() string {
	if m == Pinned {
		return "pinned"
	}
	return "live"
}

// State is a snapshot of the selection.
type State struct {
	Instant time.Time
	Pinned  bool
}

// Mode returns Pinned or Live.
func (s State) Mode() Mode {
	if s.Pinned {
		return Pinned
	}
	return Live
}

// Reason names the transition that produced a Change.
type Reason string

const (
	ReasonPin   Reason = "pin"
	ReasonReset Reason = "reset"
	ReasonTick  Reason = "tick"
)

// Change is emitted to subscribers after every transition that alters what
// should be displayed.
type Change struct {
	State  State
	Reason Reason
}

type subscriber struct {
	id int
	fn func(Change)
}

// Source holds the selection. Safe for concurrent use; subscribers are called
// synchronously, in subscription order, after the state lock is released.
type Source struct {
	mu     sync.Mutex
	clock  Clock
	state  State
	subs   []subscriber
	nextID int
}

// New creates a Source in the live state at clock.Now().
func New(clock Clock) *Source {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Source{
		clock: clock,
		state: State{Instant: clock.Now(), Pinned: false},
	}
}

// PinTo freezes the selection at date combined with the time of day of
// preserveFrom, so picking a date does not stop the clock face.
func (s *Source) PinTo(date CalendarDate, preserveFrom time.Time) Change {
	return s.transition(State{Instant: date.At(preserveFrom), Pinned: true}, ReasonPin)
}

// PinInstant freezes the selection at exactly t.
func (s *Source) PinInstant(t time.Time) Change {
	return s.transition(State{Instant: t, Pinned: true}, ReasonPin)
}

// ResetToLive returns to tracking the clock. Idempotent.
func (s *Source) ResetToLive() Change {
	return s.transition(State{Instant: s.clock.Now(), Pinned: false}, ReasonReset)
}

// Tick refreshes a live selection from the clock and reports true. A pinned
// selection never drifts: Tick returns false and notifies nobody. The pinned
// check and the write happen under one lock, so a concurrent pin always wins.
func (s *Source) Tick() (Change, bool) {
	now := s.clock.Now()

	s.mu.Lock()
	if s.state.Pinned {
		st := s.state
		s.mu.Unlock()
		return Change{State: st, Reason: ReasonTick}, false
	}
	s.state = State{Instant: now, Pinned: false}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	return notify(subs, Change{State: State{Instant: now}, Reason: ReasonTick}), true
}

// Current returns the instant to render. When live, the clock is read now
// rather than returning the instant cached by the last Tick.
func (s *Source) Current() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Pinned {
		return s.state.Instant
	}
	return s.clock.Now()
}

// State returns a snapshot of the selection.
func (s *Source) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the current selection mode.
func (s *Source) Mode() Mode {
	return s.State().Mode()
}

// Subscribe registers fn to receive every Change. The returned func removes it.
func (s *Source) Subscribe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Source) transition(next State, reason Reason) Change {
	s.mu.Lock()
	s.state = next
	subs := s.subscribersLocked()
	s.mu.Unlock()

	return notify(subs, Change{State: next, Reason: reason})
}

// subscribersLocked copies the subscriber list; s.mu must be held.
func (s *Source) subscribersLocked() []subscriber {
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	return subs
}

func notify(subs []subscriber, c Change) Change {
	for _, sub := range subs {
		sub.fn(c)
	}
	return c
}
