// Package screens holds one controller per app screen. A controller owns the
// screen state, issues the API call of each user action and reports
// navigation and notices through injected effects.
package screens

import (
	"sync"
	"sync/atomic"
)

type Phase int

const (
	// PhaseIdle is a form that has not been submitted yet.
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
	PhaseReady
	// PhaseEmpty is Ready with an empty list.
	PhaseEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// State is what a screen renders. Message is set in PhaseError.
type State[T any] struct {
	Phase   Phase
	Message string
	Data    T
}

func loading[T any]() State[T] { return State[T]{Phase: PhaseLoading} }

func failed[T any](msg string) State[T] { return State[T]{Phase: PhaseError, Message: msg} }

func ready[T any](data T) State[T] { return State[T]{Phase: PhaseReady, Data: data} }

func readyList[E any](items []E) State[[]E] {
	if len(items) == 0 {
		return State[[]E]{Phase: PhaseEmpty, Data: items}
	}
	return ready(items)
}

// screen is embedded by every controller. It serialises actions (one call in
// flight per screen) and drops every effect once Close was called.
type screen[T any] struct {
	env *Env

	mu    sync.Mutex
	state State[T]

	busy   atomic.Bool
	closed atomic.Bool
}

func (s *screen[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close marks the screen as gone. Results of calls still in flight are discarded.
func (s *screen[T]) Close() { s.closed.Store(true) }

func (s *screen[T]) begin() bool {
	if s.closed.Load() {
		return false
	}
	return s.busy.CompareAndSwap(false, true)
}

func (s *screen[T]) end() { s.busy.Store(false) }

func (s *screen[T]) set(st State[T]) State[T] {
	if s.closed.Load() {
		return st
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return st
}

func (s *screen[T]) navigate(r Route) {
	if !s.closed.Load() {
		s.env.Nav.Navigate(r)
	}
}

func (s *screen[T]) notify(msg string) {
	if !s.closed.Load() {
		s.env.Notifier.Notify(msg)
	}
}
