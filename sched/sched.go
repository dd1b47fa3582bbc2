// Package sched schedules future action dispatches. The engine holds no
// timers; anything time-driven (craft completion, buffs expiring) lives
// here, outside the transition function.
package sched

import (
	"sync"
	"time"

	"github.com/mwynn/realmforge/types"
)

// Dispatcher is the slice of the engine the scheduler needs.
type Dispatcher interface {
	Dispatch(action types.Action) []types.Event
}

// Scheduler dispatches actions after a delay. Pending effects can be
// cancelled; cancelling after the dispatch fired is a no-op.
type Scheduler struct {
	dispatcher Dispatcher

	mu     sync.Mutex
	timers map[int]*time.Timer
	nextID int
	wg     sync.WaitGroup
}

// New builds a scheduler over a dispatcher.
func New(d Dispatcher) *Scheduler {
	return &Scheduler{
		dispatcher: d,
		timers:     map[int]*time.Timer{},
	}
}

// After dispatches the action once the delay elapses and returns a cancel
// func. A non-positive delay dispatches synchronously before returning.
func (s *Scheduler) After(delay time.Duration, action types.Action) (cancel func()) {
	if delay <= 0 {
		s.dispatcher.Dispatch(action)
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID

	s.wg.Add(1)
	timer := time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		_, pending := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()

		if pending {
			s.dispatcher.Dispatch(action)
		}
	})
	s.timers[id] = timer
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		timer, pending := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()

		if pending && timer.Stop() {
			s.wg.Done()
		}
	}
}

// Pending returns the number of scheduled, not-yet-fired effects.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending effect and waits for in-flight dispatches.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, timer := range s.timers {
		delete(s.timers, id)
		if timer.Stop() {
			s.wg.Done()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}
