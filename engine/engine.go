package engine

import (
	"sync"

	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/types"
)

// Subscriber receives every event produced by a dispatch, in the order the
// transitions committed. Callbacks run synchronously on the dispatching
// goroutine; slow subscribers slow dispatch down.
type Subscriber func(types.Event)

// Engine holds the single authoritative snapshot. All mutation funnels
// through Dispatch, which serializes transitions so that two concurrent
// actions can never interleave their reads and writes.
type Engine struct {
	dispatchMu sync.Mutex // held across apply + notify, keeps event order = commit order

	stateMu sync.RWMutex
	state   types.GameState

	subMu sync.Mutex
	subs  []Subscriber
}

// New builds an engine from compiled world definitions and balance numbers.
func New(defs *state.Defs, bal types.Balance) *Engine {
	return &Engine{state: state.New(defs, bal)}
}

// NewFromState builds an engine around an existing snapshot. Used by tests
// and by callers that assemble state without a world definition.
func NewFromState(s types.GameState) *Engine {
	return &Engine{state: s}
}

// State returns the current snapshot. Snapshots are copy-on-write: the
// caller can read it freely while dispatches continue.
func (e *Engine) State() types.GameState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

// Dispatch applies one action atomically and returns the events it
// produced. A rejected action leaves the snapshot unchanged and reports
// the rejection as an event.
func (e *Engine) Dispatch(action types.Action) []types.Event {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()

	next, events := Apply(e.State(), action)

	e.stateMu.Lock()
	e.state = next
	e.stateMu.Unlock()

	e.subMu.Lock()
	subs := e.subs
	e.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
	return events
}

// Subscribe registers a callback for all future events.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subs = append(e.subs, fn)
}
