package engine

import (
	"sync"
	"testing"

	"github.com/mwynn/realmforge/types"
)

func TestEngine_DispatchUpdatesState(t *testing.T) {
	e := NewFromState(testState())

	events := e.Dispatch(types.GainExperience{Amount: 100})
	if !hasEvent(events, types.EventExperienceGained) {
		t.Errorf("expected experience_gained event, got %v", events)
	}
	if got := e.State().Player.Experience; got != 100 {
		t.Errorf("expected 100 xp, got %d", got)
	}
}

func TestEngine_SubscriberSeesEventsInOrder(t *testing.T) {
	e := NewFromState(testState())

	var seen []types.EventType
	e.Subscribe(func(ev types.Event) {
		seen = append(seen, ev.Type)
	})

	e.Dispatch(types.GainExperience{Amount: 950})
	e.Dispatch(types.GainExperience{Amount: 100})

	want := []types.EventType{
		types.EventExperienceGained,
		types.EventExperienceGained,
		types.EventLevelUp,
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], seen[i])
		}
	}
}

func TestEngine_RejectionLeavesStateUnchanged(t *testing.T) {
	start := testState()
	start.Player.Tokens = 10
	e := NewFromState(start)

	events := e.Dispatch(types.PurchaseItem{ItemID: "nft1"})
	if !hasEvent(events, types.EventActionRejected) {
		t.Fatalf("expected action_rejected, got %v", events)
	}
	after := e.State()
	if after.Player.Tokens != 10 || len(after.Inventory) != 3 {
		t.Errorf("expected snapshot unchanged after rejection, got %+v", after.Player)
	}
}

func TestEngine_ConcurrentDispatchesSerialize(t *testing.T) {
	e := NewFromState(testState())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Dispatch(types.GainExperience{Amount: 10})
		}()
	}
	wg.Wait()

	if got := e.State().Player.Experience; got != 500 {
		t.Errorf("expected 500 xp after 50 dispatches, got %d", got)
	}
}

func TestEngine_SnapshotIsolation(t *testing.T) {
	e := NewFromState(testState())

	snap := e.State()
	e.Dispatch(types.RemoveItem{ItemID: "sword1"})

	if len(snap.Inventory) != 3 {
		t.Errorf("expected earlier snapshot to keep 3 items, got %d", len(snap.Inventory))
	}
	if len(e.State().Inventory) != 2 {
		t.Errorf("expected live state to have 2 items, got %d", len(e.State().Inventory))
	}
}
