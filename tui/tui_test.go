package tui

import (
	"strings"
	"testing"

	"github.com/mwynn/realmforge/balance"
	"github.com/mwynn/realmforge/cli"
	"github.com/mwynn/realmforge/engine"
	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Inventory:", kindHeader},
		{"Quests:", kindHeader},
		{"Marketplace:", kindHeader},
		{"[Trace output enabled.]", kindSystem},
		{"[trace] level_up map[]", kindTrace},
		{"Can't do that: not enough tokens.", kindError},
		{"You don't hold \"nft1\".", kindError},
		{"Unknown command: dance. Type /help for commands.", kindError},
		{"Level up! You are now level 2 (+1 skill points).", kindHighlight},
		{"Quest complete: Slay the Goblins! Claim your rewards.", kindHighlight},
		{"New quest: Rare Herbs.", kindHighlight},
		{"You gain 40 experience (40 total).", kindText},
		{"", kindText},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The mists part and the realm of Eldoria stretches before you.", 30,
			"The mists part and the realm\nof Eldoria stretches before\nyou."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("fight goblin1")
	h.Push("claim quest1")

	prev, ok := h.Prev()
	if !ok || prev != "claim quest1" {
		t.Errorf("expected 'claim quest1', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "fight goblin1" {
		t.Errorf("expected 'fight goblin1', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("fight goblin1")

	h.Prev() // "fight goblin1"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "fight goblin1" {
		t.Errorf("expected 'fight goblin1', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Prev()
	if ok {
		t.Error("expected false on empty history")
	}
	_, ok = h.Next()
	if ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	// "a" is gone.
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look") // skipped
	h.Push("look") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("fight goblin1")

	h.Prev() // "fight goblin1"
	h.ResetCursor()

	// After reset, Prev starts from the end again.
	prev, ok := h.Prev()
	if !ok || prev != "fight goblin1" {
		t.Errorf("expected 'fight goblin1' after reset, got %q", prev)
	}
}

// testSession returns a session with a small fixture world for TUI testing.
func testSession() *cli.Session {
	defs := &state.Defs{
		World: state.WorldDef{Name: "Test Realm", Intro: "The mists part.", StartRegion: "forest"},
	}

	e := engine.NewFromState(types.GameState{
		Player: types.Player{
			ID:            "player1",
			Name:          "Adventurer",
			Level:         1,
			Health:        100,
			MaxHealth:     100,
			Mana:          50,
			MaxMana:       50,
			Tokens:        250,
			Staked:        40,
			CurrentRegion: "forest",
		},
		Inventory: []types.Item{
			{ID: "sword1", Name: "Iron Sword", Type: types.ItemWeapon},
		},
		Equipped: map[string]types.Item{},
		Regions: []types.Region{
			{ID: "forest", Name: "Whispering Forest",
				Monsters: []types.Monster{{ID: "goblin1", Name: "Goblin Scout", Level: 1, Experience: 40}}},
		},
		Balance: balance.Default(),
	})

	return &cli.Session{Engine: e, Defs: defs}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := New(testSession())

	_, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("expected quit=true for /quit")
	}

	_, quit = m.handleMeta("/exit")
	if !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := New(testSession())

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/quit", "/state", "fight", "craft", "stake", "mint"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := New(testSession())

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := New(testSession())

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := New(testSession())

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}

	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Region: forest") {
		t.Error("expected region in state output")
	}
	if !strings.Contains(joined, "Tokens: 250 (staked: 40)") {
		t.Error("expected token balance in state output")
	}
}

func TestAppendEvent_StyledAndTraced(t *testing.T) {
	m := New(testSession())
	m.trace = true

	m = m.appendEvent(types.Event{
		Type: types.EventLevelUp,
		Data: map[string]any{"from": 1, "to": 2, "skill_points": 1},
	})

	if len(m.rawLines) != 2 {
		t.Fatalf("expected 2 raw lines, got %d", len(m.rawLines))
	}
	if m.rawLines[0].kind != kindHighlight {
		t.Errorf("expected level-up line to be highlighted, got %v", m.rawLines[0].kind)
	}
	if m.rawLines[1].kind != kindTrace || !strings.HasPrefix(m.rawLines[1].text, "[trace]") {
		t.Errorf("expected trace line, got %+v", m.rawLines[1])
	}
}

func TestStatusBar_ShowsVitalsAndRegion(t *testing.T) {
	m := New(testSession())
	m.width = 100

	bar := m.renderStatusBar()
	for _, expected := range []string{"Adventurer", "Lv 1", "HP 100/100", "Tokens: 250", "Whispering Forest"} {
		if !strings.Contains(bar, expected) {
			t.Errorf("expected %q in status bar", expected)
		}
	}
}
