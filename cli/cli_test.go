package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mwynn/realmforge/balance"
	"github.com/mwynn/realmforge/contract"
	"github.com/mwynn/realmforge/engine"
	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/sched"
	"github.com/mwynn/realmforge/types"
)

func testSession() *Session {
	defs := &state.Defs{
		World: state.WorldDef{Name: "Test Realm", StartRegion: "forest"},
		Guilds: []types.Guild{
			{ID: "guild1", Name: "Dragon Slayers", Members: 5, Level: 2, Treasury: 100},
		},
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
			Stats:         types.Stats{Strength: 10, Agility: 10, Intelligence: 10, Vitality: 10},
			Tokens:        1000,
			CurrentRegion: "forest",
		},
		Inventory: []types.Item{
			{ID: "sword1", Name: "Iron Sword", Type: types.ItemWeapon, Stats: map[string]int{"attack": 10}},
			{ID: "potion1", Name: "Health Potion", Type: types.ItemConsumable, Stats: map[string]int{"health": 50}, Quantity: 2},
		},
		Equipped: map[string]types.Item{},
		Quests: []types.Quest{
			{ID: "quest1", Title: "Slay the Goblins", Objectives: []string{"Defeat 5 goblins"}, Rewards: types.Rewards{Tokens: 100}},
		},
		Marketplace: []types.Item{
			{ID: "nft1", Name: "Dragon Blade", Type: types.ItemWeapon, Rarity: types.RarityLegendary, Price: 500, NFT: true},
		},
		Recipes: []types.Recipe{
			{
				ID:        "recipe1",
				Name:      "Steel Sword",
				Materials: []types.Material{{ItemID: "ore1", Quantity: 3}},
				Result:    types.Item{ID: "steel_sword1", Name: "Steel Sword", Type: types.ItemWeapon},
				CraftTime: 5,
			},
		},
		Regions: []types.Region{
			{
				ID:        "forest",
				Name:      "Whispering Forest",
				Weather:   "clear",
				Monsters:  []types.Monster{{ID: "goblin1", Name: "Goblin Scout", Level: 1, Experience: 40}},
				Resources: []types.Resource{{ID: "node1", Name: "Iron Ore", ItemID: "ore1", Quantity: 2, Yield: 1}},
			},
		},
		Balance: balance.Default(),
	})

	sim := contract.NewSimulated(1, 0)
	return &Session{
		Engine: e,
		Defs:   defs,
		Bridge: contract.NewBridge(e, sim, sim, sim, sim),
	}
}

func TestExecute_StatusQuery(t *testing.T) {
	s := testSession()
	lines := s.Execute("status")

	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Adventurer", "Lv 1", "HP 100/100", "Tokens: 1000", "Whispering Forest"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected status to contain %q, got:\n%s", want, joined)
		}
	}
}

func TestExecute_InventoryQuery(t *testing.T) {
	s := testSession()
	joined := strings.Join(s.Execute("inventory"), "\n")

	if !strings.Contains(joined, "Iron Sword") || !strings.Contains(joined, "Health Potion") {
		t.Errorf("expected both items listed, got:\n%s", joined)
	}
	if !strings.Contains(joined, "x2") {
		t.Errorf("expected potion stack count, got:\n%s", joined)
	}
}

func TestExecute_LookQuery(t *testing.T) {
	s := testSession()
	joined := strings.Join(s.Execute("look"), "\n")

	for _, want := range []string{"Whispering Forest", "Goblin Scout", "Iron Ore"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected look to contain %q, got:\n%s", want, joined)
		}
	}
}

func TestExecute_FightDispatches(t *testing.T) {
	s := testSession()
	s.Execute("fight goblin1")

	st := s.Engine.State()
	if len(st.Regions[0].Monsters) != 0 {
		t.Errorf("expected goblin defeated, got %v", st.Regions[0].Monsters)
	}
	if st.Player.Experience != 40 {
		t.Errorf("expected 40 xp, got %d", st.Player.Experience)
	}
}

func TestExecute_EquipDerivesSlot(t *testing.T) {
	s := testSession()
	s.Execute("equip sword1")

	if s.Engine.State().Equipped["weapon"].ID != "sword1" {
		t.Errorf("expected sword equipped in weapon slot, got %v", s.Engine.State().Equipped)
	}
}

func TestExecute_BuyAndUse(t *testing.T) {
	s := testSession()

	s.Execute("buy nft1")
	if s.Engine.State().Player.Tokens != 500 {
		t.Errorf("expected 500 tokens after purchase, got %d", s.Engine.State().Player.Tokens)
	}

	s.Execute("use potion1")
	potionIdx := state.ItemIndex(s.Engine.State().Inventory, "potion1")
	if potionIdx < 0 || s.Engine.State().Inventory[potionIdx].Quantity != 1 {
		t.Errorf("expected one potion left, got %v", s.Engine.State().Inventory)
	}
}

func TestExecute_CraftInstantWithoutTimescale(t *testing.T) {
	s := testSession()
	// No materials held: the reducer rejects, but synchronously.
	lines := s.Execute("craft recipe1")
	if len(lines) != 0 {
		t.Errorf("expected no scheduling message for instant craft, got %v", lines)
	}
}

func TestExecute_CraftSchedulesWithTimescale(t *testing.T) {
	s := testSession()
	s.Timescale = time.Hour
	s.Sched = sched.New(s.Engine)
	defer s.Sched.Stop()

	lines := s.Execute("craft recipe1")
	if len(lines) != 1 || !strings.Contains(lines[0], "Crafting Steel Sword") {
		t.Errorf("expected crafting message, got %v", lines)
	}
	if s.Sched.Pending() != 1 {
		t.Errorf("expected 1 pending craft, got %d", s.Sched.Pending())
	}
}

func TestExecute_JoinGuildFromDirectory(t *testing.T) {
	s := testSession()
	s.Execute("join guild1")

	g := s.Engine.State().Guild
	if g == nil || g.Name != "Dragon Slayers" {
		t.Errorf("expected Dragon Slayers joined, got %+v", g)
	}
}

func TestExecute_JoinUnknownGuild(t *testing.T) {
	s := testSession()
	lines := s.Execute("join nobody")

	if len(lines) == 0 || !strings.Contains(lines[0], "guild1") {
		t.Errorf("expected directory listing in response, got %v", lines)
	}
}

func TestExecute_SeekMergesQuest(t *testing.T) {
	s := testSession()
	s.Execute("seek")

	if len(s.Engine.State().Quests) != 2 {
		t.Errorf("expected generated quest merged, got %v", s.Engine.State().Quests)
	}
}

func TestExecute_DelveMergesDungeon(t *testing.T) {
	s := testSession()
	s.Execute("delve 42")

	st := s.Engine.State()
	if len(st.Regions) != 2 {
		t.Fatalf("expected dungeon region merged, got %v", st.Regions)
	}
	dungeon := st.Regions[1]
	if dungeon.ID != "dungeon_42" || len(dungeon.Monsters) != 6 {
		t.Errorf("expected dungeon_42 with 6 monsters, got %+v", dungeon)
	}

	// Same seed again collides on the region ID and merges nothing.
	s.Execute("delve 42")
	if len(s.Engine.State().Regions) != 2 {
		t.Errorf("expected duplicate delve refused, got %v", s.Engine.State().Regions)
	}
}

func TestExecute_DelveBadSeed(t *testing.T) {
	s := testSession()
	lines := s.Execute("delve soon")
	if len(lines) == 0 || !strings.Contains(lines[0], "not a number") {
		t.Errorf("expected bad-seed message, got %v", lines)
	}
}

func TestExecute_MintMarksItem(t *testing.T) {
	s := testSession()
	s.Execute("mint sword1")

	i := state.ItemIndex(s.Engine.State().Inventory, "sword1")
	if !s.Engine.State().Inventory[i].NFT {
		t.Errorf("expected sword minted, got %+v", s.Engine.State().Inventory[i])
	}

	lines := s.Execute("mint sword1")
	if len(lines) == 0 || !strings.Contains(lines[0], "already minted") {
		t.Errorf("expected already-minted message, got %v", lines)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	s := testSession()
	lines := s.Execute("dance")

	if len(lines) != 1 || !strings.Contains(lines[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", lines)
	}
}

func TestExecute_UsageMessages(t *testing.T) {
	s := testSession()
	tests := []struct {
		input    string
		fragment string
	}{
		{"travel", "travel where"},
		{"move 1 2", "three coordinates"},
		{"stake abc", "not a number"},
		{"found", "named what"},
	}
	for _, tt := range tests {
		lines := s.Execute(tt.input)
		if len(lines) == 0 || !strings.Contains(lines[0], tt.fragment) {
			t.Errorf("Execute(%q) = %v, want %q", tt.input, lines, tt.fragment)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   types.Event
		want string
	}{
		{
			"level up",
			types.Event{Type: types.EventLevelUp, Data: map[string]any{"from": 1, "to": 2, "skill_points": 1}},
			"Level up! You are now level 2 (+1 skill points).",
		},
		{
			"rejection",
			types.Event{Type: types.EventActionRejected, Data: map[string]any{"action": "purchase_item", "reason": "insufficient tokens"}},
			"Can't do that: insufficient tokens.",
		},
		{
			"purchase",
			types.Event{Type: types.EventItemPurchased, Data: map[string]any{"item": "nft1", "name": "Dragon Blade", "price": 500}},
			"You buy Dragon Blade for 500 tokens.",
		},
		{
			"discovery",
			types.Event{Type: types.EventRegionDiscovered, Data: map[string]any{"region": "dungeon_42", "name": "Forgotten Depths", "monsters": 6}},
			"You discover Forgotten Depths! 6 monsters lurk within.",
		},
		{
			"unknown type falls back to its name",
			types.Event{Type: "weather_changed"},
			"weather_changed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEvent(tt.ev); got != tt.want {
				t.Errorf("FormatEvent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCLI_ScriptedRun(t *testing.T) {
	s := testSession()
	var out bytes.Buffer

	c := New(s)
	c.In = strings.NewReader("# comment line\nfight goblin1\nstatus\n/quit\n")
	c.Out = &out
	c.Run()

	output := out.String()
	if !strings.Contains(output, "You defeat Goblin Scout!") {
		t.Errorf("expected combat event printed, got:\n%s", output)
	}
	if !strings.Contains(output, "You gain 40 experience") {
		t.Errorf("expected experience event printed, got:\n%s", output)
	}
	if !strings.Contains(output, "Goodbye.") {
		t.Errorf("expected goodbye on /quit, got:\n%s", output)
	}
}

func TestCLI_AgainRepeats(t *testing.T) {
	s := testSession()
	var out bytes.Buffer

	c := New(s)
	c.In = strings.NewReader("use potion1\ng\n/quit\n")
	c.Out = &out
	c.Run()

	if state.ItemIndex(s.Engine.State().Inventory, "potion1") >= 0 {
		t.Errorf("expected both potions consumed, got %v", s.Engine.State().Inventory)
	}
}
