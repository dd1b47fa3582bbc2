// Package state constructs the initial game snapshot from loaded world
// definitions and provides lookup helpers over snapshots.
package state

import "github.com/mwynn/realmforge/types"

// WorldDef holds world metadata from the content files.
type WorldDef struct {
	Name        string
	Author      string
	Version     string
	Intro       string
	StartRegion string
	PlayerName  string
}

// Defs holds the immutable world definitions loaded from Lua.
type Defs struct {
	World          WorldDef
	Items          map[string]types.Item // catalog by ID
	Regions        []types.Region
	Quests         []types.Quest // initially active quests
	Recipes        []types.Recipe
	Guilds         []types.Guild // joinable guild directory
	Marketplace    []types.Item
	StartInventory []types.Item
}

// New creates the session-bootstrap snapshot from definitions and tuning.
func New(defs *Defs, bal types.Balance) types.GameState {
	name := defs.World.PlayerName
	if name == "" {
		name = "Adventurer"
	}

	return types.GameState{
		Player: types.Player{
			ID:            "player1",
			Name:          name,
			Level:         1,
			Experience:    0,
			Health:        bal.StartingHealth,
			MaxHealth:     bal.StartingHealth,
			Mana:          bal.StartingMana,
			MaxMana:       bal.StartingMana,
			Stats:         types.Stats{Strength: 10, Agility: 10, Intelligence: 10, Vitality: 10},
			Tokens:        bal.StartingTokens,
			CurrentRegion: defs.World.StartRegion,
		},
		Inventory:   append([]types.Item{}, defs.StartInventory...),
		Equipped:    map[string]types.Item{},
		Quests:      append([]types.Quest{}, defs.Quests...),
		Guild:       nil,
		Marketplace: append([]types.Item{}, defs.Marketplace...),
		Recipes:     append([]types.Recipe{}, defs.Recipes...),
		Regions:     cloneRegions(defs.Regions),
		Balance:     bal,
	}
}

// cloneRegions deep-copies the region list so the snapshot never aliases
// the definition slices.
func cloneRegions(regions []types.Region) []types.Region {
	out := make([]types.Region, len(regions))
	for i, r := range regions {
		r.Monsters = append([]types.Monster{}, r.Monsters...)
		r.Resources = append([]types.Resource{}, r.Resources...)
		r.NPCs = append([]types.NPC{}, r.NPCs...)
		out[i] = r
	}
	return out
}

// Qty returns an item's stack count; zero-valued quantities mean one.
func Qty(item types.Item) int {
	if item.Quantity <= 0 {
		return 1
	}
	return item.Quantity
}

// ItemIndex returns the inventory index of the item with the given ID,
// or -1 if the player does not hold it.
func ItemIndex(inv []types.Item, itemID string) int {
	for i, it := range inv {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// HeldQuantity returns how many units of the given item the player holds.
func HeldQuantity(inv []types.Item, itemID string) int {
	if i := ItemIndex(inv, itemID); i >= 0 {
		return Qty(inv[i])
	}
	return 0
}

// QuestIndex returns the index of an active quest by ID, or -1.
func QuestIndex(s types.GameState, questID string) int {
	for i, q := range s.Quests {
		if q.ID == questID {
			return i
		}
	}
	return -1
}

// RecipeByID returns the recipe with the given ID, if present.
func RecipeByID(s types.GameState, recipeID string) (types.Recipe, bool) {
	for _, r := range s.Recipes {
		if r.ID == recipeID {
			return r, true
		}
	}
	return types.Recipe{}, false
}

// RegionIndex returns the index of a region by ID, or -1.
func RegionIndex(s types.GameState, regionID string) int {
	for i, r := range s.Regions {
		if r.ID == regionID {
			return i
		}
	}
	return -1
}

// CurrentRegion returns the region the player is in, if it exists.
func CurrentRegion(s types.GameState) (types.Region, bool) {
	if i := RegionIndex(s, s.Player.CurrentRegion); i >= 0 {
		return s.Regions[i], true
	}
	return types.Region{}, false
}

// MarketIndex returns the marketplace index of a listing by item ID, or -1.
func MarketIndex(s types.GameState, itemID string) int {
	for i, it := range s.Marketplace {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
