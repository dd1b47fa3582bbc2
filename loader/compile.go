// Package loader loads Lua world content into Go structs at startup.
// The Lua VM is discarded after loading, so no Lua runs at game time.
package loader

import (
	"fmt"
	"sort"

	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or false if missing.
func getBool(tbl *lua.LTable, key string) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return false
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns an array field as a string slice.
func getStringList(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getIntMap returns a table field as a map[string]int. Used for stat blocks.
func getIntMap(tbl *lua.LTable, key string) map[string]int {
	t := getTable(tbl, key)
	if t == nil {
		return nil
	}
	m := map[string]int{}
	t.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			m[string(ks)] = int(n)
		}
	})
	return m
}

// getPos returns a position field as a Vec3.
func getPos(tbl *lua.LTable, key string) types.Vec3 {
	t := getTable(tbl, key)
	if t == nil {
		return types.Vec3{}
	}
	return types.Vec3{
		X: getNumber(t, "x"),
		Y: getNumber(t, "y"),
		Z: getNumber(t, "z"),
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Items: map[string]types.Item{},
	}

	if coll.world == nil {
		return nil, fmt.Errorf("no World{} definition found")
	}
	defs.World = compileWorld(coll.world)

	for _, raw := range coll.items {
		item := compileItem(raw)
		defs.Items[item.ID] = item

		// Placement flags decide where the item starts out: the player's
		// bags, the marketplace, or the catalog only.
		if getBool(raw.table, "owned") {
			defs.StartInventory = append(defs.StartInventory, item)
		}
		if getBool(raw.table, "market") {
			defs.Marketplace = append(defs.Marketplace, item)
		}
	}

	for _, raw := range coll.regions {
		defs.Regions = append(defs.Regions, compileRegion(raw))
	}

	for _, raw := range coll.quests {
		defs.Quests = append(defs.Quests, compileQuest(raw, defs.Items))
	}

	for _, raw := range coll.recipes {
		recipe, err := compileRecipe(raw, defs.Items)
		if err != nil {
			return nil, fmt.Errorf("compiling recipe %s: %w", raw.id, err)
		}
		defs.Recipes = append(defs.Recipes, recipe)
	}

	for _, raw := range coll.guilds {
		defs.Guilds = append(defs.Guilds, compileGuild(raw))
	}

	return defs, nil
}

func compileWorld(tbl *lua.LTable) state.WorldDef {
	return state.WorldDef{
		Name:        getString(tbl, "name"),
		Author:      getString(tbl, "author"),
		Version:     getString(tbl, "version"),
		Intro:       getString(tbl, "intro"),
		StartRegion: getString(tbl, "start"),
		PlayerName:  getString(tbl, "player"),
	}
}

func compileItem(raw rawDef) types.Item {
	tbl := raw.table

	return types.Item{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Type:     types.ItemType(getString(tbl, "type")),
		Rarity:   types.ParseRarity(getString(tbl, "rarity")),
		Stats:    getIntMap(tbl, "stats"),
		Price:    getInt(tbl, "price"),
		Quantity: getInt(tbl, "quantity"),
		NFT:      getBool(tbl, "nft"),
		TokenID:  getString(tbl, "token_id"),
	}
}

func compileRegion(raw rawDef) types.Region {
	tbl := raw.table
	region := types.Region{
		ID:      raw.id,
		Name:    getString(tbl, "name"),
		Weather: getString(tbl, "weather"),
	}

	if monsters := getTable(tbl, "monsters"); monsters != nil {
		for i := 1; i <= monsters.MaxN(); i++ {
			if m, ok := monsters.RawGetInt(i).(*lua.LTable); ok {
				region.Monsters = append(region.Monsters, types.Monster{
					ID:         getString(m, "id"),
					Name:       getString(m, "name"),
					Level:      getInt(m, "level"),
					Experience: getInt(m, "xp"),
					Position:   getPos(m, "pos"),
				})
			}
		}
	}

	if resources := getTable(tbl, "resources"); resources != nil {
		for i := 1; i <= resources.MaxN(); i++ {
			if r, ok := resources.RawGetInt(i).(*lua.LTable); ok {
				region.Resources = append(region.Resources, types.Resource{
					ID:       getString(r, "id"),
					Name:     getString(r, "name"),
					ItemID:   getString(r, "item"),
					Quantity: getInt(r, "quantity"),
					Yield:    getInt(r, "yield"),
				})
			}
		}
	}

	if npcs := getTable(tbl, "npcs"); npcs != nil {
		for i := 1; i <= npcs.MaxN(); i++ {
			if n, ok := npcs.RawGetInt(i).(*lua.LTable); ok {
				region.NPCs = append(region.NPCs, types.NPC{
					ID:       getString(n, "id"),
					Name:     getString(n, "name"),
					Role:     getString(n, "role"),
					Dialogue: getString(n, "dialogue"),
					Position: getPos(n, "pos"),
				})
			}
		}
	}

	return region
}

func compileQuest(raw rawDef, items map[string]types.Item) types.Quest {
	tbl := raw.table
	quest := types.Quest{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Objectives:  getStringList(tbl, "objectives"),
	}

	if rewards := getTable(tbl, "rewards"); rewards != nil {
		quest.Rewards.Tokens = getInt(rewards, "tokens")
		quest.Rewards.Experience = getInt(rewards, "xp")
		for _, itemID := range getStringList(rewards, "items") {
			// Unresolvable IDs are caught by validation; keep a stub here
			// so the reference is visible to the validator.
			if item, ok := items[itemID]; ok {
				quest.Rewards.Items = append(quest.Rewards.Items, item)
			} else {
				quest.Rewards.Items = append(quest.Rewards.Items, types.Item{ID: itemID})
			}
		}
	}

	return quest
}

func compileRecipe(raw rawDef, items map[string]types.Item) (types.Recipe, error) {
	tbl := raw.table
	recipe := types.Recipe{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		CraftTime:  getInt(tbl, "craft_time"),
		Experience: getInt(tbl, "xp"),
	}

	if materials := getTable(tbl, "materials"); materials != nil {
		for i := 1; i <= materials.MaxN(); i++ {
			if m, ok := materials.RawGetInt(i).(*lua.LTable); ok {
				recipe.Materials = append(recipe.Materials, types.Material{
					ItemID:   getString(m, "item"),
					Quantity: getInt(m, "quantity"),
				})
			}
		}
	}

	resultID := getString(tbl, "result")
	if resultID == "" {
		return types.Recipe{}, fmt.Errorf("recipe has no result item")
	}
	if item, ok := items[resultID]; ok {
		recipe.Result = item
	} else {
		recipe.Result = types.Item{ID: resultID}
	}

	return recipe, nil
}

func compileGuild(raw rawDef) types.Guild {
	tbl := raw.table
	return types.Guild{
		ID:        raw.id,
		Name:      getString(tbl, "name"),
		Members:   getInt(tbl, "members"),
		Level:     getInt(tbl, "level"),
		Treasury:  getInt(tbl, "treasury"),
		Territory: getStringList(tbl, "territory"),
	}
}

// sortedLuaFiles returns .lua files with world.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var worldFile string
	var others []string
	for _, f := range files {
		if f == "world.lua" {
			worldFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if worldFile != "" {
		return append([]string{worldFile}, others...)
	}
	return others
}
