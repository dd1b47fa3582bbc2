// Package engine provides the authoritative game state store and the
// transition function that maps (snapshot, action) to a new snapshot.
package engine

import (
	"strings"

	"github.com/mwynn/realmforge/engine/craft"
	"github.com/mwynn/realmforge/engine/economy"
	"github.com/mwynn/realmforge/engine/progress"
	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/types"
)

// Apply is the transition function. It is pure: the input snapshot is
// never mutated, unknown actions return it unchanged, and every rejected
// transition is reported through an action_rejected event rather than an
// error or a panic.
func Apply(s types.GameState, action types.Action) (types.GameState, []types.Event) {
	switch a := action.(type) {
	case types.MovePlayer:
		return applyMove(s, a)
	case types.GainExperience:
		return applyGainExperience(s, a)
	case types.AddItem:
		return applyAddItem(s, a)
	case types.RemoveItem:
		return applyRemoveItem(s, a)
	case types.EquipItem:
		return applyEquipItem(s, a)
	case types.CompleteQuest:
		return applyCompleteQuest(s, a)
	case types.JoinGuild:
		return applyJoinGuild(s, a)
	case types.CraftItem:
		return applyCraftItem(s, a)
	case types.PurchaseItem:
		return applyPurchaseItem(s, a)
	case types.ContributeTreasury:
		return applyContributeTreasury(s, a)
	case types.TravelToRegion:
		return applyTravelToRegion(s, a)
	case types.DefeatMonster:
		return applyDefeatMonster(s, a)
	case types.HarvestResource:
		return applyHarvestResource(s, a)
	case types.AddQuest:
		return applyAddQuest(s, a)
	case types.DiscoverRegion:
		return applyDiscoverRegion(s, a)
	case types.AdvanceQuest:
		return applyAdvanceQuest(s, a)
	case types.ConsumeItem:
		return applyConsumeItem(s, a)
	case types.AllocateSkillPoint:
		return applyAllocateSkillPoint(s, a)
	case types.CreateGuild:
		return applyCreateGuild(s, a)
	case types.StakeTokens:
		return applyStakeTokens(s, a)
	case types.CreditTokens:
		return applyCreditTokens(s, a)
	case types.MarkItemMinted:
		return applyMarkItemMinted(s, a)
	default:
		// Unrecognized actions leave the snapshot untouched.
		return s, nil
	}
}

// rejected builds the uniform rejection event for a refused transition.
func rejected(action, reason string, data map[string]any) types.Event {
	if data == nil {
		data = map[string]any{}
	}
	data["action"] = action
	data["reason"] = reason
	return types.Event{Type: types.EventActionRejected, Data: data}
}

func applyMove(s types.GameState, a types.MovePlayer) (types.GameState, []types.Event) {
	s.Player.Position = a.Position
	return s, []types.Event{{
		Type: types.EventPlayerMoved,
		Data: map[string]any{"x": a.Position.X, "y": a.Position.Y, "z": a.Position.Z},
	}}
}

// grantExperience applies the leveling rule and emits the progression
// events. Shared by direct grants, quest claims, crafting, and combat.
func grantExperience(p types.Player, amount, xpPerLevel int) (types.Player, []types.Event) {
	if amount <= 0 {
		return p, nil
	}
	oldLevel := p.Level
	p, gained := progress.Gain(p, amount, xpPerLevel)

	events := []types.Event{{
		Type: types.EventExperienceGained,
		Data: map[string]any{"amount": amount, "total": p.Experience},
	}}
	if gained > 0 {
		events = append(events, types.Event{
			Type: types.EventLevelUp,
			Data: map[string]any{"from": oldLevel, "to": p.Level, "skill_points": gained},
		})
	}
	return p, events
}

func applyGainExperience(s types.GameState, a types.GainExperience) (types.GameState, []types.Event) {
	if a.Amount < 0 {
		return s, []types.Event{rejected("gain_experience", "negative amount", nil)}
	}
	var events []types.Event
	s.Player, events = grantExperience(s.Player, a.Amount, s.Balance.XPPerLevel)
	return s, events
}

func applyAddItem(s types.GameState, a types.AddItem) (types.GameState, []types.Event) {
	if a.Item.ID == "" {
		return s, []types.Event{rejected("add_item", "item id required", nil)}
	}
	if state.ItemIndex(s.Inventory, a.Item.ID) >= 0 {
		return s, []types.Event{rejected("add_item", "duplicate item id", map[string]any{"item": a.Item.ID})}
	}

	s.Inventory = append(cloneItems(s.Inventory), a.Item)
	return s, []types.Event{{
		Type: types.EventItemAdded,
		Data: map[string]any{"item": a.Item.ID, "name": a.Item.Name},
	}}
}

func applyRemoveItem(s types.GameState, a types.RemoveItem) (types.GameState, []types.Event) {
	i := state.ItemIndex(s.Inventory, a.ItemID)
	if i < 0 {
		// Removing something you don't hold is a silent no-op, not an error.
		return s, nil
	}

	inv := cloneItems(s.Inventory)
	s.Inventory = append(inv[:i], inv[i+1:]...)
	return s, []types.Event{{
		Type: types.EventItemRemoved,
		Data: map[string]any{"item": a.ItemID},
	}}
}

// slotFor returns the equipment slot an item type belongs in, or "" for
// types that are never equippable.
func slotFor(t types.ItemType) string {
	switch t {
	case types.ItemWeapon:
		return "weapon"
	case types.ItemArmor:
		return "armor"
	default:
		return ""
	}
}

func applyEquipItem(s types.GameState, a types.EquipItem) (types.GameState, []types.Event) {
	i := state.ItemIndex(s.Inventory, a.ItemID)
	if i < 0 {
		return s, []types.Event{rejected("equip_item", "item not owned", map[string]any{"item": a.ItemID})}
	}
	item := s.Inventory[i]

	want := slotFor(item.Type)
	if want == "" {
		return s, []types.Event{rejected("equip_item", "item type not equippable", map[string]any{"item": a.ItemID, "type": string(item.Type)})}
	}
	if a.Slot != want {
		return s, []types.Event{rejected("equip_item", "slot does not match item type", map[string]any{"item": a.ItemID, "slot": a.Slot})}
	}

	equipped := cloneEquipped(s.Equipped)
	equipped[a.Slot] = item
	s.Equipped = equipped
	return s, []types.Event{{
		Type: types.EventItemEquipped,
		Data: map[string]any{"item": item.ID, "name": item.Name, "slot": a.Slot},
	}}
}

func applyCompleteQuest(s types.GameState, a types.CompleteQuest) (types.GameState, []types.Event) {
	qi := state.QuestIndex(s, a.QuestID)
	if qi < 0 {
		// Stale target: the quest no longer exists (already claimed, or
		// never added). Observable, never a crash.
		return s, []types.Event{rejected("complete_quest", "quest not found", map[string]any{"quest": a.QuestID})}
	}
	quest := s.Quests[qi]
	if !quest.Completed {
		return s, []types.Event{rejected("complete_quest", "quest not yet complete", map[string]any{"quest": a.QuestID})}
	}

	events := []types.Event{{
		Type: types.EventQuestClaimed,
		Data: map[string]any{"quest": quest.ID, "title": quest.Title, "tokens": quest.Rewards.Tokens, "experience": quest.Rewards.Experience},
	}}

	s.Player.Tokens += quest.Rewards.Tokens

	var xpEvents []types.Event
	s.Player, xpEvents = grantExperience(s.Player, quest.Rewards.Experience, s.Balance.XPPerLevel)
	events = append(events, xpEvents...)

	inv := cloneItems(s.Inventory)
	for _, item := range quest.Rewards.Items {
		inv = mergeItem(inv, item)
	}
	s.Inventory = inv

	// Claimed quests are single-use: remove from the active list so a
	// second claim finds nothing.
	quests := cloneQuests(s.Quests)
	s.Quests = append(quests[:qi], quests[qi+1:]...)

	return s, events
}

func applyJoinGuild(s types.GameState, a types.JoinGuild) (types.GameState, []types.Event) {
	if a.Guild.ID == "" {
		return s, []types.Event{rejected("join_guild", "guild id required", nil)}
	}

	data := map[string]any{"guild": a.Guild.ID, "name": a.Guild.Name}
	if s.Guild != nil && s.Guild.ID != a.Guild.ID {
		data["left"] = s.Guild.ID
	}

	g := a.Guild
	g.Territory = append([]string{}, a.Guild.Territory...)
	s.Guild = &g
	return s, []types.Event{{Type: types.EventGuildJoined, Data: data}}
}

func applyCraftItem(s types.GameState, a types.CraftItem) (types.GameState, []types.Event) {
	recipe, ok := state.RecipeByID(s, a.RecipeID)
	if !ok {
		return s, []types.Event{rejected("craft_item", "recipe not found", map[string]any{"recipe": a.RecipeID})}
	}

	// Sufficiency is re-checked at commit time: the inventory may have
	// changed since the craft was initiated.
	inv, ok := craft.Consume(cloneItems(s.Inventory), recipe)
	if !ok {
		missing := craft.Missing(s.Inventory, recipe)
		short := make([]string, len(missing))
		for i, m := range missing {
			short[i] = m.ItemID
		}
		return s, []types.Event{rejected("craft_item", "insufficient materials", map[string]any{"recipe": a.RecipeID, "missing": strings.Join(short, ", ")})}
	}

	s.Inventory = mergeItem(inv, recipe.Result)

	events := []types.Event{{
		Type: types.EventItemCrafted,
		Data: map[string]any{"recipe": recipe.ID, "item": recipe.Result.ID, "name": recipe.Result.Name},
	}}

	var xpEvents []types.Event
	s.Player, xpEvents = grantExperience(s.Player, recipe.Experience, s.Balance.XPPerLevel)
	events = append(events, xpEvents...)

	return s, events
}

func applyPurchaseItem(s types.GameState, a types.PurchaseItem) (types.GameState, []types.Event) {
	mi := state.MarketIndex(s, a.ItemID)
	if mi < 0 {
		return s, []types.Event{rejected("purchase_item", "listing not found", map[string]any{"item": a.ItemID})}
	}
	listing := s.Marketplace[mi]

	tokens, ok := economy.Debit(s.Player.Tokens, listing.Price)
	if !ok {
		return s, []types.Event{rejected("purchase_item", "insufficient tokens", map[string]any{"item": a.ItemID, "price": listing.Price, "tokens": s.Player.Tokens})}
	}
	if state.ItemIndex(s.Inventory, listing.ID) >= 0 {
		return s, []types.Event{rejected("purchase_item", "duplicate item id", map[string]any{"item": listing.ID})}
	}

	s.Player.Tokens = tokens
	s.Inventory = append(cloneItems(s.Inventory), listing)

	market := cloneItems(s.Marketplace)
	s.Marketplace = append(market[:mi], market[mi+1:]...)

	return s, []types.Event{{
		Type: types.EventItemPurchased,
		Data: map[string]any{"item": listing.ID, "name": listing.Name, "price": listing.Price},
	}}
}

func applyContributeTreasury(s types.GameState, a types.ContributeTreasury) (types.GameState, []types.Event) {
	if a.Amount <= 0 {
		return s, []types.Event{rejected("contribute_treasury", "amount must be positive", nil)}
	}
	if s.Guild == nil {
		return s, []types.Event{rejected("contribute_treasury", "not in a guild", nil)}
	}

	tokens, treasury, ok := economy.Transfer(s.Player.Tokens, s.Guild.Treasury, a.Amount)
	if !ok {
		return s, []types.Event{rejected("contribute_treasury", "insufficient tokens", map[string]any{"amount": a.Amount, "tokens": s.Player.Tokens})}
	}

	g := *s.Guild
	g.Treasury = treasury
	s.Guild = &g
	s.Player.Tokens = tokens

	return s, []types.Event{{
		Type: types.EventTreasuryContribution,
		Data: map[string]any{"guild": g.ID, "amount": a.Amount, "treasury": g.Treasury},
	}}
}

func applyTravelToRegion(s types.GameState, a types.TravelToRegion) (types.GameState, []types.Event) {
	ri := state.RegionIndex(s, a.RegionID)
	if ri < 0 {
		return s, []types.Event{rejected("travel_to_region", "unknown region", map[string]any{"region": a.RegionID})}
	}

	s.Player.CurrentRegion = a.RegionID
	return s, []types.Event{{
		Type: types.EventRegionEntered,
		Data: map[string]any{"region": a.RegionID, "name": s.Regions[ri].Name},
	}}
}

func applyDefeatMonster(s types.GameState, a types.DefeatMonster) (types.GameState, []types.Event) {
	ri := state.RegionIndex(s, a.RegionID)
	if ri < 0 {
		return s, []types.Event{rejected("defeat_monster", "unknown region", map[string]any{"region": a.RegionID})}
	}

	region := s.Regions[ri]
	mi := -1
	for i, m := range region.Monsters {
		if m.ID == a.MonsterID {
			mi = i
			break
		}
	}
	if mi < 0 {
		return s, []types.Event{rejected("defeat_monster", "monster not found", map[string]any{"monster": a.MonsterID})}
	}
	monster := region.Monsters[mi]

	regions := cloneRegions(s.Regions)
	regions[ri].Monsters = append(regions[ri].Monsters[:mi], regions[ri].Monsters[mi+1:]...)
	s.Regions = regions

	events := []types.Event{{
		Type: types.EventMonsterDefeated,
		Data: map[string]any{"monster": monster.ID, "name": monster.Name, "region": a.RegionID},
	}}

	var xpEvents []types.Event
	s.Player, xpEvents = grantExperience(s.Player, monster.Experience, s.Balance.XPPerLevel)
	events = append(events, xpEvents...)

	return s, events
}

func applyHarvestResource(s types.GameState, a types.HarvestResource) (types.GameState, []types.Event) {
	ri := state.RegionIndex(s, a.RegionID)
	if ri < 0 {
		return s, []types.Event{rejected("harvest_resource", "unknown region", map[string]any{"region": a.RegionID})}
	}

	region := s.Regions[ri]
	resIdx := -1
	for i, r := range region.Resources {
		if r.ID == a.ResourceID {
			resIdx = i
			break
		}
	}
	if resIdx < 0 {
		return s, []types.Event{rejected("harvest_resource", "resource not found", map[string]any{"resource": a.ResourceID})}
	}

	res := region.Resources[resIdx]
	if res.Quantity <= 0 {
		return s, []types.Event{rejected("harvest_resource", "resource exhausted", map[string]any{"resource": a.ResourceID})}
	}

	yield := res.Yield
	if yield <= 0 {
		yield = 1
	}

	regions := cloneRegions(s.Regions)
	regions[ri].Resources[resIdx].Quantity--
	s.Regions = regions

	s.Inventory = mergeItem(cloneItems(s.Inventory), types.Item{
		ID:       res.ItemID,
		Name:     res.Name,
		Type:     types.ItemMaterial,
		Rarity:   types.RarityCommon,
		Quantity: yield,
	})

	return s, []types.Event{{
		Type: types.EventResourceHarvested,
		Data: map[string]any{"resource": res.ID, "item": res.ItemID, "yield": yield},
	}}
}

func applyAddQuest(s types.GameState, a types.AddQuest) (types.GameState, []types.Event) {
	if a.Quest.ID == "" {
		return s, []types.Event{rejected("add_quest", "quest id required", nil)}
	}
	if state.QuestIndex(s, a.Quest.ID) >= 0 {
		return s, []types.Event{rejected("add_quest", "duplicate quest id", map[string]any{"quest": a.Quest.ID})}
	}

	q := a.Quest
	q.Objectives = append([]string{}, a.Quest.Objectives...)
	s.Quests = append(cloneQuests(s.Quests), q)
	return s, []types.Event{{
		Type: types.EventQuestAdded,
		Data: map[string]any{"quest": q.ID, "title": q.Title},
	}}
}

func applyDiscoverRegion(s types.GameState, a types.DiscoverRegion) (types.GameState, []types.Event) {
	if a.Region.ID == "" {
		return s, []types.Event{rejected("discover_region", "region id required", nil)}
	}
	if state.RegionIndex(s, a.Region.ID) >= 0 {
		return s, []types.Event{rejected("discover_region", "duplicate region id", map[string]any{"region": a.Region.ID})}
	}

	r := a.Region
	r.Monsters = append([]types.Monster{}, a.Region.Monsters...)
	r.Resources = append([]types.Resource{}, a.Region.Resources...)
	r.NPCs = append([]types.NPC{}, a.Region.NPCs...)
	s.Regions = append(cloneRegions(s.Regions), r)

	return s, []types.Event{{
		Type: types.EventRegionDiscovered,
		Data: map[string]any{"region": r.ID, "name": r.Name, "monsters": len(r.Monsters)},
	}}
}

func applyAdvanceQuest(s types.GameState, a types.AdvanceQuest) (types.GameState, []types.Event) {
	qi := state.QuestIndex(s, a.QuestID)
	if qi < 0 {
		return s, []types.Event{rejected("advance_quest", "quest not found", map[string]any{"quest": a.QuestID})}
	}

	quest := s.Quests[qi]
	if quest.Progress >= len(quest.Objectives) {
		return s, []types.Event{rejected("advance_quest", "quest already complete", map[string]any{"quest": a.QuestID})}
	}

	quests := cloneQuests(s.Quests)
	quests[qi].Progress++

	events := []types.Event{{
		Type: types.EventQuestAdvanced,
		Data: map[string]any{"quest": quest.ID, "progress": quests[qi].Progress, "objectives": len(quest.Objectives)},
	}}

	if quests[qi].Progress >= len(quest.Objectives) {
		quests[qi].Completed = true
		events = append(events, types.Event{
			Type: types.EventQuestCompleted,
			Data: map[string]any{"quest": quest.ID, "title": quest.Title},
		})
	}

	s.Quests = quests
	return s, events
}

func applyConsumeItem(s types.GameState, a types.ConsumeItem) (types.GameState, []types.Event) {
	i := state.ItemIndex(s.Inventory, a.ItemID)
	if i < 0 {
		return s, []types.Event{rejected("consume_item", "item not owned", map[string]any{"item": a.ItemID})}
	}
	item := s.Inventory[i]
	if item.Type != types.ItemConsumable {
		return s, []types.Event{rejected("consume_item", "item is not consumable", map[string]any{"item": a.ItemID})}
	}

	inv := cloneItems(s.Inventory)
	if state.Qty(item) > 1 {
		inv[i].Quantity = state.Qty(item) - 1
	} else {
		inv = append(inv[:i], inv[i+1:]...)
	}
	s.Inventory = inv

	// Vitals restore from the item's stat bonuses, clamped to the maximums.
	if heal := item.Stats["health"]; heal > 0 {
		s.Player.Health = min(s.Player.Health+heal, s.Player.MaxHealth)
	}
	if restore := item.Stats["mana"]; restore > 0 {
		s.Player.Mana = min(s.Player.Mana+restore, s.Player.MaxMana)
	}

	return s, []types.Event{{
		Type: types.EventItemConsumed,
		Data: map[string]any{"item": item.ID, "name": item.Name},
	}}
}

func applyAllocateSkillPoint(s types.GameState, a types.AllocateSkillPoint) (types.GameState, []types.Event) {
	if s.Player.SkillPoints <= 0 {
		return s, []types.Event{rejected("allocate_skill_point", "no skill points available", nil)}
	}

	switch a.Stat {
	case "strength":
		s.Player.Stats.Strength++
	case "agility":
		s.Player.Stats.Agility++
	case "intelligence":
		s.Player.Stats.Intelligence++
	case "vitality":
		s.Player.Stats.Vitality++
	default:
		return s, []types.Event{rejected("allocate_skill_point", "unknown stat", map[string]any{"stat": a.Stat})}
	}

	s.Player.SkillPoints--
	return s, []types.Event{{
		Type: types.EventSkillPointSpent,
		Data: map[string]any{"stat": a.Stat, "remaining": s.Player.SkillPoints},
	}}
}

func applyCreateGuild(s types.GameState, a types.CreateGuild) (types.GameState, []types.Event) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return s, []types.Event{rejected("create_guild", "guild name required", nil)}
	}

	cost := s.Balance.GuildCost
	tokens, ok := economy.Debit(s.Player.Tokens, cost)
	if !ok {
		return s, []types.Event{rejected("create_guild", "insufficient tokens", map[string]any{"cost": cost, "tokens": s.Player.Tokens})}
	}

	s.Player.Tokens = tokens
	s.Guild = &types.Guild{
		ID:       "guild_" + slugify(name),
		Name:     name,
		Members:  1,
		Level:    1,
		Treasury: 0,
	}

	return s, []types.Event{{
		Type: types.EventGuildCreated,
		Data: map[string]any{"guild": s.Guild.ID, "name": name, "cost": cost},
	}}
}

func applyStakeTokens(s types.GameState, a types.StakeTokens) (types.GameState, []types.Event) {
	if a.Amount <= 0 {
		return s, []types.Event{rejected("stake_tokens", "amount must be positive", nil)}
	}

	tokens, staked, ok := economy.Transfer(s.Player.Tokens, s.Player.Staked, a.Amount)
	if !ok {
		return s, []types.Event{rejected("stake_tokens", "insufficient tokens", map[string]any{"amount": a.Amount, "tokens": s.Player.Tokens})}
	}

	s.Player.Tokens = tokens
	s.Player.Staked = staked
	return s, []types.Event{{
		Type: types.EventTokensStaked,
		Data: map[string]any{"amount": a.Amount, "staked": staked},
	}}
}

func applyCreditTokens(s types.GameState, a types.CreditTokens) (types.GameState, []types.Event) {
	if a.Amount < 0 {
		return s, []types.Event{rejected("credit_tokens", "negative amount", nil)}
	}

	s.Player.Tokens += a.Amount
	return s, []types.Event{{
		Type: types.EventTokensCredited,
		Data: map[string]any{"amount": a.Amount, "reason": a.Reason, "tokens": s.Player.Tokens},
	}}
}

func applyMarkItemMinted(s types.GameState, a types.MarkItemMinted) (types.GameState, []types.Event) {
	i := state.ItemIndex(s.Inventory, a.ItemID)
	if i < 0 {
		return s, []types.Event{rejected("mark_item_minted", "item not owned", map[string]any{"item": a.ItemID})}
	}

	inv := cloneItems(s.Inventory)
	inv[i].NFT = true
	inv[i].TokenID = a.TokenID
	s.Inventory = inv

	return s, []types.Event{{
		Type: types.EventItemMinted,
		Data: map[string]any{"item": a.ItemID, "token_id": a.TokenID},
	}}
}

// mergeItem adds an item to an (already cloned) inventory, merging into an
// existing stack when the ID matches. Reward grants, harvests, and craft
// results repeat IDs; merging keeps inventory IDs unique.
func mergeItem(inv []types.Item, item types.Item) []types.Item {
	if i := state.ItemIndex(inv, item.ID); i >= 0 {
		inv[i].Quantity = state.Qty(inv[i]) + state.Qty(item)
		return inv
	}
	return append(inv, item)
}

func cloneItems(items []types.Item) []types.Item {
	return append([]types.Item{}, items...)
}

func cloneQuests(quests []types.Quest) []types.Quest {
	return append([]types.Quest{}, quests...)
}

func cloneEquipped(m map[string]types.Item) map[string]types.Item {
	out := make(map[string]types.Item, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

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

func slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
	return strings.Trim(s, "_")
}
