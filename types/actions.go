package types

// Action is a discrete, typed request to transition the game state.
// The variant set is closed: only types in this file implement it.
type Action interface {
	action()
}

// MovePlayer replaces the player position unconditionally. Bounds and
// collision are a world-rendering concern, not an engine invariant.
type MovePlayer struct {
	Position Vec3
}

// GainExperience adds experience and derives level and skill points.
type GainExperience struct {
	Amount int
}

// AddItem appends an item to the inventory. Rejected if the ID collides.
type AddItem struct {
	Item Item
}

// RemoveItem removes the item with the given ID. Absent IDs are a no-op.
type RemoveItem struct {
	ItemID string
}

// EquipItem places an owned item into an equipment slot, replacing any
// previous occupant. The slot must match the item type.
type EquipItem struct {
	ItemID string
	Slot   string
}

// CompleteQuest claims the rewards of a completed quest, exactly once.
type CompleteQuest struct {
	QuestID string
}

// JoinGuild sets the player's guild, replacing any previous membership.
type JoinGuild struct {
	Guild Guild
}

// CraftItem commits a craft: re-validates material sufficiency, consumes
// materials, produces the result, and grants the recipe experience, all in
// one step. The craft duration is owned by an external scheduler that
// dispatches this action when the timer elapses.
type CraftItem struct {
	RecipeID string
}

// PurchaseItem buys a marketplace listing if the player can afford it.
type PurchaseItem struct {
	ItemID string
}

// ContributeTreasury moves tokens from the player to the guild treasury.
type ContributeTreasury struct {
	Amount int
}

// TravelToRegion changes the player's current region.
type TravelToRegion struct {
	RegionID string
}

// DefeatMonster removes a monster from its region and grants its
// experience reward. Combat resolution itself is instantaneous here.
type DefeatMonster struct {
	RegionID  string
	MonsterID string
}

// HarvestResource decrements a region resource and merges its yield into
// the matching inventory stack.
type HarvestResource struct {
	RegionID   string
	ResourceID string
}

// AddQuest merges an externally generated quest into the active list.
type AddQuest struct {
	Quest Quest
}

// DiscoverRegion merges an externally generated region into the world.
// This is how dungeon instances from the contract boundary become part of
// local state.
type DiscoverRegion struct {
	Region Region
}

// AdvanceQuest increments quest progress, clamped to the objective count.
// Reaching the count marks the quest completed (but not yet claimed).
type AdvanceQuest struct {
	QuestID string
}

// ConsumeItem uses up one unit of a consumable and applies its stat
// bonuses to the player's vitals, clamped to the maximums.
type ConsumeItem struct {
	ItemID string
}

// AllocateSkillPoint spends one skill point on a core stat.
type AllocateSkillPoint struct {
	Stat string
}

// CreateGuild founds a new one-member guild, debiting the creation cost.
type CreateGuild struct {
	Name string
}

// StakeTokens moves tokens from the wallet to the staked balance.
type StakeTokens struct {
	Amount int
}

// CreditTokens adds tokens to the wallet. This is the merge-back path for
// amounts resolved by the external contract boundary (staking rewards,
// refunds); the boundary never mutates state directly.
type CreditTokens struct {
	Amount int
	Reason string
}

// MarkItemMinted records chain provenance on an inventory item after the
// contract boundary reports a successful mint.
type MarkItemMinted struct {
	ItemID  string
	TokenID string
}

func (MovePlayer) action()         {}
func (GainExperience) action()     {}
func (AddItem) action()            {}
func (RemoveItem) action()         {}
func (EquipItem) action()          {}
func (CompleteQuest) action()      {}
func (JoinGuild) action()          {}
func (CraftItem) action()          {}
func (PurchaseItem) action()       {}
func (ContributeTreasury) action() {}
func (TravelToRegion) action()     {}
func (DefeatMonster) action()      {}
func (HarvestResource) action()    {}
func (AddQuest) action()           {}
func (DiscoverRegion) action()     {}
func (AdvanceQuest) action()       {}
func (ConsumeItem) action()        {}
func (AllocateSkillPoint) action() {}
func (CreateGuild) action()        {}
func (StakeTokens) action()        {}
func (CreditTokens) action()       {}
func (MarkItemMinted) action()     {}
