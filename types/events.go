package types

// EventType identifies a user-facing notification emitted by the engine.
type EventType string

const (
	EventPlayerMoved          EventType = "player_moved"
	EventExperienceGained     EventType = "experience_gained"
	EventLevelUp              EventType = "level_up"
	EventItemAdded            EventType = "item_added"
	EventItemRemoved          EventType = "item_removed"
	EventItemEquipped         EventType = "item_equipped"
	EventItemConsumed         EventType = "item_consumed"
	EventItemCrafted          EventType = "item_crafted"
	EventItemPurchased        EventType = "item_purchased"
	EventItemMinted           EventType = "item_minted"
	EventQuestAdded           EventType = "quest_added"
	EventQuestAdvanced        EventType = "quest_advanced"
	EventQuestCompleted       EventType = "quest_completed"
	EventQuestClaimed         EventType = "quest_claimed"
	EventGuildJoined          EventType = "guild_joined"
	EventGuildCreated         EventType = "guild_created"
	EventTreasuryContribution EventType = "treasury_contribution"
	EventRegionEntered        EventType = "region_entered"
	EventRegionDiscovered     EventType = "region_discovered"
	EventMonsterDefeated      EventType = "monster_defeated"
	EventResourceHarvested    EventType = "resource_harvested"
	EventTokensStaked         EventType = "tokens_staked"
	EventTokensCredited       EventType = "tokens_credited"
	EventSkillPointSpent      EventType = "skill_point_spent"

	// EventActionRejected reports a transition the engine refused. The
	// state is unchanged; Data carries "action" and "reason".
	EventActionRejected EventType = "action_rejected"
)

// Event is a single notification emitted as a side channel of a state
// transition. Events are consumed by presentation and never stored in
// the game state itself.
type Event struct {
	Type EventType      `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}
