// Package types defines the shared data structures for the RealmForge engine.
// This package contains only type definitions, no logic beyond enum labels.
package types

// Vec3 is a position in the 3-D game world.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ItemType is the closed set of item categories.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemConsumable ItemType = "consumable"
	ItemMaterial   ItemType = "material"
)

// Rarity orders items by value, ascending.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = [...]string{"common", "rare", "epic", "legendary"}

func (r Rarity) String() string {
	if r < RarityCommon || r > RarityLegendary {
		return "common"
	}
	return rarityNames[r]
}

// ParseRarity maps a rarity name to its ordered value. Unknown names
// fall back to common.
func ParseRarity(name string) Rarity {
	for i, n := range rarityNames {
		if n == name {
			return Rarity(i)
		}
	}
	return RarityCommon
}

// Item is a single inventory entry. ID is unique within an inventory;
// stackable items (materials, consumables) carry a Quantity.
type Item struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     ItemType       `json:"type"`
	Rarity   Rarity         `json:"rarity"`
	Stats    map[string]int `json:"stats,omitempty"` // stat name → bonus
	Price    int            `json:"price,omitempty"` // 0 = not for sale
	Quantity int            `json:"quantity,omitempty"`
	NFT      bool           `json:"nft"`                // chain-backed provenance
	TokenID  string         `json:"token_id,omitempty"` // set once minted
}

// Rewards is what a quest grants on claim.
type Rewards struct {
	Tokens     int    `json:"tokens"`
	Experience int    `json:"experience"`
	Items      []Item `json:"items,omitempty"`
}

// Quest tracks one active quest. Completed flips when progress reaches the
// objective count; claiming the rewards is a separate, later event.
type Quest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
	Progress    int      `json:"progress"`
	Completed   bool     `json:"completed"`
	Rewards     Rewards  `json:"rewards"`
}

// Guild is a player association with a shared treasury and territory.
type Guild struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   int      `json:"members"`
	Level     int      `json:"level"`
	Treasury  int      `json:"treasury"`
	Territory []string `json:"territory,omitempty"`
}

// Material is one required ingredient of a crafting recipe.
type Material struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Recipe defines a craftable item: required material stacks, the produced
// item, the crafting duration, and the experience granted on completion.
type Recipe struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Materials  []Material `json:"materials"`
	Result     Item       `json:"result"`
	CraftTime  int        `json:"craft_time"` // seconds
	Experience int        `json:"experience"`
}

// Monster is a defeatable region inhabitant.
type Monster struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"` // granted on defeat
	Position   Vec3   `json:"position"`
}

// Resource is a harvestable node inside a region. Each harvest yields
// Yield units of the material ItemID; Quantity harvests remain.
type Resource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Yield    int    `json:"yield"`
}

// NPC is a non-player character placed in a region.
type NPC struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Dialogue string `json:"dialogue,omitempty"`
	Position Vec3   `json:"position"`
}

// Region is one area of the game world.
type Region struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Weather   string     `json:"weather,omitempty"`
	Monsters  []Monster  `json:"monsters,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
	NPCs      []NPC      `json:"npcs,omitempty"`
}

// Stats are the four core player attributes.
type Stats struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Vitality     int `json:"vitality"`
}

// Player is the adventurer's progression and vitals.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Level         int    `json:"level"`
	Experience    int    `json:"experience"`
	Health        int    `json:"health"`
	MaxHealth     int    `json:"max_health"`
	Mana          int    `json:"mana"`
	MaxMana       int    `json:"max_mana"`
	Position      Vec3   `json:"position"`
	Stats         Stats  `json:"stats"`
	SkillPoints   int    `json:"skill_points"`
	Tokens        int    `json:"tokens"`
	Staked        int    `json:"staked"`
	CurrentRegion string `json:"current_region"`
}

// Balance holds the numeric tuning variables loaded from YAML.
type Balance struct {
	XPPerLevel     int `yaml:"xp_per_level" json:"xp_per_level"`
	StartingTokens int `yaml:"starting_tokens" json:"starting_tokens"`
	StartingHealth int `yaml:"starting_health" json:"starting_health"`
	StartingMana   int `yaml:"starting_mana" json:"starting_mana"`
	GuildCost      int `yaml:"guild_creation_cost" json:"guild_creation_cost"`
}

// GameState is one complete snapshot of a session. Snapshots are conceptually
// immutable: the engine's transition function returns a new snapshot and never
// mutates the one it was given.
type GameState struct {
	Player      Player          `json:"player"`
	Inventory   []Item          `json:"inventory"`
	Equipped    map[string]Item `json:"equipped"` // slot name → item
	Quests      []Quest         `json:"quests"`   // active, unclaimed quests
	Guild       *Guild          `json:"guild,omitempty"`
	Marketplace []Item          `json:"marketplace"`
	Recipes     []Recipe        `json:"recipes"`
	Regions     []Region        `json:"regions"`
	Balance     Balance         `json:"balance"`
}
