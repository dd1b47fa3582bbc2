// Package contract defines the boundary to external on-chain systems.
// The engine never talks to these interfaces; callers resolve them
// asynchronously and merge results back through ordinary actions, so a
// slow or failed call leaves local state untouched.
package contract

import (
	"context"

	"github.com/mwynn/realmforge/types"
)

// QuestSource produces generated quests for a player.
type QuestSource interface {
	GenerateQuest(ctx context.Context, playerID string, difficulty int) (types.Quest, error)
}

// ItemMinter records an item on chain and returns its token ID.
type ItemMinter interface {
	MintItem(ctx context.Context, playerID string, item types.Item) (string, error)
}

// Staking handles the staked-token side of the economy.
type Staking interface {
	Stake(ctx context.Context, playerID string, amount int) error
	ClaimRewards(ctx context.Context, playerID string) (int, error)
}

// Dungeon is a generated instance layout.
type Dungeon struct {
	ID       string
	Name     string
	Layout   [][]int
	Monsters []types.Monster
	Boss     types.Monster
}

// WorldSource generates world content on demand.
type WorldSource interface {
	GenerateDungeon(ctx context.Context, seed int64, difficulty int) (Dungeon, error)
}
