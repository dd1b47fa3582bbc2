package contract

import (
	"context"
	"fmt"

	"github.com/mwynn/realmforge/types"
)

// Dispatcher is the slice of the engine the bridge needs.
type Dispatcher interface {
	Dispatch(action types.Action) []types.Event
}

// Bridge resolves contract calls and merges successful results back into
// the game through ordinary actions. A failed call dispatches nothing, so
// local state is exactly as it was before the call started.
type Bridge struct {
	dispatcher Dispatcher
	quests     QuestSource
	minter     ItemMinter
	staking    Staking
	world      WorldSource
}

// NewBridge wires a dispatcher to the contract clients.
func NewBridge(d Dispatcher, quests QuestSource, minter ItemMinter, staking Staking, world WorldSource) *Bridge {
	return &Bridge{
		dispatcher: d,
		quests:     quests,
		minter:     minter,
		staking:    staking,
		world:      world,
	}
}

// SeekQuest asks the quest source for a new quest and adds it to the log.
func (b *Bridge) SeekQuest(ctx context.Context, playerID string, difficulty int) (types.Quest, error) {
	quest, err := b.quests.GenerateQuest(ctx, playerID, difficulty)
	if err != nil {
		return types.Quest{}, fmt.Errorf("generating quest: %w", err)
	}
	b.dispatcher.Dispatch(types.AddQuest{Quest: quest})
	return quest, nil
}

// MintItem records an owned item on chain and marks its provenance.
func (b *Bridge) MintItem(ctx context.Context, playerID string, item types.Item) (string, error) {
	tokenID, err := b.minter.MintItem(ctx, playerID, item)
	if err != nil {
		return "", fmt.Errorf("minting %s: %w", item.ID, err)
	}
	b.dispatcher.Dispatch(types.MarkItemMinted{ItemID: item.ID, TokenID: tokenID})
	return tokenID, nil
}

// StakeTokens records the stake on chain first, then moves the local
// balance. The chain call failing means no local movement.
func (b *Bridge) StakeTokens(ctx context.Context, playerID string, amount int) error {
	if err := b.staking.Stake(ctx, playerID, amount); err != nil {
		return fmt.Errorf("staking %d tokens: %w", amount, err)
	}
	b.dispatcher.Dispatch(types.StakeTokens{Amount: amount})
	return nil
}

// ExploreDungeon asks the world source for a dungeon instance and merges
// it into the world as a new region, boss included.
func (b *Bridge) ExploreDungeon(ctx context.Context, seed int64, difficulty int) (types.Region, error) {
	d, err := b.world.GenerateDungeon(ctx, seed, difficulty)
	if err != nil {
		return types.Region{}, fmt.Errorf("generating dungeon: %w", err)
	}

	region := types.Region{
		ID:       d.ID,
		Name:     d.Name,
		Monsters: append(append([]types.Monster{}, d.Monsters...), d.Boss),
	}
	b.dispatcher.Dispatch(types.DiscoverRegion{Region: region})
	return region, nil
}

// ClaimStakingRewards resolves the accrued rewards and credits them.
func (b *Bridge) ClaimStakingRewards(ctx context.Context, playerID string) (int, error) {
	amount, err := b.staking.ClaimRewards(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("claiming staking rewards: %w", err)
	}
	b.dispatcher.Dispatch(types.CreditTokens{Amount: amount, Reason: "staking rewards"})
	return amount, nil
}
