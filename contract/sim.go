package contract

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mwynn/realmforge/types"
)

// Simulated implements every contract interface in-process with seeded
// randomness and artificial latency. It stands in for real chain clients
// during development and in tests.
type Simulated struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency time.Duration
	seq     int
}

// NewSimulated builds a simulated client. Latency of zero resolves calls
// immediately, which is what tests want.
func NewSimulated(seed int64, latency time.Duration) *Simulated {
	return &Simulated{
		rng:     rand.New(rand.NewSource(seed)),
		latency: latency,
	}
}

// wait blocks for the configured latency or until the context is done.
func (s *Simulated) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// next returns a fresh sequence number for generated IDs.
func (s *Simulated) next() int {
	s.seq++
	return s.seq
}

var questTemplates = []types.Quest{
	{
		Title:      "Slay the Ancient Dragon",
		Objectives: []string{"Find the dragon's lair", "Defeat the dragon", "Claim the treasure"},
		Rewards:    types.Rewards{Tokens: 1000, Experience: 500},
	},
	{
		Title:      "Collect Rare Herbs",
		Objectives: []string{"Gather 10 Moonflowers", "Find 5 Dragon Roots"},
		Rewards:    types.Rewards{Tokens: 200, Experience: 150},
	},
}

// GenerateQuest returns one of the quest templates with a unique ID.
// Difficulty scales the token and experience rewards.
func (s *Simulated) GenerateQuest(ctx context.Context, playerID string, difficulty int) (types.Quest, error) {
	if err := s.wait(ctx); err != nil {
		return types.Quest{}, err
	}
	if difficulty < 1 {
		difficulty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := questTemplates[s.rng.Intn(len(questTemplates))]
	q.ID = fmt.Sprintf("quest_gen_%d", s.next())
	q.Objectives = append([]string{}, q.Objectives...)
	q.Rewards.Tokens *= difficulty
	q.Rewards.Experience *= difficulty
	return q, nil
}

// MintItem returns a token ID for the item. The simulated chain never
// refuses a mint.
func (s *Simulated) MintItem(ctx context.Context, playerID string, item types.Item) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("nft_%d_%08x", s.next(), s.rng.Uint32()), nil
}

// Stake records the stake. The simulated chain accepts any positive amount.
func (s *Simulated) Stake(ctx context.Context, playerID string, amount int) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("stake amount must be positive, got %d", amount)
	}
	return nil
}

// ClaimRewards returns a pseudo-random reward between 50 and 149 tokens.
func (s *Simulated) ClaimRewards(ctx context.Context, playerID string) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(100) + 50, nil
}

var dungeonNames = []string{
	"Forgotten Depths",
	"Sunken Crypt",
	"Ember Hollow",
	"Hall of Echoes",
}

// GenerateDungeon builds a 10x10 instance with leveled monsters and a boss.
// The same seed always yields the same dungeon.
func (s *Simulated) GenerateDungeon(ctx context.Context, seed int64, difficulty int) (Dungeon, error) {
	if err := s.wait(ctx); err != nil {
		return Dungeon{}, err
	}

	rng := rand.New(rand.NewSource(seed))

	layout := make([][]int, 10)
	for y := range layout {
		layout[y] = make([]int, 10)
		for x := range layout[y] {
			layout[y][x] = rng.Intn(4)
		}
	}

	monsters := make([]types.Monster, 5)
	for i := range monsters {
		monsters[i] = types.Monster{
			ID:         fmt.Sprintf("monster_%d", i),
			Name:       "Goblin",
			Level:      difficulty + rng.Intn(3),
			Experience: (difficulty + 1) * 20,
			Position:   types.Vec3{X: float64(rng.Intn(10)), Z: float64(rng.Intn(10))},
		}
	}

	return Dungeon{
		ID:       fmt.Sprintf("dungeon_%d", seed),
		Name:     dungeonNames[rng.Intn(len(dungeonNames))],
		Layout:   layout,
		Monsters: monsters,
		Boss: types.Monster{
			ID:         "boss_dragon",
			Name:       "Dragon",
			Level:      difficulty + 5,
			Experience: (difficulty + 5) * 100,
			Position:   types.Vec3{X: 9, Z: 9},
		},
	}, nil
}
