// Package progress implements the experience, level, and skill point rules.
package progress

import "github.com/mwynn/realmforge/types"

// DefaultXPPerLevel is used when the balance config carries no value.
const DefaultXPPerLevel = 1000

// Level derives the level for a total experience amount. The curve is
// linear: one level per xpPerLevel experience, starting at level 1.
func Level(experience, xpPerLevel int) int {
	if xpPerLevel <= 0 {
		xpPerLevel = DefaultXPPerLevel
	}
	if experience < 0 {
		experience = 0
	}
	return experience/xpPerLevel + 1
}

// Gain applies an experience grant to a player and returns the updated
// player plus the number of levels crossed. The new level is computed
// directly from the experience floor, not iteratively, so a single large
// grant that crosses several levels is handled in one step and grants one
// skill point per level crossed.
func Gain(p types.Player, amount, xpPerLevel int) (types.Player, int) {
	if amount <= 0 {
		return p, 0
	}

	p.Experience += amount
	newLevel := Level(p.Experience, xpPerLevel)

	levelsGained := newLevel - p.Level
	if levelsGained < 0 {
		levelsGained = 0
	}

	p.Level = newLevel
	p.SkillPoints += levelsGained
	return p, levelsGained
}
