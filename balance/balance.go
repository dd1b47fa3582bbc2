// Package balance loads the numeric game tuning from YAML. Missing or
// zero-valued fields fall back to the built-in defaults, so a partial
// balance file only overrides what it names.
package balance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwynn/realmforge/types"
)

// Default returns the built-in tuning values.
func Default() types.Balance {
	return types.Balance{
		XPPerLevel:     1000,
		StartingTokens: 1000,
		StartingHealth: 100,
		StartingMana:   50,
		GuildCost:      1000,
	}
}

// Load reads a YAML balance file and layers it over the defaults.
func Load(path string) (types.Balance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Balance{}, fmt.Errorf("reading balance file: %w", err)
	}

	var b types.Balance
	if err := yaml.Unmarshal(data, &b); err != nil {
		return types.Balance{}, fmt.Errorf("parsing balance file %s: %w", path, err)
	}
	return withDefaults(b), nil
}

// withDefaults fills zero fields from Default.
func withDefaults(b types.Balance) types.Balance {
	def := Default()
	if b.XPPerLevel <= 0 {
		b.XPPerLevel = def.XPPerLevel
	}
	if b.StartingTokens <= 0 {
		b.StartingTokens = def.StartingTokens
	}
	if b.StartingHealth <= 0 {
		b.StartingHealth = def.StartingHealth
	}
	if b.StartingMana <= 0 {
		b.StartingMana = def.StartingMana
	}
	if b.GuildCost <= 0 {
		b.GuildCost = def.GuildCost
	}
	return b
}
