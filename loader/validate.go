package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known item types.
var validItemTypes = map[types.ItemType]bool{
	types.ItemWeapon:     true,
	types.ItemArmor:      true,
	types.ItemConsumable: true,
	types.ItemMaterial:   true,
}

// Known rarity names. Empty means unstated and compiles to common;
// anything else outside the set is a content error, since ParseRarity
// would otherwise fold it into common silently.
var validRarities = map[string]bool{
	"":          true,
	"common":    true,
	"rare":      true,
	"epic":      true,
	"legendary": true,
}

// validate checks the compiled defs for referential integrity and
// consistency. rawItems carries the uncompiled item tables so the
// rarity names can be checked before compilation folds them.
func validate(defs *state.Defs, rawItems []rawDef) error {
	ve := &ValidationError{}

	if defs.World.Name == "" {
		ve.Errors = append(ve.Errors, "World.Name is required")
	}

	if defs.World.StartRegion == "" {
		ve.Errors = append(ve.Errors, "World.Start is required")
	} else if !hasRegion(defs, defs.World.StartRegion) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start region %q not found in defined regions", defs.World.StartRegion))
	}

	for id, item := range defs.Items {
		if item.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("item %q has no name", id))
		}
		if !validItemTypes[item.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"item %q has unknown type %q", id, item.Type))
		}
	}

	for _, raw := range rawItems {
		if name := getString(raw.table, "rarity"); !validRarities[name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"item %q has unknown rarity %q", raw.id, name))
		}
	}

	validateRegions(defs, ve)
	validateQuests(defs, ve)
	validateRecipes(defs, ve)
	validateGuilds(defs, ve)

	// Market listings need a price; a free listing is almost always a
	// forgotten field.
	for _, listing := range defs.Marketplace {
		if listing.Price <= 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"market item %q has no price", listing.ID))
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateRegions(defs *state.Defs, ve *ValidationError) {
	seen := map[string]bool{}
	for _, region := range defs.Regions {
		if seen[region.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate region ID %q", region.ID))
		}
		seen[region.ID] = true

		monsterIDs := map[string]bool{}
		for _, m := range region.Monsters {
			if m.ID == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"region %q has a monster with no id", region.ID))
				continue
			}
			if monsterIDs[m.ID] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"region %q has duplicate monster ID %q", region.ID, m.ID))
			}
			monsterIDs[m.ID] = true
		}

		for _, r := range region.Resources {
			if r.ItemID == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"region %q resource %q names no item", region.ID, r.ID))
				continue
			}
			if _, ok := defs.Items[r.ItemID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"region %q resource %q references undefined item %q", region.ID, r.ID, r.ItemID))
			}
		}
	}
}

func validateQuests(defs *state.Defs, ve *ValidationError) {
	seen := map[string]bool{}
	for _, quest := range defs.Quests {
		if seen[quest.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate quest ID %q", quest.ID))
		}
		seen[quest.ID] = true

		if quest.Title == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("quest %q has no title", quest.ID))
		}
		if len(quest.Objectives) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("quest %q has no objectives", quest.ID))
		}
		for _, item := range quest.Rewards.Items {
			if _, ok := defs.Items[item.ID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"quest %q reward references undefined item %q", quest.ID, item.ID))
			}
		}
	}
}

func validateRecipes(defs *state.Defs, ve *ValidationError) {
	seen := map[string]bool{}
	for _, recipe := range defs.Recipes {
		if seen[recipe.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate recipe ID %q", recipe.ID))
		}
		seen[recipe.ID] = true

		if len(recipe.Materials) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("recipe %q requires no materials", recipe.ID))
		}
		for _, m := range recipe.Materials {
			if _, ok := defs.Items[m.ItemID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"recipe %q references undefined material %q", recipe.ID, m.ItemID))
			}
			if m.Quantity <= 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"recipe %q material %q needs a positive quantity", recipe.ID, m.ItemID))
			}
		}
		if _, ok := defs.Items[recipe.Result.ID]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"recipe %q result references undefined item %q", recipe.ID, recipe.Result.ID))
		}
	}
}

func validateGuilds(defs *state.Defs, ve *ValidationError) {
	seen := map[string]bool{}
	for _, guild := range defs.Guilds {
		if seen[guild.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate guild ID %q", guild.ID))
		}
		seen[guild.ID] = true

		if guild.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("guild %q has no name", guild.ID))
		}
		for _, territory := range guild.Territory {
			if !hasRegion(defs, territory) {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"guild %q claims undefined region %q", guild.ID, territory))
			}
		}
	}
}

func hasRegion(defs *state.Defs, regionID string) bool {
	for _, r := range defs.Regions {
		if r.ID == regionID {
			return true
		}
	}
	return false
}
