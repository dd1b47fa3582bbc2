package cli

import (
	"fmt"

	"github.com/mwynn/realmforge/types"
)

// FormatEvent renders one engine event as a player-facing line. Both the
// REPL and the TUI print events through this, so sync dispatches and async
// merge-backs read identically.
func FormatEvent(ev types.Event) string {
	d := ev.Data
	switch ev.Type {
	case types.EventPlayerMoved:
		return fmt.Sprintf("You move to (%v, %v, %v).", d["x"], d["y"], d["z"])
	case types.EventExperienceGained:
		return fmt.Sprintf("You gain %v experience (%v total).", d["amount"], d["total"])
	case types.EventLevelUp:
		return fmt.Sprintf("Level up! You are now level %v (+%v skill points).", d["to"], d["skill_points"])
	case types.EventItemAdded:
		return fmt.Sprintf("%v added to your inventory.", d["name"])
	case types.EventItemRemoved:
		return fmt.Sprintf("%v removed from your inventory.", d["item"])
	case types.EventItemEquipped:
		return fmt.Sprintf("You equip %v in the %v slot.", d["name"], d["slot"])
	case types.EventItemConsumed:
		return fmt.Sprintf("You use %v.", d["name"])
	case types.EventItemCrafted:
		return fmt.Sprintf("You craft %v.", d["name"])
	case types.EventItemPurchased:
		return fmt.Sprintf("You buy %v for %v tokens.", d["name"], d["price"])
	case types.EventItemMinted:
		return fmt.Sprintf("%v minted on chain (token %v).", d["item"], d["token_id"])
	case types.EventQuestAdded:
		return fmt.Sprintf("New quest: %v.", d["title"])
	case types.EventQuestAdvanced:
		return fmt.Sprintf("Quest progress: %v/%v.", d["progress"], d["objectives"])
	case types.EventQuestCompleted:
		return fmt.Sprintf("Quest complete: %v! Claim your rewards.", d["title"])
	case types.EventQuestClaimed:
		return fmt.Sprintf("Rewards claimed for %v: %v tokens, %v experience.", d["title"], d["tokens"], d["experience"])
	case types.EventGuildJoined:
		return fmt.Sprintf("You join %v.", d["name"])
	case types.EventGuildCreated:
		return fmt.Sprintf("You found %v for %v tokens.", d["name"], d["cost"])
	case types.EventTreasuryContribution:
		return fmt.Sprintf("You contribute %v tokens to the treasury (now %v).", d["amount"], d["treasury"])
	case types.EventRegionEntered:
		return fmt.Sprintf("You travel to %v.", d["name"])
	case types.EventRegionDiscovered:
		return fmt.Sprintf("You discover %v! %v monsters lurk within.", d["name"], d["monsters"])
	case types.EventMonsterDefeated:
		return fmt.Sprintf("You defeat %v!", d["name"])
	case types.EventResourceHarvested:
		return fmt.Sprintf("You harvest %v x%v.", d["item"], d["yield"])
	case types.EventTokensStaked:
		return fmt.Sprintf("You stake %v tokens (%v staked in total).", d["amount"], d["staked"])
	case types.EventTokensCredited:
		return fmt.Sprintf("You receive %v tokens (%v).", d["amount"], d["reason"])
	case types.EventSkillPointSpent:
		return fmt.Sprintf("You raise %v (%v points left).", d["stat"], d["remaining"])
	case types.EventActionRejected:
		return fmt.Sprintf("Can't do that: %v.", d["reason"])
	default:
		return string(ev.Type)
	}
}
