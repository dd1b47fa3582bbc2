package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mwynn/realmforge/contract"
	"github.com/mwynn/realmforge/engine"
	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/sched"
	"github.com/mwynn/realmforge/types"
)

// Session interprets player commands against the engine. Queries read the
// current snapshot and return lines; action commands dispatch, and their
// outcome reaches the player through the event subscription, not through
// the return value. The REPL and the TUI both run on a Session.
type Session struct {
	Engine *engine.Engine
	Defs   *state.Defs
	Bridge *contract.Bridge
	Sched  *sched.Scheduler

	// Timescale is the real duration of one craft-time unit. Zero makes
	// crafting instantaneous.
	Timescale time.Duration

	// ContractTimeout bounds contract calls (seek, rewards, mint).
	ContractTimeout time.Duration
}

// Execute runs one command line and returns output lines for queries and
// status messages. Dispatched events are not echoed here.
func (s *Session) Execute(input string) []string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "status", "stats":
		return s.showStatus()
	case "inventory", "inv", "i":
		return s.showInventory()
	case "quests", "q":
		return s.showQuests()
	case "market", "shop":
		return s.showMarket()
	case "recipes":
		return s.showRecipes()
	case "regions", "map":
		return s.showRegions()
	case "guild":
		return s.showGuild()
	case "look", "l":
		return s.showRegion()

	case "move":
		return s.cmdMove(args)
	case "travel", "goto":
		return s.dispatchArg(args, "travel where? (see: regions)", func(id string) types.Action {
			return types.TravelToRegion{RegionID: id}
		})
	case "fight", "attack":
		return s.cmdFight(args)
	case "harvest", "gather":
		return s.cmdHarvest(args)
	case "equip":
		return s.cmdEquip(args)
	case "use", "consume":
		return s.dispatchArg(args, "use what?", func(id string) types.Action {
			return types.ConsumeItem{ItemID: id}
		})
	case "buy":
		return s.dispatchArg(args, "buy what? (see: market)", func(id string) types.Action {
			return types.PurchaseItem{ItemID: id}
		})
	case "craft":
		return s.cmdCraft(args)
	case "advance":
		return s.dispatchArg(args, "advance which quest?", func(id string) types.Action {
			return types.AdvanceQuest{QuestID: id}
		})
	case "claim":
		return s.dispatchArg(args, "claim which quest?", func(id string) types.Action {
			return types.CompleteQuest{QuestID: id}
		})
	case "join":
		return s.cmdJoin(args)
	case "found":
		if len(args) == 0 {
			return []string{"found a guild named what?"}
		}
		s.Engine.Dispatch(types.CreateGuild{Name: strings.Join(args, " ")})
		return nil
	case "contribute":
		return s.dispatchAmount(args, "contribute how much?", func(n int) types.Action {
			return types.ContributeTreasury{Amount: n}
		})
	case "stake":
		return s.cmdStake(args)
	case "allocate":
		return s.dispatchArg(args, "allocate to which stat? (strength/agility/intelligence/vitality)", func(stat string) types.Action {
			return types.AllocateSkillPoint{Stat: strings.ToLower(stat)}
		})

	case "seek":
		return s.cmdSeek()
	case "delve":
		return s.cmdDelve(args)
	case "rewards":
		return s.cmdRewards()
	case "mint":
		return s.cmdMint(args)

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for commands.", verb)}
	}
}

// dispatchArg dispatches a single-ID action, or returns usage when the ID
// is missing.
func (s *Session) dispatchArg(args []string, usage string, build func(string) types.Action) []string {
	if len(args) == 0 {
		return []string{usage}
	}
	s.Engine.Dispatch(build(args[0]))
	return nil
}

// dispatchAmount dispatches a numeric-amount action.
func (s *Session) dispatchAmount(args []string, usage string, build func(int) types.Action) []string {
	if len(args) == 0 {
		return []string{usage}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{fmt.Sprintf("%q is not a number.", args[0])}
	}
	s.Engine.Dispatch(build(n))
	return nil
}

func (s *Session) cmdMove(args []string) []string {
	if len(args) != 3 {
		return []string{"move needs three coordinates: move <x> <y> <z>"}
	}
	coords := make([]float64, 3)
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return []string{fmt.Sprintf("%q is not a number.", a)}
		}
		coords[i] = f
	}
	s.Engine.Dispatch(types.MovePlayer{Position: types.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}})
	return nil
}

func (s *Session) cmdFight(args []string) []string {
	if len(args) == 0 {
		return []string{"fight what? (see: look)"}
	}
	st := s.Engine.State()
	s.Engine.Dispatch(types.DefeatMonster{RegionID: st.Player.CurrentRegion, MonsterID: args[0]})
	return nil
}

func (s *Session) cmdHarvest(args []string) []string {
	if len(args) == 0 {
		return []string{"harvest what? (see: look)"}
	}
	st := s.Engine.State()
	s.Engine.Dispatch(types.HarvestResource{RegionID: st.Player.CurrentRegion, ResourceID: args[0]})
	return nil
}

func (s *Session) cmdEquip(args []string) []string {
	if len(args) == 0 {
		return []string{"equip what?"}
	}
	itemID := args[0]

	slot := ""
	if len(args) > 1 {
		slot = strings.ToLower(args[1])
	} else {
		// Derive the slot from the item's type.
		st := s.Engine.State()
		if i := state.ItemIndex(st.Inventory, itemID); i >= 0 {
			switch st.Inventory[i].Type {
			case types.ItemWeapon:
				slot = "weapon"
			case types.ItemArmor:
				slot = "armor"
			}
		}
	}

	s.Engine.Dispatch(types.EquipItem{ItemID: itemID, Slot: slot})
	return nil
}

func (s *Session) cmdCraft(args []string) []string {
	if len(args) == 0 {
		return []string{"craft what? (see: recipes)"}
	}
	recipeID := args[0]

	st := s.Engine.State()
	recipe, ok := state.RecipeByID(st, recipeID)
	if !ok {
		// Let the reducer reject it so the refusal is an event like any
		// other.
		s.Engine.Dispatch(types.CraftItem{RecipeID: recipeID})
		return nil
	}

	delay := time.Duration(recipe.CraftTime) * s.Timescale
	if delay <= 0 || s.Sched == nil {
		s.Engine.Dispatch(types.CraftItem{RecipeID: recipeID})
		return nil
	}

	// Timed craft: the commit (and its material re-check) happens when the
	// timer fires.
	s.Sched.After(delay, types.CraftItem{RecipeID: recipeID})
	return []string{fmt.Sprintf("Crafting %s... ready in %s.", recipe.Name, delay)}
}

func (s *Session) cmdJoin(args []string) []string {
	if len(args) == 0 {
		return []string{"join which guild? (guilds: " + s.guildDirectory() + ")"}
	}
	if s.Defs != nil {
		for _, g := range s.Defs.Guilds {
			if g.ID == args[0] {
				s.Engine.Dispatch(types.JoinGuild{Guild: g})
				return nil
			}
		}
	}
	return []string{fmt.Sprintf("No guild %q. Guilds: %s", args[0], s.guildDirectory())}
}

func (s *Session) guildDirectory() string {
	if s.Defs == nil || len(s.Defs.Guilds) == 0 {
		return "none"
	}
	ids := make([]string, len(s.Defs.Guilds))
	for i, g := range s.Defs.Guilds {
		ids[i] = g.ID
	}
	return strings.Join(ids, ", ")
}

func (s *Session) contractCtx() (context.Context, context.CancelFunc) {
	timeout := s.ContractTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (s *Session) cmdSeek() []string {
	if s.Bridge == nil {
		return []string{"No quest source available."}
	}
	ctx, cancel := s.contractCtx()
	defer cancel()

	st := s.Engine.State()
	if _, err := s.Bridge.SeekQuest(ctx, st.Player.ID, st.Player.Level); err != nil {
		return []string{fmt.Sprintf("The quest board is silent: %v", err)}
	}
	return nil
}

func (s *Session) cmdDelve(args []string) []string {
	if s.Bridge == nil {
		return []string{"No world source available."}
	}

	seed := time.Now().UnixNano()
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return []string{fmt.Sprintf("%q is not a number.", args[0])}
		}
		seed = n
	}

	ctx, cancel := s.contractCtx()
	defer cancel()

	if _, err := s.Bridge.ExploreDungeon(ctx, seed, s.Engine.State().Player.Level); err != nil {
		return []string{fmt.Sprintf("The depths stay sealed: %v", err)}
	}
	return nil
}

func (s *Session) cmdRewards() []string {
	if s.Bridge == nil {
		return []string{"No staking contract available."}
	}
	ctx, cancel := s.contractCtx()
	defer cancel()

	if _, err := s.Bridge.ClaimStakingRewards(ctx, s.Engine.State().Player.ID); err != nil {
		return []string{fmt.Sprintf("Claim failed: %v", err)}
	}
	return nil
}

func (s *Session) cmdStake(args []string) []string {
	if len(args) == 0 {
		return []string{"stake how much?"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{fmt.Sprintf("%q is not a number.", args[0])}
	}

	// Chain first when a contract is wired; the engine alone otherwise.
	if s.Bridge != nil {
		ctx, cancel := s.contractCtx()
		defer cancel()
		if err := s.Bridge.StakeTokens(ctx, s.Engine.State().Player.ID, n); err != nil {
			return []string{fmt.Sprintf("Stake failed: %v", err)}
		}
		return nil
	}
	s.Engine.Dispatch(types.StakeTokens{Amount: n})
	return nil
}

func (s *Session) cmdMint(args []string) []string {
	if len(args) == 0 {
		return []string{"mint which item?"}
	}
	if s.Bridge == nil {
		return []string{"No minting contract available."}
	}

	st := s.Engine.State()
	i := state.ItemIndex(st.Inventory, args[0])
	if i < 0 {
		return []string{fmt.Sprintf("You don't hold %q.", args[0])}
	}
	if st.Inventory[i].NFT {
		return []string{fmt.Sprintf("%s is already minted.", st.Inventory[i].Name)}
	}

	ctx, cancel := s.contractCtx()
	defer cancel()
	if _, err := s.Bridge.MintItem(ctx, st.Player.ID, st.Inventory[i]); err != nil {
		return []string{fmt.Sprintf("Mint failed: %v", err)}
	}
	return nil
}

func (s *Session) showStatus() []string {
	st := s.Engine.State()
	p := st.Player
	lines := []string{
		fmt.Sprintf("%s  Lv %d  (%d xp)", p.Name, p.Level, p.Experience),
		fmt.Sprintf("HP %d/%d  MP %d/%d", p.Health, p.MaxHealth, p.Mana, p.MaxMana),
		fmt.Sprintf("STR %d  AGI %d  INT %d  VIT %d  (skill points: %d)",
			p.Stats.Strength, p.Stats.Agility, p.Stats.Intelligence, p.Stats.Vitality, p.SkillPoints),
		fmt.Sprintf("Tokens: %d  (staked: %d)", p.Tokens, p.Staked),
	}
	if region, ok := state.CurrentRegion(st); ok {
		lines = append(lines, fmt.Sprintf("Region: %s", region.Name))
	}
	return lines
}

func (s *Session) showInventory() []string {
	st := s.Engine.State()
	if len(st.Inventory) == 0 {
		return []string{"Your bags are empty."}
	}
	lines := []string{"Inventory:"}
	for _, it := range st.Inventory {
		line := fmt.Sprintf("  %-14s %s [%s, %s]", it.ID, it.Name, it.Type, it.Rarity)
		if state.Qty(it) > 1 {
			line += fmt.Sprintf(" x%d", state.Qty(it))
		}
		if it.NFT {
			line += " (minted)"
		}
		lines = append(lines, line)
	}
	if len(st.Equipped) > 0 {
		lines = append(lines, "Equipped:")
		for slot, it := range st.Equipped {
			lines = append(lines, fmt.Sprintf("  %-14s %s", slot, it.Name))
		}
	}
	return lines
}

func (s *Session) showQuests() []string {
	st := s.Engine.State()
	if len(st.Quests) == 0 {
		return []string{"No active quests. Try: seek"}
	}
	lines := []string{"Quests:"}
	for _, q := range st.Quests {
		mark := " "
		if q.Completed {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-14s %s (%d/%d)", mark, q.ID, q.Title, q.Progress, len(q.Objectives)))
		for i, obj := range q.Objectives {
			done := " "
			if i < q.Progress {
				done = "x"
			}
			lines = append(lines, fmt.Sprintf("    [%s] %s", done, obj))
		}
	}
	return lines
}

func (s *Session) showMarket() []string {
	st := s.Engine.State()
	if len(st.Marketplace) == 0 {
		return []string{"The marketplace is empty."}
	}
	lines := []string{"Marketplace:"}
	for _, it := range st.Marketplace {
		lines = append(lines, fmt.Sprintf("  %-14s %s [%s] %d tokens", it.ID, it.Name, it.Rarity, it.Price))
	}
	return lines
}

func (s *Session) showRecipes() []string {
	st := s.Engine.State()
	if len(st.Recipes) == 0 {
		return []string{"You know no recipes."}
	}
	lines := []string{"Recipes:"}
	for _, r := range st.Recipes {
		parts := make([]string, len(r.Materials))
		for i, m := range r.Materials {
			parts[i] = fmt.Sprintf("%dx %s", m.Quantity, m.ItemID)
		}
		lines = append(lines, fmt.Sprintf("  %-14s %s (needs %s)", r.ID, r.Name, strings.Join(parts, ", ")))
	}
	return lines
}

func (s *Session) showRegions() []string {
	st := s.Engine.State()
	if len(st.Regions) == 0 {
		return []string{"The world is uncharted."}
	}
	lines := []string{"Regions:"}
	for _, r := range st.Regions {
		here := " "
		if r.ID == st.Player.CurrentRegion {
			here = ">"
		}
		line := fmt.Sprintf("%s %-14s %s", here, r.ID, r.Name)
		if r.Weather != "" {
			line += fmt.Sprintf(" (%s)", r.Weather)
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *Session) showRegion() []string {
	st := s.Engine.State()
	region, ok := state.CurrentRegion(st)
	if !ok {
		return []string{"You are nowhere in particular."}
	}

	lines := []string{region.Name}
	if region.Weather != "" {
		lines = append(lines, fmt.Sprintf("The weather is %s.", region.Weather))
	}
	for _, m := range region.Monsters {
		lines = append(lines, fmt.Sprintf("  monster   %-12s %s (Lv %d)", m.ID, m.Name, m.Level))
	}
	for _, r := range region.Resources {
		lines = append(lines, fmt.Sprintf("  resource  %-12s %s (%d left)", r.ID, r.Name, r.Quantity))
	}
	for _, n := range region.NPCs {
		lines = append(lines, fmt.Sprintf("  npc       %-12s %s", n.ID, n.Name))
	}
	if len(region.Monsters)+len(region.Resources)+len(region.NPCs) == 0 {
		lines = append(lines, "Nothing of note here.")
	}
	return lines
}

func (s *Session) showGuild() []string {
	st := s.Engine.State()
	if st.Guild == nil {
		return []string{"You are guildless. Try: join <guild>  or  found <name>"}
	}
	g := st.Guild
	lines := []string{
		fmt.Sprintf("%s (Lv %d)", g.Name, g.Level),
		fmt.Sprintf("Members: %d  Treasury: %d tokens", g.Members, g.Treasury),
	}
	if len(g.Territory) > 0 {
		lines = append(lines, fmt.Sprintf("Territory: %s", strings.Join(g.Territory, ", ")))
	}
	return lines
}
