// Package craft implements material sufficiency checks and the atomic
// consume step of crafting. Consumption is all-or-nothing: if any single
// material is short, the inventory is left untouched.
package craft

import (
	"github.com/mwynn/realmforge/engine/state"
	"github.com/mwynn/realmforge/types"
)

// Missing returns the materials the inventory cannot cover, with Quantity
// set to the shortfall. An empty result means the recipe is craftable.
func Missing(inv []types.Item, r types.Recipe) []types.Material {
	var missing []types.Material
	for _, m := range r.Materials {
		held := state.HeldQuantity(inv, m.ItemID)
		if held < m.Quantity {
			missing = append(missing, types.Material{
				ItemID:   m.ItemID,
				Quantity: m.Quantity - held,
			})
		}
	}
	return missing
}

// Craftable reports whether every required material stack is covered.
func Craftable(inv []types.Item, r types.Recipe) bool {
	return len(Missing(inv, r)) == 0
}

// Consume subtracts the recipe's materials from the inventory and returns
// the new inventory. Stacks that reach zero are removed entirely. Returns
// ok=false with the input inventory unchanged if any material is
// insufficient; sufficiency is checked here, at commit time, regardless of
// what a caller verified earlier.
func Consume(inv []types.Item, r types.Recipe) ([]types.Item, bool) {
	if !Craftable(inv, r) {
		return inv, false
	}

	need := make(map[string]int, len(r.Materials))
	for _, m := range r.Materials {
		need[m.ItemID] += m.Quantity
	}

	out := make([]types.Item, 0, len(inv))
	for _, it := range inv {
		n, wanted := need[it.ID]
		if !wanted {
			out = append(out, it)
			continue
		}
		remaining := state.Qty(it) - n
		if remaining > 0 {
			it.Quantity = remaining
			out = append(out, it)
		}
		// remaining == 0: drop the stack.
	}
	return out, true
}
