// Package economy implements the debit-on-sufficiency token rules shared
// by purchases, treasury contributions, staking, and guild creation. A
// debit either succeeds in full or leaves the balance untouched; no code
// path may produce a negative balance.
package economy

// CanAfford reports whether a balance covers a cost. Negative costs are
// never affordable; they would be disguised credits.
func CanAfford(balance, cost int) bool {
	return cost >= 0 && balance >= cost
}

// Debit subtracts cost from balance. Returns the input balance and
// ok=false when the funds are insufficient.
func Debit(balance, cost int) (int, bool) {
	if !CanAfford(balance, cost) {
		return balance, false
	}
	return balance - cost, true
}

// Transfer moves amount from one balance to another, all or nothing.
// Zero and negative amounts are refused; there is nothing to move.
func Transfer(from, to, amount int) (newFrom, newTo int, ok bool) {
	if amount <= 0 {
		return from, to, false
	}
	newFrom, ok = Debit(from, amount)
	if !ok {
		return from, to, false
	}
	return newFrom, to + amount, true
}
