/*
Package game
File: mechanics.go
Description:
    The rules helper used by automated play (the headless simulator).
    It picks what a greedy player would buy next and drives the Engine
    through its public commands, so every automated purchase goes through
    the same transaction path as a player's.
*/

package game

import "math"

// NextPurchase returns the item a greedy player buys next.
// An affordable reset-tier upgrade always wins, since buying it is what moves
// the run forward; otherwise the cheapest affordable item is chosen.
func NextPurchase(s *State) (ItemRef, bool) {
	for i := ResetUpgradeCount - 1; i >= 0; i-- {
		if ref := ResetUpgradeRef(i); CanAfford(s, ref) {
			return ref, true
		}
	}

	best, found := ItemRef{}, false
	bestCost := math.Inf(1)
	consider := func(ref ItemRef) {
		if !CanAfford(s, ref) {
			return
		}
		// Normalize by the paying pool so secondary items compete fairly.
		cost, _ := Cost(s, ref)
		if avail := *pool(s, ref.Currency()); avail > 0 {
			cost /= avail
		}
		if cost < bestCost {
			best, bestCost, found = ref, cost, true
		}
	}
	for i := range GeneratorCount {
		consider(GeneratorRef(i))
	}
	for i := range PageASize {
		consider(PageARef(i))
	}
	for i := range PageBSize {
		consider(PageBRef(i))
	}
	return best, found
}

// AutoBuy performs up to limit greedy purchases and returns their receipts.
func (e *Engine) AutoBuy(limit int) []Receipt {
	var receipts []Receipt
	for len(receipts) < limit {
		ref, ok := NextPurchase(e.State())
		if !ok {
			break
		}
		r, err := e.Purchase(ref)
		if err != nil {
			break
		}
		receipts = append(receipts, r)
	}
	return receipts
}
