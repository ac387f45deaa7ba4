/*
Package game
File: purchase.go
Description:
    The Purchase Engine: cost rules, affordability checks and the mutation
    applied on a successful purchase.

    Costs are re-evaluated on every call and never cached:
    - Generator / reset-tier upgrade: baseCost * costGrowth^owned
    - One-shot upgrade: fixed cost, rejected once purchased
    - Repeat-buy upgrade: cost * 1.5^timesBought
*/

package game

import (
	"fmt"
	"math"
)

// RepeatCostGrowth is the geometric cost growth of repeat-buy upgrades.
const RepeatCostGrowth = 1.5

// Receipt describes a completed purchase.
type Receipt struct {
	Item        ItemRef  `json:"item"`
	Key         string   `json:"key"`
	Cost        float64  `json:"cost"`
	Currency    Currency `json:"currency"`
	Description string   `json:"description"`
}

// Cost returns the current price of an item.
func Cost(s *State, ref ItemRef) (float64, error) {
	if err := ref.Validate(); err != nil {
		return 0, err
	}
	var cost float64
	switch ref.Kind {
	case KindGenerator:
		g := s.Generators[ref.Index]
		cost = g.BaseCost * math.Pow(g.CostGrowth, float64(g.OwnedCount))
	case KindResetUpgrade:
		r := s.ResetUpgrades[ref.Index]
		cost = r.BaseCost * math.Pow(r.CostGrowth, float64(r.OwnedCount))
	case KindPageA, KindPageB:
		cost = upgradeCost(*upgradeAt(s, ref))
	}
	if !isFinite(cost) {
		return 0, fmt.Errorf("%w: cost of %s is %v", ErrNonFiniteComputation, ref, cost)
	}
	return cost, nil
}

func upgradeCost(u Upgrade) float64 {
	if u.Policy == Repeat {
		return u.Cost * math.Pow(RepeatCostGrowth, float64(u.TimesBought))
	}
	return u.Cost
}

// CanAfford reports whether a purchase of ref would currently succeed.
func CanAfford(s *State, ref ItemRef) bool {
	if ref.Kind == KindPageA || ref.Kind == KindPageB {
		if ref.Validate() != nil {
			return false
		}
		if u := upgradeAt(s, ref); u.Policy != Repeat && u.Purchased {
			return false
		}
	}
	cost, err := Cost(s, ref)
	if err != nil {
		return false
	}
	return cost <= *pool(s, ref.Currency())
}

// purchase applies a purchase to s in place. On error s is left untouched.
// Reset-tier upgrades only get their owned count and tier effect here; the
// tier-1 reset that follows is the Engine's job.
func purchase(s *State, ref ItemRef, env EffectEnv) (Receipt, error) {
	if err := ref.Validate(); err != nil {
		return Receipt{}, err
	}

	var u *Upgrade
	if ref.Kind == KindPageA || ref.Kind == KindPageB {
		u = upgradeAt(s, ref)
		if u.Policy != Repeat && u.Purchased {
			return Receipt{}, fmt.Errorf("%w: %s", ErrAlreadyPurchased, ref)
		}
	}

	cost, err := Cost(s, ref)
	if err != nil {
		return Receipt{}, err
	}
	balance := pool(s, ref.Currency())
	if *balance < cost {
		return Receipt{}, fmt.Errorf("%w: %s costs %v, have %v %s", ErrInsufficientResource, ref, cost, *balance, ref.Currency())
	}

	// Affordability confirmed: mutate.
	*balance -= cost

	receipt := Receipt{Item: ref, Key: ref.String(), Cost: cost, Currency: ref.Currency()}
	switch ref.Kind {
	case KindGenerator:
		g := &s.Generators[ref.Index]
		g.OwnedCount++
		receipt.Description = fmt.Sprintf("Purchased %s (%d owned)", g.Name, g.OwnedCount)
	case KindResetUpgrade:
		r := &s.ResetUpgrades[ref.Index]
		r.OwnedCount++
		applyResetUpgradeEffect(s, ref.Index, env.Balance)
		receipt.Description = fmt.Sprintf("Purchased reset upgrade %s (level %d)", r.Name, r.OwnedCount)
	case KindPageA, KindPageB:
		if u.Policy == Repeat {
			u.TimesBought++
			receipt.Description = fmt.Sprintf("Bought upgrade %s %q again (#%d)", displayKey(ref), u.Name, u.TimesBought)
		} else {
			u.Purchased = true
			receipt.Description = fmt.Sprintf("Purchased upgrade %s %q", displayKey(ref), u.Name)
		}
		applyEffect(s, u.Effect, env)
	}
	return receipt, nil
}

func upgradeAt(s *State, ref ItemRef) *Upgrade {
	if ref.Kind == KindPageB {
		return &s.PageB[ref.Index]
	}
	return &s.PageA[ref.Index]
}

func pool(s *State, c Currency) *float64 {
	if c == Secondary {
		return &s.Resources.Secondary
	}
	return &s.Resources.Primary
}

// displayKey is the short "page-number" label the news feed uses, e.g. "1-3" or "2-5".
func displayKey(ref ItemRef) string {
	if ref.Kind == KindPageB {
		return fmt.Sprintf("2-%d", ref.Index+1)
	}
	return fmt.Sprintf("1-%d", ref.Index+1)
}
