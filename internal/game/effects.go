/*
Package game
File: effects.go
Description:
    The Upgrade Effect Registry.

    Each effect is looked up by id and applied exactly once per successful
    purchase. Effects that the game keeps in force continuously (the time
    multiplier m2 and the reset-count multiplier m4) only mark themselves
    active here; their values are re-derived every tick by refreshDerived.

    Reset-tier upgrade effects scale with the owned count of that upgrade
    and are recomputed from it, never stacked across calls (stacking is the
    one exception: it bumps m3 by exactly one per purchase).
*/

package game

import (
	"math"
	"time"
)

// EffectID names a registry entry.
type EffectID string

const (
	EffectMultiplyM1            EffectID = "multiply_m1"
	EffectAddBenefit            EffectID = "add_benefit"
	EffectScaleCostGrowth       EffectID = "scale_cost_growth"
	EffectScaleIncomeBase       EffectID = "scale_income_base"
	EffectScaleBenefitAndGrowth EffectID = "scale_benefit_and_growth"
	EffectNoReset               EffectID = "no_reset"
	EffectHeadStart             EffectID = "head_start"
	EffectTimeMultiplier        EffectID = "time_multiplier"
	EffectResetCountMultiplier  EffectID = "reset_count_multiplier"
	EffectSecondaryResetBonus   EffectID = "secondary_reset_bonus"
	EffectUnlockFeature         EffectID = "unlock_feature"
)

// Reset-tier upgrade indexes.
const (
	ResetUpgradeResonance = iota
	ResetUpgradeStacking
	ResetUpgradeStreamlining
)

// Streamlining tuning: growth = max(1.1, base * 0.95^min(owned, 5)).
const (
	streamlineFactor    = 0.95
	streamlineMaxLevels = 5
	streamlineFloor     = 1.1
)

// EffectEnv carries what an effect may read besides the state.
type EffectEnv struct {
	Balance *Balance
	Now     time.Time
}

// EffectFunc mutates the (cloned) state in place.
type EffectFunc func(s *State, spec EffectSpec, env EffectEnv)

type effectDef struct {
	apply EffectFunc
	// touches is the state section the effect writes. When a full reset restores
	// that section while the purchase survives, the effect is re-derived.
	touches Section
}

var registry = map[EffectID]effectDef{
	EffectMultiplyM1: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			s.Multipliers.M1 *= spec.Amount
		},
		touches: SectionMultipliers,
	},
	EffectAddBenefit: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			forTargets(s, spec.Target, func(g *Generator) { g.Benefit += spec.Amount })
		},
		touches: SectionGenerators,
	},
	EffectScaleCostGrowth: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			forTargets(s, spec.Target, func(g *Generator) { g.CostGrowth *= spec.Amount })
		},
		touches: SectionGenerators,
	},
	EffectScaleIncomeBase: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			forTargets(s, spec.Target, func(g *Generator) { g.IncomeBase *= spec.Amount })
		},
		touches: SectionGenerators,
	},
	EffectScaleBenefitAndGrowth: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			forTargets(s, spec.Target, func(g *Generator) {
				g.Benefit *= spec.Amount
				g.CostGrowth *= spec.Amount2
			})
		},
		touches: SectionGenerators,
	},
	EffectNoReset: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			if spec.Target >= 0 && spec.Target < GeneratorCount {
				s.Unlocks.NoReset[spec.Target] = true
			}
		},
	},
	EffectHeadStart: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			s.Unlocks.HeadStart = math.Max(s.Unlocks.HeadStart, spec.Amount)
		},
	},
	// m2 and m4 are derived every tick once the owning upgrade is active.
	EffectTimeMultiplier: {
		apply: func(s *State, _ EffectSpec, env EffectEnv) {
			refreshDerived(s, env.Now)
		},
		touches: SectionMultipliers,
	},
	EffectResetCountMultiplier: {
		apply: func(s *State, _ EffectSpec, env EffectEnv) {
			refreshDerived(s, env.Now)
		},
		touches: SectionMultipliers,
	},
	EffectSecondaryResetBonus: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			s.Resources.SecondaryMultiplier1 *= ComputeResetCountMultiplier(s.Resets[0].Count, spec.Amount)
		},
		touches: SectionSecondary,
	},
	EffectUnlockFeature: {
		apply: func(s *State, spec EffectSpec, _ EffectEnv) {
			switch spec.Feature {
			case FeatureReset2:
				s.Features.Reset2 = true
			case FeatureSecondaryExtractor:
				s.Features.SecondaryExtractor = true
			case FeatureChallenges:
				s.Features.Challenges = true
			}
		},
	},
}

// KnownEffect reports whether the registry has an entry for id.
func KnownEffect(id EffectID) bool {
	_, ok := registry[id]
	return ok
}

// applyEffect runs the effect bound to an upgrade. Upgrades without an effect are a no-op.
func applyEffect(s *State, spec EffectSpec, env EffectEnv) {
	if def, ok := registry[spec.ID]; ok {
		def.apply(s, spec, env)
	}
}

func effectTouches(id EffectID) Section {
	return registry[id].touches
}

func forTargets(s *State, target int, fn func(g *Generator)) {
	if target < 0 {
		for i := range s.Generators {
			fn(&s.Generators[i])
		}
		return
	}
	if target < GeneratorCount {
		fn(&s.Generators[target])
	}
}

// applyResetUpgradeEffect applies the tier effect of reset-tier upgrade index right after a purchase.
func applyResetUpgradeEffect(s *State, index int, b *Balance) {
	switch index {
	case ResetUpgradeResonance:
		applyResonance(s)
	case ResetUpgradeStacking:
		s.Multipliers.M3++
	case ResetUpgradeStreamlining:
		applyStreamlining(s, b)
	}
}

// applyResonance sets every generator's resonance bonus to perLevel*owned.
func applyResonance(s *State) {
	up := s.ResetUpgrades[ResetUpgradeResonance]
	bonus := up.PerLevel * float64(up.OwnedCount)
	for i := range s.Generators {
		s.Generators[i].ResonanceBonus = bonus
	}
}

// applyStreamlining recomputes the growth of generators 1..7 from their balance value.
func applyStreamlining(s *State, b *Balance) {
	owned := s.ResetUpgrades[ResetUpgradeStreamlining].OwnedCount
	reduction := math.Pow(streamlineFactor, float64(min(owned, streamlineMaxLevels)))
	for i := 1; i < GeneratorCount; i++ {
		s.Generators[i].CostGrowth = math.Max(streamlineFloor, b.Generators[i].CostGrowth*reduction)
	}
}

// refreshDerived recomputes the continuously derived multipliers from canonical inputs.
func refreshDerived(s *State, now time.Time) {
	for _, u := range upgrades(s) {
		if !u.Active() {
			continue
		}
		switch u.Effect.ID {
		case EffectTimeMultiplier:
			since := now.Sub(s.Resets[0].LastReset).Seconds()
			s.Multipliers.M2 = ComputeM2(math.Max(0, since))
		case EffectResetCountMultiplier:
			s.Multipliers.M4 = ComputeResetCountMultiplier(s.Resets[0].Count, u.Effect.Amount)
		}
	}
}

func upgrades(s *State) []Upgrade {
	all := make([]Upgrade, 0, PageASize+PageBSize)
	all = append(all, s.PageA[:]...)
	return append(all, s.PageB[:]...)
}
