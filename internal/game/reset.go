/*
Package game
File: reset.go
Description:
    The Reset Engine. Performs the three prestige tiers against a declarative
    template loaded from the balance.

    performReset mutates the state it is given; the Engine always hands it a
    clone and only publishes the result when every step succeeded.
*/

package game

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"
)

var knownSections = []Section{
	SectionMultipliers,
	SectionGenerators,
	SectionResetUpgrades,
	SectionPageA,
	SectionPageB,
	SectionSecondary,
}

// ResetReport is returned by a successful reset.
type ResetReport struct {
	Tier     int           `json:"tier"`
	Count    int           `json:"count"`
	Snapshot ResetSnapshot `json:"snapshot"`
}

func (t ResetTemplate) validate() error {
	for _, v := range []*float64{t.Primary, t.Secondary} {
		if v != nil && (!isFinite(*v) || *v < 0) {
			return fmt.Errorf("resource value %v", *v)
		}
	}
	for _, p := range t.Generators {
		if p.Index < 0 || p.Index >= GeneratorCount {
			return fmt.Errorf("generator patch index %d out of range", p.Index)
		}
		if p.OwnedCount != nil && *p.OwnedCount < 0 {
			return fmt.Errorf("generator patch %d has negative owned count", p.Index)
		}
		if p.CostGrowth != nil && !(*p.CostGrowth > 1) {
			return fmt.Errorf("generator patch %d has growth %v", p.Index, *p.CostGrowth)
		}
	}
	for _, sec := range t.Restore {
		if !slices.Contains(knownSections, sec) {
			return fmt.Errorf("unknown section %q", sec)
		}
	}
	return nil
}

func (t ResetTemplate) restores(sec Section) bool {
	return slices.Contains(t.Restore, sec)
}

// performReset runs reset tier on s.
func performReset(s *State, b *Balance, tier int, now time.Time) (ResetReport, error) {
	if tier < 1 || tier > ResetTiers {
		return ResetReport{}, fmt.Errorf("%w: unknown tier %d", ErrResetFailed, tier)
	}
	tmpl := b.Resets.For(tier)
	if err := tmpl.validate(); err != nil {
		return ResetReport{}, fmt.Errorf("%w: tier %d template: %v", ErrResetFailed, tier, err)
	}

	// 1. Pre-reset snapshot
	snap, err := takeSnapshot(s, tier, now)
	if err != nil {
		return ResetReport{}, err
	}
	s.Stats.PreReset[tier-1] = snap

	// 2-3. Template
	applyTemplate(s, b, tmpl, tier == 1)
	rederiveSurviving(s, b, tmpl, now)

	// 4. Permanent unlocks
	if tier == 1 && s.Unlocks.HeadStart > 0 {
		s.Resources.Primary = math.Max(s.Resources.Primary, s.Unlocks.HeadStart)
	}

	// 5-6. Counters
	s.Resets[tier-1].Count++
	s.Resets[tier-1].LastReset = now
	s.Stats.SinceReset[tier-1] = 0

	// 7. Derived multipliers
	refreshDerived(s, now)

	if err := checkFinite(s); err != nil {
		return ResetReport{}, fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	return ResetReport{Tier: tier, Count: s.Resets[tier-1].Count, Snapshot: snap}, nil
}

// snapshotTables is the JSON document stored in ResetSnapshot.Upgrades.
type snapshotTables struct {
	Generators    [GeneratorCount]Generator       `json:"generators"`
	ResetUpgrades [ResetUpgradeCount]ResetUpgrade `json:"reset_upgrades"`
	Multipliers   Multipliers                     `json:"multipliers"`
	PageA         [PageASize]Upgrade              `json:"page_a"`
	PageB         [PageBSize]Upgrade              `json:"page_b"`
}

func takeSnapshot(s *State, tier int, now time.Time) (ResetSnapshot, error) {
	raw, err := json.Marshal(snapshotTables{
		Generators:    s.Generators,
		ResetUpgrades: s.ResetUpgrades,
		Multipliers:   s.Multipliers,
		PageA:         s.PageA,
		PageB:         s.PageB,
	})
	if err != nil {
		return ResetSnapshot{}, fmt.Errorf("%w: snapshot: %v", ErrResetFailed, err)
	}
	return ResetSnapshot{
		Taken:         now,
		Primary:       s.Resources.Primary,
		Secondary:     s.Resources.Secondary,
		Upgrades:      string(raw),
		CycleDuration: now.Sub(s.Resets[tier-1].LastReset),
	}, nil
}

// applyTemplate overwrites what the template lists. With exempt set, generators
// carrying a no-reset flag are skipped entirely.
func applyTemplate(s *State, b *Balance, t ResetTemplate, exempt bool) {
	if t.Primary != nil {
		s.Resources.Primary = *t.Primary
	}
	if t.Secondary != nil {
		s.Resources.Secondary = *t.Secondary
	}

	for _, sec := range t.Restore {
		switch sec {
		case SectionMultipliers:
			restoreMultipliers(s, b)
		case SectionGenerators:
			kept := s.Generators
			restoreGenerators(s, b)
			if exempt {
				for i, no := range s.Unlocks.NoReset {
					if no {
						s.Generators[i] = kept[i]
					}
				}
			}
		case SectionResetUpgrades:
			restoreResetUpgrades(s, b)
		case SectionPageA:
			restorePageA(s, b)
		case SectionPageB:
			restorePageB(s, b)
		case SectionSecondary:
			restoreSecondaryMultipliers(s)
		}
	}

	for _, p := range t.Generators {
		if exempt && s.Unlocks.NoReset[p.Index] {
			continue
		}
		g := &s.Generators[p.Index]
		if p.OwnedCount != nil {
			g.OwnedCount = *p.OwnedCount
		}
		if p.IncomeBase != nil {
			g.IncomeBase = *p.IncomeBase
		}
		if p.BaseCost != nil {
			g.BaseCost = *p.BaseCost
		}
		if p.CostGrowth != nil {
			g.CostGrowth = *p.CostGrowth
		}
		if p.Benefit != nil {
			g.Benefit = *p.Benefit
		}
	}
}

// rederiveSurviving re-applies the effects of purchases that outlived the reset
// onto the sections the template restored.
func rederiveSurviving(s *State, b *Balance, t ResetTemplate, now time.Time) {
	if len(t.Restore) == 0 {
		return
	}
	env := EffectEnv{Balance: b, Now: now}

	if !t.restores(SectionResetUpgrades) {
		if t.restores(SectionGenerators) {
			applyResonance(s)
			if s.ResetUpgrades[ResetUpgradeStreamlining].OwnedCount > 0 {
				applyStreamlining(s, b)
			}
		}
		if t.restores(SectionMultipliers) {
			s.Multipliers.M3 = b.Multipliers.M3 + s.ResetUpgrades[ResetUpgradeStacking].OwnedCount
		}
	}

	pages := []struct {
		sec  Section
		rows []Upgrade
	}{{SectionPageA, s.PageA[:]}, {SectionPageB, s.PageB[:]}}
	for _, page := range pages {
		if t.restores(page.sec) {
			continue
		}
		for _, u := range page.rows {
			if !u.Active() || u.Effect.ID == "" || !t.restores(effectTouches(u.Effect.ID)) {
				continue
			}
			times := 1
			if u.Policy == Repeat {
				times = u.TimesBought
			}
			for range times {
				applyEffect(s, u.Effect, env)
			}
		}
	}
}

// checkFinite rejects a state carrying NaN or Inf in any number the income engine reads.
func checkFinite(s *State) error {
	r := s.Resources
	for _, v := range []float64{r.Primary, r.Secondary, r.SecondaryMultiplier1, r.SecondaryMultiplier2} {
		if !isFinite(v) {
			return fmt.Errorf("%w: resource value %v", ErrNonFiniteComputation, v)
		}
	}
	m := s.Multipliers
	for _, v := range []float64{m.M1, m.M2, m.M4} {
		if !isFinite(v) {
			return fmt.Errorf("%w: multiplier value %v", ErrNonFiniteComputation, v)
		}
	}
	for i, g := range s.Generators {
		for _, v := range []float64{g.IncomeBase, g.BaseCost, g.CostGrowth, g.Benefit, g.ResonanceBonus} {
			if !isFinite(v) {
				return fmt.Errorf("%w: generator %d value %v", ErrNonFiniteComputation, i, v)
			}
		}
	}
	return nil
}
