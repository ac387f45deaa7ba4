/*
Package game
File: state.go
Description:
    Loads and validates the balance tables and builds the initial Economy State.

    The balance is read from YAML (an embedded default ships with the binary).
    The State built from it is owned by the Engine; nothing here holds global
    mutable data.
*/

package game

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultBalance []byte

// DefaultBalance decodes the embedded 'balance.yaml'.
func DefaultBalance() (*Balance, error) {
	return ParseBalance(defaultBalance)
}

// LoadBalance reads a balance file from disk.
// An empty path falls back to the embedded default.
func LoadBalance(path string) (*Balance, error) {
	if path == "" {
		return DefaultBalance()
	}
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBalance(f)
}

// ParseBalance decodes and validates a YAML balance document.
func ParseBalance(data []byte) (*Balance, error) {
	var bal Balance
	if err := yaml.Unmarshal(data, &bal); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBalance, err)
	}
	if err := bal.Validate(); err != nil {
		return nil, err
	}
	return &bal, nil
}

// Validate checks the shape of the tables and that every effect is known to the registry.
func (b *Balance) Validate() error {
	if len(b.Generators) != GeneratorCount {
		return fmt.Errorf("%w: want %d generators, got %d", ErrInvalidBalance, GeneratorCount, len(b.Generators))
	}
	if len(b.ResetUpgrades) != ResetUpgradeCount {
		return fmt.Errorf("%w: want %d reset upgrades, got %d", ErrInvalidBalance, ResetUpgradeCount, len(b.ResetUpgrades))
	}
	if len(b.PageA) != PageASize {
		return fmt.Errorf("%w: want %d page A upgrades, got %d", ErrInvalidBalance, PageASize, len(b.PageA))
	}
	if len(b.PageB) != PageBSize {
		return fmt.Errorf("%w: want %d page B upgrades, got %d", ErrInvalidBalance, PageBSize, len(b.PageB))
	}

	starting := []struct {
		name string
		v    float64
	}{
		{"starting_primary", b.StartingPrimary},
		{"starting_secondary", b.StartingSecondary},
		{"per_second_count", b.PerSecondCount},
	}
	for _, f := range starting {
		if !nonNegative(f.v) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidBalance, f.name, f.v)
		}
	}
	m := b.Multipliers
	for _, v := range []float64{m.M1, m.M2, m.M4} {
		if !isFinite(v) || v <= 0 {
			return fmt.Errorf("%w: multipliers must be positive, got m1=%v m2=%v m4=%v", ErrInvalidBalance, m.M1, m.M2, m.M4)
		}
	}
	if m.M3 < 0 {
		return fmt.Errorf("%w: m3 is %d", ErrInvalidBalance, m.M3)
	}

	for i, g := range b.Generators {
		if !nonNegative(g.BaseCost) || !(g.CostGrowth > 1) || math.IsInf(g.CostGrowth, 0) {
			return fmt.Errorf("%w: generator %d has cost %v growth %v", ErrInvalidBalance, i, g.BaseCost, g.CostGrowth)
		}
		if !nonNegative(g.IncomeBase) || !nonNegative(g.Benefit) {
			return fmt.Errorf("%w: generator %d has income %v benefit %v", ErrInvalidBalance, i, g.IncomeBase, g.Benefit)
		}
	}
	for i, r := range b.ResetUpgrades {
		if !nonNegative(r.BaseCost) || !(r.CostGrowth > 1) || math.IsInf(r.CostGrowth, 0) || !nonNegative(r.PerLevel) {
			return fmt.Errorf("%w: reset upgrade %d has cost %v growth %v", ErrInvalidBalance, i, r.BaseCost, r.CostGrowth)
		}
	}

	pages := []struct {
		name string
		rows []UpgradeConfig
	}{{"A", b.PageA}, {"B", b.PageB}}
	for _, page := range pages {
		for i, u := range page.rows {
			if !nonNegative(u.Cost) {
				return fmt.Errorf("%w: page %s upgrade %d has negative cost", ErrInvalidBalance, page.name, i+1)
			}
			if u.Policy != OneShot && u.Policy != Repeat {
				return fmt.Errorf("%w: page %s upgrade %d has unknown policy %q", ErrInvalidBalance, page.name, i+1, u.Policy)
			}
			if u.Effect.ID != "" && !KnownEffect(u.Effect.ID) {
				return fmt.Errorf("%w: page %s upgrade %d has unknown effect %q", ErrInvalidBalance, page.name, i+1, u.Effect.ID)
			}
		}
	}

	for tier := 1; tier <= ResetTiers; tier++ {
		if err := b.Resets.For(tier).validate(); err != nil {
			return fmt.Errorf("%w: reset tier %d: %v", ErrInvalidBalance, tier, err)
		}
	}
	return nil
}

func nonNegative(v float64) bool { return isFinite(v) && v >= 0 }

// For returns the template of a reset tier. Unknown tiers get an empty template.
func (t ResetTemplates) For(tier int) ResetTemplate {
	switch tier {
	case 1:
		return t.Tier1
	case 2:
		return t.Tier2
	case 3:
		return t.Tier3
	}
	return ResetTemplate{}
}

// NewState builds a fresh economy from the balance.
// All reset timestamps start at 'now', the game start time.
func NewState(b *Balance, now time.Time) *State {
	s := &State{
		Resources: Resources{
			Primary:   b.StartingPrimary,
			Secondary: b.StartingSecondary,
		},
		PerSecondCount: b.PerSecondCount,
	}
	restoreSecondaryMultipliers(s)
	restoreMultipliers(s, b)
	restoreGenerators(s, b)
	restoreResetUpgrades(s, b)
	restorePageA(s, b)
	restorePageB(s, b)
	for i := range s.Resets {
		s.Resets[i].LastReset = now
	}
	return s
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	c := *s
	return &c
}

func restoreMultipliers(s *State, b *Balance) {
	s.Multipliers = Multipliers{
		M1: b.Multipliers.M1,
		M2: b.Multipliers.M2,
		M3: b.Multipliers.M3,
		M4: b.Multipliers.M4,
	}
}

func restoreSecondaryMultipliers(s *State) {
	s.Resources.SecondaryMultiplier1 = 1
	s.Resources.SecondaryMultiplier2 = 1
}

func restoreGenerators(s *State, b *Balance) {
	for i, g := range b.Generators {
		s.Generators[i] = Generator{
			Name:       g.Name,
			IncomeBase: g.IncomeBase,
			BaseCost:   g.BaseCost,
			CostGrowth: g.CostGrowth,
			Benefit:    g.Benefit,
		}
	}
}

func restoreResetUpgrades(s *State, b *Balance) {
	for i, r := range b.ResetUpgrades {
		s.ResetUpgrades[i] = ResetUpgrade{
			Name:       r.Name,
			BaseCost:   r.BaseCost,
			CostGrowth: r.CostGrowth,
			PerLevel:   r.PerLevel,
		}
	}
}

func restorePageA(s *State, b *Balance) {
	for i, u := range b.PageA {
		s.PageA[i] = newUpgrade(u)
	}
}

func restorePageB(s *State, b *Balance) {
	for i, u := range b.PageB {
		s.PageB[i] = newUpgrade(u)
	}
}

func newUpgrade(u UpgradeConfig) Upgrade {
	return Upgrade{
		Name:   u.Name,
		Cost:   u.Cost,
		Policy: u.Policy,
		Effect: u.Effect,
	}
}
