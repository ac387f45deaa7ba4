package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_KnowsBalanceEffects(t *testing.T) {
	_, b := newTestState(t)
	for _, u := range append(append([]UpgradeConfig{}, b.PageA...), b.PageB...) {
		if u.Effect.ID != "" {
			assert.True(t, KnownEffect(u.Effect.ID), u.Name)
		}
	}
	assert.False(t, KnownEffect("no_such_effect"))
}

func TestEffects_GeneratorTargets(t *testing.T) {
	s, b := newTestState(t)
	env := EffectEnv{Balance: b, Now: testStart}

	applyEffect(s, EffectSpec{ID: EffectAddBenefit, Target: 0, Amount: 0.05}, env)
	assert.InDelta(t, 0.15, s.Generators[0].Benefit, 1e-12)
	assert.InDelta(t, 0.2, s.Generators[1].Benefit, 1e-12)

	applyEffect(s, EffectSpec{ID: EffectScaleIncomeBase, Target: -1, Amount: 10}, env)
	for i, g := range s.Generators {
		assert.InDelta(t, b.Generators[i].IncomeBase*10, g.IncomeBase, 1e-12)
	}

	applyEffect(s, EffectSpec{ID: EffectScaleBenefitAndGrowth, Target: 0, Amount: 2, Amount2: 2}, env)
	assert.InDelta(t, 0.3, s.Generators[0].Benefit, 1e-12)
	assert.InDelta(t, 3.0, s.Generators[0].CostGrowth, 1e-12)

	// Out of range targets are ignored.
	before := *s
	applyEffect(s, EffectSpec{ID: EffectAddBenefit, Target: 99, Amount: 1}, env)
	applyEffect(s, EffectSpec{ID: EffectNoReset, Target: 99}, env)
	assert.Equal(t, before, *s)
}

func TestEffects_UnlocksAndFlags(t *testing.T) {
	s, b := newTestState(t)
	env := EffectEnv{Balance: b, Now: testStart}

	applyEffect(s, EffectSpec{ID: EffectNoReset, Target: 0}, env)
	applyEffect(s, EffectSpec{ID: EffectHeadStart, Amount: 100}, env)
	applyEffect(s, EffectSpec{ID: EffectUnlockFeature, Feature: FeatureReset2}, env)
	applyEffect(s, EffectSpec{ID: EffectUnlockFeature, Feature: FeatureChallenges}, env)

	assert.True(t, s.Unlocks.NoReset[0])
	assert.Equal(t, 100.0, s.Unlocks.HeadStart)
	assert.Equal(t, Features{Reset2: true, Challenges: true}, s.Features)

	// Empty effect is a no-op.
	before := *s
	applyEffect(s, EffectSpec{}, env)
	assert.Equal(t, before, *s)
}

func TestEffects_SecondaryResetBonusUsesResetCount(t *testing.T) {
	s, b := newTestState(t)
	s.Resets[0].Count = 3

	applyEffect(s, EffectSpec{ID: EffectSecondaryResetBonus, Amount: 0.2}, EffectEnv{Balance: b, Now: testStart})
	assert.InDelta(t, 1.6, s.Resources.SecondaryMultiplier1, 1e-12)
}

func TestStreamlining_FloorAndCap(t *testing.T) {
	s, b := newTestState(t)

	s.ResetUpgrades[ResetUpgradeStreamlining].OwnedCount = 1
	applyStreamlining(s, b)
	assert.Equal(t, b.Generators[0].CostGrowth, s.Generators[0].CostGrowth)
	assert.InDelta(t, 3*0.95, s.Generators[1].CostGrowth, 1e-12)

	s.ResetUpgrades[ResetUpgradeStreamlining].OwnedCount = 12
	applyStreamlining(s, b)
	assert.InDelta(t, 3*math.Pow(0.95, 5), s.Generators[1].CostGrowth, 1e-12)

	b.Generators[3].CostGrowth = 1.15
	applyStreamlining(s, b)
	assert.Equal(t, 1.1, s.Generators[3].CostGrowth)
}

func TestStacking_FlatIncrement(t *testing.T) {
	s, b := newTestState(t)
	for i := 1; i <= 3; i++ {
		s.ResetUpgrades[ResetUpgradeStacking].OwnedCount = i * 10
		applyResetUpgradeEffect(s, ResetUpgradeStacking, b)
		assert.Equal(t, 1+i, s.Multipliers.M3)
	}
}

func TestRefreshDerived_OnlyForActiveUpgrades(t *testing.T) {
	s, _ := newTestState(t)
	s.Resets[0].Count = 2
	later := testStart.Add(2 * time.Hour)

	refreshDerived(s, later)
	assert.Equal(t, 1.0, s.Multipliers.M2)
	assert.Equal(t, 1.0, s.Multipliers.M4)

	s.PageA[4].Purchased = true
	s.PageA[7].Purchased = true
	refreshDerived(s, later)
	assert.InDelta(t, ComputeM2(7200), s.Multipliers.M2, 1e-12)
	assert.InDelta(t, 1.4, s.Multipliers.M4, 1e-12)

	// Re-deriving never compounds.
	refreshDerived(s, later)
	assert.InDelta(t, 1.4, s.Multipliers.M4, 1e-12)
}

func TestResonance_IndependentOfBenefitScaling(t *testing.T) {
	scale := EffectSpec{ID: EffectScaleBenefitAndGrowth, Target: 0, Amount: 2, Amount2: 2}

	// Level 1, then the x2 page B effect, then level 2.
	s, b := newTestState(t)
	env := EffectEnv{Balance: b, Now: testStart}
	s.ResetUpgrades[ResetUpgradeResonance].OwnedCount = 1
	applyResonance(s)
	assert.InDelta(t, 0.2, s.Generators[0].EffectiveBenefit(), 1e-12)
	applyEffect(s, scale, env)
	assert.InDelta(t, 0.3, s.Generators[0].EffectiveBenefit(), 1e-12)
	s.ResetUpgrades[ResetUpgradeResonance].OwnedCount = 2
	applyResonance(s)

	// Both levels first, then the x2 effect.
	other, _ := newTestState(t)
	other.ResetUpgrades[ResetUpgradeResonance].OwnedCount = 2
	applyResonance(other)
	applyEffect(other, scale, env)

	assert.InDelta(t, 0.4, s.Generators[0].EffectiveBenefit(), 1e-12)
	assert.InDelta(t, 0.2, s.Generators[0].Benefit, 1e-12)
	assert.Equal(t, other.Generators, s.Generators)

	applyResonance(s)
	assert.Equal(t, other.Generators, s.Generators)
}
