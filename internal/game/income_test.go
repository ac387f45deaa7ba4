package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestState(t *testing.T) (*State, *Balance) {
	t.Helper()
	b, err := DefaultBalance()
	require.NoError(t, err)
	return NewState(b, testStart), b
}

func TestComputeIncomeVector_ZeroOwnedContributesNothing(t *testing.T) {
	s, _ := newTestState(t)
	for i := range s.Generators {
		s.Generators[i].IncomeBase = 1e9
		s.Generators[i].Benefit = 1e9
	}
	s.Multipliers.M3 = GeneratorCount

	for i, v := range ComputeIncomeVector(s) {
		assert.Zero(t, v, "generator %d", i)
	}
}

func TestComputeIncomeVector_BenefitFlowsToHigherGenerators(t *testing.T) {
	s, _ := newTestState(t)
	s.Generators[0].OwnedCount = 2
	s.Generators[1].OwnedCount = 1

	vec := ComputeIncomeVector(s)
	require.Len(t, vec, GeneratorCount)

	// gen0: 0.1*2 = 0.2, gen1: 0.2*1 + 0.1*2 = 0.4, both times the constant 3.
	assert.InDelta(t, 0.6, vec[0], 1e-12)
	assert.InDelta(t, 1.2, vec[1], 1e-12)
	assert.Zero(t, vec[2])
	assert.InDelta(t, 1.8, ComputeTotalIncome(s), 1e-12)
}

func TestComputeIncomeVector_StackingDepth(t *testing.T) {
	s, _ := newTestState(t)
	for i := 0; i < 3; i++ {
		s.Generators[i].OwnedCount = 1
	}
	base := ComputeIncomeVector(s)

	s.Multipliers.M3 = 2
	stacked := ComputeIncomeVector(s)

	// i+1 <= 2 for index 0 and 1; index 2 is unaffected.
	assert.InDelta(t, base[0]*1, stacked[0], 1e-12)
	assert.InDelta(t, base[1]*2, stacked[1], 1e-12)
	assert.InDelta(t, base[2], stacked[2], 1e-12)
}

func TestComputeIncomeVector_GlobalMultipliers(t *testing.T) {
	s, _ := newTestState(t)
	s.Generators[0].OwnedCount = 1
	before := ComputeTotalIncome(s)

	s.Multipliers.M1 = 2
	s.Multipliers.M2 = 3
	s.Multipliers.M4 = 1.5
	assert.InDelta(t, before*9, ComputeTotalIncome(s), 1e-12)
}

func TestComputeIncomeVector_PerSecondCountDefaultsToOne(t *testing.T) {
	s, _ := newTestState(t)
	s.Generators[0].OwnedCount = 1
	want := ComputeTotalIncome(s)

	s.PerSecondCount = 0
	assert.Equal(t, want, ComputeTotalIncome(s))
	s.PerSecondCount = math.NaN()
	assert.Equal(t, want, ComputeTotalIncome(s))

	s.PerSecondCount = 4
	assert.InDelta(t, want*4, ComputeTotalIncome(s), 1e-12)
}

func TestComputeM2_Boundaries(t *testing.T) {
	assert.Equal(t, 1.0, ComputeM2(0))
	assert.Equal(t, 1.0, ComputeM2(1))
	assert.Equal(t, 1.0, ComputeM2(-30))
	assert.Equal(t, 1.0, ComputeM2(math.NaN()))
	assert.Equal(t, 1000.0, ComputeM2(math.Inf(1)))
	assert.Equal(t, 1000.0, ComputeM2(1e7))
	assert.InDelta(t, math.Pow(2, 1.0/40), ComputeM2(2), 1e-12)
}

func TestComputeM2_NonDecreasingAndCapped(t *testing.T) {
	prev := ComputeM2(1)
	for sec := 1.0; sec < 5e6; sec *= 1.07 {
		v := ComputeM2(sec)
		require.GreaterOrEqual(t, v, prev, "at %v seconds", sec)
		require.LessOrEqual(t, v, 1000.0)
		prev = v
	}
	assert.Equal(t, 1000.0, prev)
}

func TestComputeResetCountMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, ComputeResetCountMultiplier(0, 0.2))
	assert.InDelta(t, 1.6, ComputeResetCountMultiplier(3, 0.2), 1e-12)
}
