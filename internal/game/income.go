/*
Package game
File: income.go
Description:
    The Income Engine. Pure functions that turn the current State into a
    per-generator income vector, plus the time-based multiplier formula.

    Formula per generator i (owned > 0):
        final = incomeBase*owned + sum(benefit[j]*owned[j] for j < i, owned[j] > 0)
        final *= (i+1)                  when m3 >= i+1
        total = final * 3 * perScount * m1 * m2 * m4
*/

package game

import "math"

// IncomeConstant is the fixed balance multiplier applied to every generator.
const IncomeConstant = 3

// Time multiplier tuning: m2 = clamp(x^(log2(x)/40), 1, 1000).
const (
	timeMultiplierDivisor = 40
	timeMultiplierCap     = 1000
)

// ComputeIncomeVector returns the instantaneous income per second of each generator.
// The meta perScount slot is not part of the vector.
func ComputeIncomeVector(s *State) []float64 {
	perScount := s.PerSecondCount
	if perScount == 0 || math.IsNaN(perScount) {
		perScount = 1
	}
	m := s.Multipliers

	incomes := make([]float64, GeneratorCount)
	bonus := 0.0 // Running sum of benefit from owned lower generators
	for i, g := range s.Generators {
		if g.OwnedCount > 0 {
			final := g.IncomeBase*float64(g.OwnedCount) + bonus
			if m.M3 >= i+1 {
				final *= float64(i + 1)
			}
			incomes[i] = final * IncomeConstant * perScount * m.M1 * m.M2 * m.M4
			bonus += g.EffectiveBenefit() * float64(g.OwnedCount)
		}
	}
	return incomes
}

// ComputeTotalIncome sums the income vector.
func ComputeTotalIncome(s *State) float64 {
	total := 0.0
	for _, v := range ComputeIncomeVector(s) {
		total += v
	}
	return total
}

// ComputeM2 evaluates the time multiplier for the seconds elapsed since the last tier-1 reset.
// The result is always within [1, 1000].
func ComputeM2(secondsSinceReset float64) float64 {
	if math.IsNaN(secondsSinceReset) {
		return 1
	}
	x := math.Max(secondsSinceReset, 1)
	raw := math.Pow(x, math.Log2(x)/timeMultiplierDivisor)
	if math.IsNaN(raw) {
		return 1
	}
	return math.Max(1, math.Min(raw, timeMultiplierCap))
}

// ComputeResetCountMultiplier is the linear m4 derivation: 1 + resets*perReset.
func ComputeResetCountMultiplier(resetCount int, perReset float64) float64 {
	return 1 + float64(resetCount)*perReset
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
