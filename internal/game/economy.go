/*
Package game
File: economy.go
Description:
    Handles the passive side of the economy.
    This includes:
    1. Accruing primary income once per scheduler tick.
    2. Advancing the play-time statistics and the rolling income meter.
    3. Crediting secondary resource earned by the external mechanism.
*/

package game

import (
	"fmt"
	"time"
)

// Tick accrues income for the time elapsed since the previous tick.
// A tick whose computation goes non-finite is discarded and counted as an anomaly.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	dt := now.Sub(e.lastTick)
	if dt <= 0 {
		return nil
	}
	e.lastTick = now

	next := e.state.Clone()

	// 1. Derive m2/m4 from canonical inputs, then compute the full income vector
	refreshDerived(next, now)
	income := ComputeTotalIncome(next)
	gain := income * dt.Seconds()
	if !isFinite(gain) {
		err := fmt.Errorf("%w: tick income %v over %s", ErrNonFiniteComputation, income, dt)
		e.noteFailure(err, "tick")
		return err
	}

	// 2. Single write to the pool
	next.Resources.Primary += gain
	advanceTimers(&next.Stats, dt)

	if err := checkFinite(next); err != nil {
		e.noteFailure(err, "tick")
		return err
	}

	// 3. Statistics
	e.meter.Observe(now, next.Resources.Primary)
	next.Stats.IncomePerSecond = e.meter.Average()

	e.state = next
	return nil
}

// CreditSecondary adds amount of secondary resource, scaled by both secondary multipliers.
// It returns the amount actually credited.
func (e *Engine) CreditSecondary(amount float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !isFinite(amount) {
		err := fmt.Errorf("%w: secondary credit %v", ErrNonFiniteComputation, amount)
		e.noteFailure(err, "secondary credit")
		return 0, err
	}
	if amount < 0 {
		return 0, fmt.Errorf("secondary credit must not be negative, got %v", amount)
	}

	r := e.state.Resources
	credited := amount * r.SecondaryMultiplier1 * r.SecondaryMultiplier2
	if !isFinite(r.Secondary + credited) {
		err := fmt.Errorf("%w: secondary credit %v", ErrNonFiniteComputation, credited)
		e.noteFailure(err, "secondary credit")
		return 0, err
	}
	e.state.Resources.Secondary += credited
	return credited, nil
}

// ElapsedSince reports how long ago tier was last reset.
func (e *Engine) ElapsedSince(tier int) (time.Duration, error) {
	if tier < 1 || tier > ResetTiers {
		return 0, fmt.Errorf("%w: unknown tier %d", ErrResetFailed, tier)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clock.Now().Sub(e.state.Resets[tier-1].LastReset), nil
}
