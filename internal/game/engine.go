/*
Package game
File: engine.go
Description:
    The Engine owns the Economy State and serializes every access to it.

    Concurrency Strategy:
    - One RWMutex per Engine. Queries take the read lock and return copies.
    - Commands (purchase, reset, tick) run on a clone of the state and swap
      it in only when every step succeeded. A failed command leaves the
      live state untouched.
    - Notifications are published after the lock is released, so a slow
      listener can never stall the economy.
*/

package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Engine is the single owner of an Economy State.
type Engine struct {
	mu       sync.RWMutex
	state    *State
	balance  *Balance
	clock    Clock
	news     *NewsFeed
	meter    IncomeMeter
	logger   *log.Logger
	lastTick time.Time

	lastAnomalyNote time.Time // Rate-limits NoteAnomaly to one per anomalyNoteEvery
}

const anomalyNoteEvery = time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, e.g. with a FakeClock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNewsFeed shares an existing feed instead of creating one.
func WithNewsFeed(f *NewsFeed) Option {
	return func(e *Engine) { e.news = f }
}

// NewEngine builds a fresh economy from b.
func NewEngine(b *Balance, opts ...Option) *Engine {
	e := &Engine{
		balance: b,
		clock:   RealClock{},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.news == nil {
		e.news = NewNewsFeed()
	}
	now := e.clock.Now()
	e.state = NewState(b, now)
	e.lastTick = now
	e.meter.Observe(now, e.state.Resources.Primary)
	return e
}

// News exposes the outbound notification stream.
func (e *Engine) News() *NewsFeed { return e.news }

// Balance returns the tables the engine was built from. Callers must not mutate it.
func (e *Engine) Balance() *Balance { return e.balance }

// --- Commands ---

// PurchaseGenerator buys one unit of generator index (0-based).
func (e *Engine) PurchaseGenerator(index int) (Receipt, error) {
	return e.Purchase(GeneratorRef(index))
}

// PurchaseUpgrade buys upgrade index (0-based) of page 1 (A) or page 2 (B).
func (e *Engine) PurchaseUpgrade(page, index int) (Receipt, error) {
	switch page {
	case 1:
		return e.Purchase(PageARef(index))
	case 2:
		return e.Purchase(PageBRef(index))
	}
	err := fmt.Errorf("%w: upgrade page %d", ErrInvalidItem, page)
	e.logger.Printf("ENGINE: rejected purchase: %v", err)
	return Receipt{}, err
}

// PurchaseResetTierUpgrade buys reset-tier upgrade index and performs the
// tier-1 reset that comes with it, as one transaction.
func (e *Engine) PurchaseResetTierUpgrade(index int) (Receipt, error) {
	return e.Purchase(ResetUpgradeRef(index))
}

// Purchase buys any item.
func (e *Engine) Purchase(ref ItemRef) (Receipt, error) {
	e.mu.Lock()
	now := e.clock.Now()
	next := e.state.Clone()
	receipt, err := purchase(next, ref, EffectEnv{Balance: e.balance, Now: now})

	var report ResetReport
	isReset := err == nil && ref.Kind == KindResetUpgrade
	if isReset {
		report, err = performReset(next, e.balance, 1, now)
	}
	if err == nil {
		err = checkFinite(next)
	}
	if err != nil {
		e.noteFailure(err, "purchase "+ref.String())
		e.mu.Unlock()
		return Receipt{}, err
	}

	e.state = next
	if isReset {
		e.meter.Reset()
	}
	e.mu.Unlock()

	e.news.Publish(NotePurchase, receipt.Description, now)
	if isReset {
		e.publishReset(report, now)
	}
	return receipt, nil
}

// PerformReset runs reset tier 1, 2 or 3.
func (e *Engine) PerformReset(tier int) (ResetReport, error) {
	e.mu.Lock()
	now := e.clock.Now()
	next := e.state.Clone()
	report, err := performReset(next, e.balance, tier, now)
	if err != nil {
		e.noteFailure(err, fmt.Sprintf("reset tier %d", tier))
		e.mu.Unlock()
		return ResetReport{}, err
	}
	e.state = next
	e.meter.Reset()
	e.mu.Unlock()

	e.publishReset(report, now)
	return report, nil
}

// RecordSecretClick counts one click on the hidden achievement area.
func (e *Engine) RecordSecretClick() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.SecretClicks++
	return e.state.SecretClicks
}

// ScanAchievements evaluates the achievement table once and returns the new unlocks.
func (e *Engine) ScanAchievements() []Achievement {
	e.mu.Lock()
	now := e.clock.Now()
	next := e.state.Clone()
	idx := scanAchievements(next)
	e.state = next
	e.mu.Unlock()

	unlocked := make([]Achievement, 0, len(idx))
	for _, i := range idx {
		a := achievementTable[i]
		unlocked = append(unlocked, a)
		e.news.Publish(NoteAchievement, fmt.Sprintf("Achievement unlocked: %s", a.Name), now)
	}
	return unlocked
}

// noteFailure logs the diagnostics worth keeping and counts anomalies.
// Non-finite results also reach the news feed, at most once per second so a
// stuck 60 Hz tick cannot flood it. Caller holds e.mu.
func (e *Engine) noteFailure(err error, what string) {
	switch {
	case errors.Is(err, ErrNonFiniteComputation):
		e.state.Stats.Anomalies++
		e.logger.Printf("ENGINE: %s discarded: %v", what, err)
		now := e.clock.Now()
		if e.lastAnomalyNote.IsZero() || now.Sub(e.lastAnomalyNote) >= anomalyNoteEvery {
			e.lastAnomalyNote = now
			e.news.Publish(NoteAnomaly, fmt.Sprintf("Anomaly: %s discarded (%d so far)", what, e.state.Stats.Anomalies), now)
		}
	case errors.Is(err, ErrInvalidItem):
		e.logger.Printf("ENGINE: %s rejected: %v", what, err)
	case errors.Is(err, ErrResetFailed):
		e.logger.Printf("ENGINE: %s failed: %v", what, err)
	}
}

func (e *Engine) publishReset(r ResetReport, at time.Time) {
	e.news.Publish(NoteReset, fmt.Sprintf("Reset %d performed (#%d)", r.Tier, r.Count), at)
}

// --- Queries ---

// State returns a copy of the current Economy State.
func (e *Engine) State() *State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// IncomeVector returns the per-generator income per second.
func (e *Engine) IncomeVector() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ComputeIncomeVector(e.state)
}

// Cost returns the current price of ref.
func (e *Engine) Cost(ref ItemRef) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Cost(e.state, ref)
}

// CanAfford reports whether a purchase of ref would currently succeed.
func (e *Engine) CanAfford(ref ItemRef) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return CanAfford(e.state, ref)
}
