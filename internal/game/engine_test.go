package game

import (
	"bytes"
	"context"
	"io"
	"log"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *FakeClock) {
	t.Helper()
	b, err := DefaultBalance()
	require.NoError(t, err)
	clock := NewFakeClock(testStart)
	e := NewEngine(b, WithClock(clock), WithLogger(log.New(io.Discard, "", 0)))
	return e, clock
}

// mutate edits the live state directly, bypassing the command path.
func mutate(e *Engine, fn func(s *State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

func TestEngine_TickAccruesIncome(t *testing.T) {
	e, clock := newTestEngine(t)
	_, err := e.PurchaseGenerator(0)
	require.NoError(t, err)
	require.Equal(t, 0.0, e.State().Resources.Primary)

	clock.Advance(2 * time.Second)
	require.NoError(t, e.Tick())

	s := e.State()
	assert.InDelta(t, 0.6, s.Resources.Primary, 1e-9) // 0.1 * 3 per second
	assert.Equal(t, 2*time.Second, s.Stats.TotalPlayTime)
	assert.Equal(t, 2*time.Second, s.Stats.SinceReset[0])
}

func TestEngine_TickWithoutElapsedTimeIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)
	before := e.State()
	require.NoError(t, e.Tick())
	assert.Equal(t, before, e.State())
}

func TestEngine_TickDerivesTimeMultiplier(t *testing.T) {
	e, clock := newTestEngine(t)
	mutate(e, func(s *State) { s.PageA[4].Purchased = true })

	clock.Advance(time.Hour)
	require.NoError(t, e.Tick())
	assert.InDelta(t, ComputeM2(3600), e.State().Multipliers.M2, 1e-12)
}

func TestEngine_NonFiniteTickIsDiscarded(t *testing.T) {
	var logs bytes.Buffer
	b, err := DefaultBalance()
	require.NoError(t, err)
	clock := NewFakeClock(testStart)
	e := NewEngine(b, WithClock(clock), WithLogger(log.New(&logs, "", 0)))

	mutate(e, func(s *State) {
		s.Generators[0].OwnedCount = 1
		s.Multipliers.M1 = math.Inf(1)
		s.Resources.Primary = 10
	})

	clock.Advance(time.Second)
	err = e.Tick()
	assert.ErrorIs(t, err, ErrNonFiniteComputation)

	s := e.State()
	assert.Equal(t, 10.0, s.Resources.Primary)
	assert.Zero(t, s.Stats.TotalPlayTime)
	assert.Equal(t, 1, s.Stats.Anomalies)
	assert.Contains(t, logs.String(), "tick discarded")

	notes := e.News().Recent(0)
	require.Len(t, notes, 1)
	assert.Equal(t, NoteAnomaly, notes[0].Kind)
	assert.Equal(t, "Anomaly: tick discarded (1 so far)", notes[0].Message)

	// A stuck tick keeps counting but is announced at most once per second.
	clock.Advance(100 * time.Millisecond)
	assert.ErrorIs(t, e.Tick(), ErrNonFiniteComputation)
	assert.Equal(t, 2, e.State().Stats.Anomalies)
	assert.Len(t, e.News().Recent(0), 1)

	clock.Advance(time.Second)
	assert.ErrorIs(t, e.Tick(), ErrNonFiniteComputation)
	assert.Len(t, e.News().Recent(0), 2)
}

func TestEngine_PurchaseFailureLeavesStateUnchanged(t *testing.T) {
	e, _ := newTestEngine(t)
	before := e.State()

	_, err := e.PurchaseGenerator(1)
	assert.ErrorIs(t, err, ErrInsufficientResource)
	_, err = e.PurchaseUpgrade(3, 0)
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, err = e.PurchaseUpgrade(2, 0)
	assert.ErrorIs(t, err, ErrInsufficientResource)

	assert.Equal(t, before, e.State())
	assert.Empty(t, e.News().Recent(0))
}

func TestEngine_ResetTierUpgradeTriggersReset(t *testing.T) {
	e, clock := newTestEngine(t)
	mutate(e, func(s *State) {
		s.Resources.Primary = 250
		s.Generators[0].OwnedCount = 3
		s.Generators[2].OwnedCount = 1
	})
	clock.Advance(time.Minute)

	receipt, err := e.PurchaseResetTierUpgrade(ResetUpgradeStacking)
	require.NoError(t, err)
	assert.Equal(t, 200.0, receipt.Cost)

	s := e.State()
	assert.Equal(t, 1, s.ResetUpgrades[ResetUpgradeStacking].OwnedCount)
	assert.Equal(t, 2, s.Multipliers.M3)
	assert.Equal(t, 1, s.Resets[0].Count)
	assert.Equal(t, 1.0, s.Resources.Primary)
	assert.Zero(t, s.Generators[0].OwnedCount)
	assert.Zero(t, s.Generators[2].OwnedCount)
	assert.Equal(t, 50.0, s.Stats.PreReset[0].Primary) // snapshot is taken after paying

	notes := e.News().Recent(0)
	require.Len(t, notes, 2)
	assert.Equal(t, NotePurchase, notes[0].Kind)
	assert.Equal(t, NoteReset, notes[1].Kind)
}

func TestEngine_ResonanceIsRecomputedNotStacked(t *testing.T) {
	e, _ := newTestEngine(t)
	mutate(e, func(s *State) { s.Resources.Primary = 1e6 })

	_, err := e.PurchaseResetTierUpgrade(ResetUpgradeResonance)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, e.State().Generators[0].EffectiveBenefit(), 1e-12)

	mutate(e, func(s *State) { s.Resources.Primary = 1e6 })
	_, err = e.PurchaseResetTierUpgrade(ResetUpgradeResonance)
	require.NoError(t, err)

	s := e.State()
	assert.InDelta(t, 0.3, s.Generators[0].EffectiveBenefit(), 1e-12)
	assert.InDelta(t, 0.1, s.Generators[0].Benefit, 1e-12)
	assert.InDelta(t, 1.0, s.Generators[7].EffectiveBenefit(), 1e-12)
}

func TestEngine_CreditSecondary(t *testing.T) {
	e, _ := newTestEngine(t)
	mutate(e, func(s *State) { s.Resources.SecondaryMultiplier1 = 2 })

	got, err := e.CreditSecondary(5)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)
	assert.Equal(t, 10.0, e.State().Resources.Secondary)

	_, err = e.CreditSecondary(math.NaN())
	assert.ErrorIs(t, err, ErrNonFiniteComputation)
	_, err = e.CreditSecondary(-1)
	assert.Error(t, err)
	assert.Equal(t, 10.0, e.State().Resources.Secondary)
}

func TestEngine_ConcurrentPurchasesAreSerialized(t *testing.T) {
	e, _ := newTestEngine(t)
	mutate(e, func(s *State) { s.Resources.Primary = 1000 })

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		spent float64
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				r, err := e.PurchaseGenerator(0)
				if err != nil {
					return
				}
				mu.Lock()
				spent += r.Cost
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s := e.State()
	assert.InDelta(t, 1000, s.Resources.Primary+spent, 1e-6)
	assert.False(t, CanAfford(s, GeneratorRef(0)))
}

func TestEngine_ElapsedSince(t *testing.T) {
	e, clock := newTestEngine(t)
	clock.Advance(90 * time.Second)

	d, err := e.ElapsedSince(1)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = e.ElapsedSince(4)
	assert.ErrorIs(t, err, ErrResetFailed)
}

func TestEngine_Snapshot(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.PurchaseGenerator(0)
	require.NoError(t, err)

	snap := e.Snapshot()
	require.Len(t, snap.Generators, GeneratorCount)
	require.Len(t, snap.PageA, PageASize)
	require.Len(t, snap.PageB, PageBSize)
	require.Len(t, snap.ResetUpgrades, ResetUpgradeCount)
	require.Len(t, snap.Achievements, AchievementCount)

	assert.Equal(t, "trigger-0", snap.Generators[0].Key)
	assert.Equal(t, 1.5, snap.Generators[0].Cost)
	assert.InDelta(t, 0.3, snap.TotalIncome, 1e-12)
	assert.Equal(t, "1-3-1", snap.PageB[0].Key)
	assert.Equal(t, Secondary, snap.PageB[0].Currency)
	assert.Equal(t, "???", snap.Achievements[AchievementCount-1].Name)
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	b, err := DefaultBalance()
	require.NoError(t, err)
	e := NewEngine(b, WithLogger(log.New(io.Discard, "", 0)))

	snapshots := make(chan Snapshot, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx, Schedule{
			Tick:     time.Millisecond,
			Scan:     5 * time.Millisecond,
			Snapshot: 5 * time.Millisecond,
			OnSnapshot: func(s Snapshot) {
				select {
				case snapshots <- s:
				default:
				}
			},
		})
		close(done)
	}()

	select {
	case <-snapshots:
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
