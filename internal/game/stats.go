/*
Package game
File: stats.go
Description:
    Rolling income statistics and play-time counters.

    IncomeMeter samples the primary pool every 200ms and averages the
    per-second deltas over the last 5 seconds. Purchases make a delta
    negative; such samples are dropped rather than averaged in.
*/

package game

import "time"

const (
	MeterInterval = 200 * time.Millisecond
	MeterWindow   = 5 * time.Second
	meterMaxGap   = 10 * time.Second
)

type incomeSample struct {
	at     time.Time
	income float64
}

// IncomeMeter is not safe for concurrent use; the Engine calls it under its lock.
type IncomeMeter struct {
	samples   []incomeSample
	lastValue float64
	lastAt    time.Time
	started   bool
}

// Observe feeds the current primary balance. Calls closer than MeterInterval are ignored.
func (m *IncomeMeter) Observe(now time.Time, primary float64) {
	if !m.started {
		m.lastValue, m.lastAt, m.started = primary, now, true
		return
	}
	dt := now.Sub(m.lastAt)
	if dt < MeterInterval {
		return
	}
	if dt < meterMaxGap {
		rate := (primary - m.lastValue) / dt.Seconds()
		if isFinite(rate) && rate >= 0 {
			m.samples = append(m.samples, incomeSample{at: now, income: rate})
		}
	}
	m.lastValue, m.lastAt = primary, now

	cut := 0
	for cut < len(m.samples) && now.Sub(m.samples[cut].at) > MeterWindow {
		cut++
	}
	m.samples = m.samples[cut:]
}

// Average returns the mean income over the window, 0 with no samples.
func (m *IncomeMeter) Average() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range m.samples {
		sum += s.income
	}
	return sum / float64(len(m.samples))
}

// Reset forgets the history, e.g. when the pool was overwritten by a reset.
func (m *IncomeMeter) Reset() {
	m.samples = nil
	m.started = false
}

// advanceTimers adds dt of play time to the total and every per-tier counter.
func advanceTimers(st *Statistics, dt time.Duration) {
	st.TotalPlayTime += dt
	for i := range st.SinceReset {
		st.SinceReset[i] += dt
	}
}
