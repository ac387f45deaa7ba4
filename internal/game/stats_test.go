package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIncomeMeter_Average(t *testing.T) {
	var m IncomeMeter
	at := testStart
	m.Observe(at, 0)
	assert.Zero(t, m.Average())

	// +2 per 200ms = 10/s, then +4 per 200ms = 20/s.
	at = at.Add(MeterInterval)
	m.Observe(at, 2)
	at = at.Add(MeterInterval)
	m.Observe(at, 6)
	assert.InDelta(t, 15, m.Average(), 1e-9)

	// Too soon: ignored.
	m.Observe(at.Add(50*time.Millisecond), 1000)
	assert.InDelta(t, 15, m.Average(), 1e-9)
}

func TestIncomeMeter_DropsBadSamples(t *testing.T) {
	var m IncomeMeter
	at := testStart
	m.Observe(at, 100)

	at = at.Add(time.Second)
	m.Observe(at, 40) // a purchase: negative rate
	assert.Zero(t, m.Average())

	at = at.Add(time.Second)
	m.Observe(at, math.Inf(1))
	assert.Zero(t, m.Average())

	// Baseline moved on even though the samples were dropped.
	at = at.Add(time.Second)
	m.Observe(at, 50)
	at = at.Add(time.Second)
	m.Observe(at, 60)
	assert.InDelta(t, 10, m.Average(), 1e-9)
}

func TestIncomeMeter_WindowAndGap(t *testing.T) {
	var m IncomeMeter
	at := testStart
	m.Observe(at, 0)
	at = at.Add(time.Second)
	m.Observe(at, 100) // 100/s

	// A long gap records nothing and ages the old sample out.
	at = at.Add(20 * time.Second)
	m.Observe(at, 200)
	assert.Zero(t, m.Average())

	at = at.Add(time.Second)
	m.Observe(at, 205)
	assert.InDelta(t, 5, m.Average(), 1e-9)

	m.Reset()
	assert.Zero(t, m.Average())
}

func TestAdvanceTimers(t *testing.T) {
	var st Statistics
	st.SinceReset[1] = time.Minute
	advanceTimers(&st, 3*time.Second)

	assert.Equal(t, 3*time.Second, st.TotalPlayTime)
	assert.Equal(t, [ResetTiers]time.Duration{3 * time.Second, time.Minute + 3*time.Second, 3 * time.Second}, st.SinceReset)
}
