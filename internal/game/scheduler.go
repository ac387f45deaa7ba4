package game

import (
	"context"
	"time"
)

// Schedule sets the cadences of the background loop.
type Schedule struct {
	Tick     time.Duration // Income accrual, ~60 Hz
	Scan     time.Duration // Achievement scan, ~1 Hz
	Snapshot time.Duration // OnSnapshot cadence, defaults to Scan

	// OnSnapshot, if set, receives a fresh snapshot every Snapshot period.
	OnSnapshot func(Snapshot)
}

// DefaultSchedule is 60 ticks per second and one scan per second.
func DefaultSchedule() Schedule {
	return Schedule{Tick: time.Second / 60, Scan: time.Second, Snapshot: time.Second}
}

func (s Schedule) withDefaults() Schedule {
	d := DefaultSchedule()
	if s.Tick <= 0 {
		s.Tick = d.Tick
	}
	if s.Scan <= 0 {
		s.Scan = d.Scan
	}
	if s.Snapshot <= 0 {
		s.Snapshot = s.Scan
	}
	return s
}

// Run drives the engine until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, sch Schedule) {
	sch = sch.withDefaults()
	e.logger.Printf("ENGINE: scheduler started (tick %s, scan %s)", sch.Tick, sch.Scan)

	tick := time.NewTicker(sch.Tick)
	defer tick.Stop()
	scan := time.NewTicker(sch.Scan)
	defer scan.Stop()
	snap := time.NewTicker(sch.Snapshot)
	defer snap.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Println("ENGINE: scheduler stopped")
			return
		case <-tick.C:
			// Non-finite ticks are already logged and counted.
			_ = e.Tick()
		case <-scan.C:
			e.ScanAchievements()
		case <-snap.C:
			if sch.OnSnapshot != nil {
				sch.OnSnapshot(e.Snapshot())
			}
		}
	}
}
