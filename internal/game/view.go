package game

import "time"

// GeneratorView is the read-only projection of one generator for the UI.
type GeneratorView struct {
	Generator
	Key        string  `json:"key"`
	Cost       float64 `json:"cost"`
	Income     float64 `json:"income"`
	Affordable bool    `json:"affordable"`
}

// UpgradeView projects a page or reset-tier upgrade.
type UpgradeView struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Currency    Currency `json:"currency"`
	Cost        float64  `json:"cost"`
	Purchased   bool     `json:"purchased"`
	TimesBought int      `json:"times_bought,omitempty"`
	OwnedCount  int      `json:"owned_count,omitempty"`
	Affordable  bool     `json:"affordable"`
}

// AchievementView hides the name of concealed achievements until they are revealed.
type AchievementView struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Unlocked    bool          `json:"unlocked"`
	Hidden      bool          `json:"hidden"`
}

// Snapshot is a consistent, read-only view of the economy at one instant.
type Snapshot struct {
	At            time.Time         `json:"at"`
	Resources     Resources         `json:"resources"`
	Multipliers   Multipliers       `json:"multipliers"`
	TotalIncome   float64           `json:"total_income"`
	Generators    []GeneratorView   `json:"generators"`
	PageA         []UpgradeView     `json:"page_a"`
	PageB         []UpgradeView     `json:"page_b"`
	ResetUpgrades []UpgradeView     `json:"reset_upgrades"`
	Resets        []ResetCounter    `json:"resets"`
	Unlocks       PermanentUnlocks  `json:"unlocks"`
	Features      Features          `json:"features"`
	Achievements  []AchievementView `json:"achievements"`
	Stats         Statistics        `json:"stats"`
}

// Snapshot returns the outbound query view of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return buildSnapshot(e.state, e.clock.Now())
}

func buildSnapshot(s *State, now time.Time) Snapshot {
	incomes := ComputeIncomeVector(s)
	snap := Snapshot{
		At:          now,
		Resources:   s.Resources,
		Multipliers: s.Multipliers,
		Resets:      append([]ResetCounter(nil), s.Resets[:]...),
		Unlocks:     s.Unlocks,
		Features:    s.Features,
		Stats:       s.Stats,
	}

	for i, g := range s.Generators {
		ref := GeneratorRef(i)
		cost, _ := Cost(s, ref)
		snap.Generators = append(snap.Generators, GeneratorView{
			Generator:  g,
			Key:        ref.String(),
			Cost:       cost,
			Income:     incomes[i],
			Affordable: CanAfford(s, ref),
		})
		snap.TotalIncome += incomes[i]
	}
	for i, u := range s.PageA {
		snap.PageA = append(snap.PageA, upgradeView(s, PageARef(i), u))
	}
	for i, u := range s.PageB {
		snap.PageB = append(snap.PageB, upgradeView(s, PageBRef(i), u))
	}
	for i, r := range s.ResetUpgrades {
		ref := ResetUpgradeRef(i)
		cost, _ := Cost(s, ref)
		snap.ResetUpgrades = append(snap.ResetUpgrades, UpgradeView{
			Key:        ref.String(),
			Name:       r.Name,
			Currency:   ref.Currency(),
			Cost:       cost,
			OwnedCount: r.OwnedCount,
			Affordable: CanAfford(s, ref),
		})
	}
	for i, a := range achievementTable {
		v := AchievementView{ID: a.ID, Name: a.Name, Description: a.Description, Unlocked: s.Achievements[i]}
		if a.Hidden() && !s.Revealed[i] {
			v.Name, v.Description, v.Hidden = "???", "???", true
		}
		snap.Achievements = append(snap.Achievements, v)
	}
	return snap
}

func upgradeView(s *State, ref ItemRef, u Upgrade) UpgradeView {
	cost, _ := Cost(s, ref)
	return UpgradeView{
		Key:         ref.String(),
		Name:        u.Name,
		Currency:    ref.Currency(),
		Cost:        cost,
		Purchased:   u.Purchased,
		TimesBought: u.TimesBought,
		Affordable:  CanAfford(s, ref),
	}
}
