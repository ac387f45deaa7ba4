/*
Package game
File: models.go
Description:
    Defines the data structures of the economy.
    This file is the "schema" of the game: the balance tables decoded from
    'balance.yaml' and the runtime Economy State owned by the Engine.

    The State is built exclusively from fixed-size arrays and plain values,
    so a shallow copy is a full copy. Every mutating operation relies on
    this to work on a clone and swap it in only on success.
*/

package game

import (
	"fmt"
	"time"
)

// Fixed shape of the economy.
const (
	GeneratorCount    = 8
	ResetUpgradeCount = 3
	PageASize         = 10
	PageBSize         = 5
	ResetTiers        = 3
)

// Currency selects which resource pool pays for an item.
type Currency int

const (
	Primary Currency = iota
	Secondary
)

func (c Currency) String() string {
	if c == Secondary {
		return "secondary"
	}
	return "primary"
}

func (c Currency) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Currency) UnmarshalText(b []byte) error {
	switch string(b) {
	case "primary":
		*c = Primary
	case "secondary":
		*c = Secondary
	default:
		return fmt.Errorf("unknown currency %q", b)
	}
	return nil
}

// PurchasePolicy decides how an upgrade behaves when bought more than once.
type PurchasePolicy string

const (
	// OneShot upgrades flip Purchased once; later attempts are rejected.
	OneShot PurchasePolicy = "one_shot"
	// Repeat upgrades count purchases; each costs 1.5x the previous one.
	Repeat PurchasePolicy = "repeat"
)

// Section names a wholesale block of state that a reset template can restore.
type Section string

const (
	SectionMultipliers   Section = "multipliers"
	SectionGenerators    Section = "generators"
	SectionResetUpgrades Section = "reset_upgrades"
	SectionPageA         Section = "page_a"
	SectionPageB         Section = "page_b"
	SectionSecondary     Section = "secondary"
)

// --- Balance (YAML) ---

// Balance is the root configuration struct, mapping to the entire 'balance.yaml' file.
type Balance struct {
	StartingPrimary   float64              `yaml:"starting_primary"`
	StartingSecondary float64              `yaml:"starting_secondary"`
	PerSecondCount    float64              `yaml:"per_second_count"` // Meta slot: tick-count multiplier
	Multipliers       MultiplierConfig     `yaml:"multipliers"`
	Generators        []GeneratorConfig    `yaml:"generators"`
	ResetUpgrades     []ResetUpgradeConfig `yaml:"reset_upgrades"`
	PageA             []UpgradeConfig      `yaml:"page_a"`
	PageB             []UpgradeConfig      `yaml:"page_b"`
	Resets            ResetTemplates       `yaml:"resets"`
}

// MultiplierConfig holds the starting values of the global multiplier set.
type MultiplierConfig struct {
	M1 float64 `yaml:"m1"`
	M2 float64 `yaml:"m2"`
	M3 int     `yaml:"m3"`
	M4 float64 `yaml:"m4"`
}

// GeneratorConfig is one row of the generator table.
type GeneratorConfig struct {
	Name       string  `yaml:"name"`
	IncomeBase float64 `yaml:"income_base"` // Per-unit income contribution
	BaseCost   float64 `yaml:"base_cost"`   // Cost of the first unit
	CostGrowth float64 `yaml:"cost_growth"` // Cost multiplier per owned unit (> 1)
	Benefit    float64 `yaml:"benefit"`     // Bonus granted to every higher generator, per unit
}

// ResetUpgradeConfig is one of the three prestige-cycle upgrades.
type ResetUpgradeConfig struct {
	Name       string  `yaml:"name"`
	BaseCost   float64 `yaml:"base_cost"`
	CostGrowth float64 `yaml:"cost_growth"`
	PerLevel   float64 `yaml:"per_level"` // Effect magnitude per owned level (resonance only)
}

// UpgradeConfig describes a one-shot or repeat-buy upgrade and the effect it is bound to.
type UpgradeConfig struct {
	Name   string         `yaml:"name"`
	Cost   float64        `yaml:"cost"`
	Policy PurchasePolicy `yaml:"policy"`
	Effect EffectSpec     `yaml:"effect"`
}

// EffectSpec binds an upgrade to a registry entry plus its parameters.
// An empty ID means the upgrade carries no effect.
type EffectSpec struct {
	ID      EffectID `yaml:"id" json:"id"`
	Target  int      `yaml:"target" json:"target"`   // Generator index, -1 for all
	Amount  float64  `yaml:"amount" json:"amount"`   // Primary magnitude
	Amount2 float64  `yaml:"amount2" json:"amount2"` // Secondary magnitude
	Feature Feature  `yaml:"feature" json:"feature"` // Feature flag name
}

// ResetTemplates maps each reset tier to its declarative template.
type ResetTemplates struct {
	Tier1 ResetTemplate `yaml:"tier1"`
	Tier2 ResetTemplate `yaml:"tier2"`
	Tier3 ResetTemplate `yaml:"tier3"`
}

// ResetTemplate is a partial overlay describing what a reset overwrites.
// Nil pointers and absent entries leave the live field untouched.
type ResetTemplate struct {
	Primary    *float64         `yaml:"primary"`
	Secondary  *float64         `yaml:"secondary"`
	Generators []GeneratorPatch `yaml:"generators"`
	Restore    []Section        `yaml:"restore"` // Sections restored wholesale from the balance
}

// GeneratorPatch overwrites the listed fields of one generator.
type GeneratorPatch struct {
	Index      int      `yaml:"index"`
	OwnedCount *int     `yaml:"owned_count"`
	IncomeBase *float64 `yaml:"income_base"`
	BaseCost   *float64 `yaml:"base_cost"`
	CostGrowth *float64 `yaml:"cost_growth"`
	Benefit    *float64 `yaml:"benefit"`
}

// --- Runtime State ---

// Resources holds both currencies.
type Resources struct {
	Primary              float64 `json:"primary"`
	Secondary            float64 `json:"secondary"`
	SecondaryMultiplier1 float64 `json:"secondary_multiplier1"`
	SecondaryMultiplier2 float64 `json:"secondary_multiplier2"`
}

// Generator is a purchased producer ("trigger") and its live, possibly upgraded, parameters.
type Generator struct {
	Name       string  `json:"name"`
	IncomeBase float64 `json:"income_base"`
	OwnedCount int     `json:"owned_count"`
	BaseCost   float64 `json:"base_cost"`
	CostGrowth float64 `json:"cost_growth"`
	Benefit    float64 `json:"benefit"`

	// ResonanceBonus is granted by the resonance reset upgrade on top of Benefit.
	// Effects that scale Benefit never touch it.
	ResonanceBonus float64 `json:"resonance_bonus"`
}

// EffectiveBenefit is the per-unit bonus this generator passes to the ones above it.
func (g Generator) EffectiveBenefit() float64 {
	return g.Benefit + g.ResonanceBonus
}

// Multipliers is the global multiplier set. M3 is a stacking depth, not a factor.
type Multipliers struct {
	M1 float64 `json:"m1"`
	M2 float64 `json:"m2"`
	M3 int     `json:"m3"`
	M4 float64 `json:"m4"`
}

// ResetUpgrade is a repeatable prestige-cycle upgrade.
type ResetUpgrade struct {
	Name       string  `json:"name"`
	OwnedCount int     `json:"owned_count"`
	BaseCost   float64 `json:"base_cost"`
	CostGrowth float64 `json:"cost_growth"`
	PerLevel   float64 `json:"per_level"`
}

// Upgrade is a one-shot or repeat-buy upgrade on page A or B.
type Upgrade struct {
	Name        string         `json:"name"`
	Cost        float64        `json:"cost"`
	Policy      PurchasePolicy `json:"policy"`
	Effect      EffectSpec     `json:"effect"`
	Purchased   bool           `json:"purchased"`
	TimesBought int            `json:"times_bought"`
}

// Active reports whether the upgrade's effect is in force.
func (u Upgrade) Active() bool {
	return u.Purchased || u.TimesBought > 0
}

// ResetCounter tracks how often a tier was performed and when it last happened.
type ResetCounter struct {
	Count     int       `json:"count"`
	LastReset time.Time `json:"last_reset"`
}

// PermanentUnlocks are one-way flags that survive every reset.
type PermanentUnlocks struct {
	NoReset   [GeneratorCount]bool `json:"no_reset"`   // Generator exempt from tier-1 wiping
	HeadStart float64              `json:"head_start"` // Primary granted after each tier-1 reset, 0 when locked
}

// Feature is a flag consumed by the UI.
type Feature string

const (
	FeatureReset2             Feature = "reset2"
	FeatureSecondaryExtractor Feature = "secondary_extractor"
	FeatureChallenges         Feature = "challenges"
)

// Features holds UI unlocks granted by upgrades.
type Features struct {
	Reset2             bool `json:"reset2"`
	SecondaryExtractor bool `json:"secondary_extractor"`
	Challenges         bool `json:"challenges"`
}

// ResetSnapshot records the economy right before a reset, for history views.
type ResetSnapshot struct {
	Taken         time.Time     `json:"taken"`
	Primary       float64       `json:"primary"`
	Secondary     float64       `json:"secondary"`
	Upgrades      string        `json:"upgrades"` // JSON of the generator, reset upgrade, multiplier and page tables at reset time
	CycleDuration time.Duration `json:"cycle_duration"`
}

// Statistics are derived counters kept alongside the economy.
type Statistics struct {
	IncomePerSecond float64                   `json:"income_per_second"`
	TotalPlayTime   time.Duration             `json:"total_play_time"`
	SinceReset      [ResetTiers]time.Duration `json:"since_reset"`
	PreReset        [ResetTiers]ResetSnapshot `json:"pre_reset"`
	Anomalies       int                       `json:"anomalies"`
}

// State is the authoritative Economy State.
type State struct {
	Resources      Resources                       `json:"resources"`
	Generators     [GeneratorCount]Generator       `json:"generators"`
	PerSecondCount float64                         `json:"per_second_count"`
	Multipliers    Multipliers                     `json:"multipliers"`
	ResetUpgrades  [ResetUpgradeCount]ResetUpgrade `json:"reset_upgrades"`
	PageA          [PageASize]Upgrade              `json:"page_a"`
	PageB          [PageBSize]Upgrade              `json:"page_b"`
	Resets         [ResetTiers]ResetCounter        `json:"resets"`
	Unlocks        PermanentUnlocks                `json:"unlocks"`
	Features       Features                        `json:"features"`
	Achievements   [AchievementCount]bool          `json:"achievements"`
	Revealed       [AchievementCount]bool          `json:"revealed"`
	SecretClicks   int                             `json:"secret_clicks"`
	Stats          Statistics                      `json:"stats"`
}
