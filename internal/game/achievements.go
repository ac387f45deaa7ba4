package game

// AchievementCount is the size of the achievement table.
const AchievementCount = 12

// SecretClickGoal reveals and unlocks the hidden achievement.
const SecretClickGoal = 25

// AchievementID is the stable key the UI uses, e.g. "ac-1-1".
type AchievementID string

// Achievement is one entry of the table scanned by the engine.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	// Reveal is set on hidden achievements. Until it holds, Check is not evaluated.
	Reveal func(s *State) bool
	Check  func(s *State) bool
}

// Hidden reports whether the achievement starts concealed.
func (a Achievement) Hidden() bool { return a.Reveal != nil }

func ownsGenerator(i int) func(s *State) bool {
	return func(s *State) bool { return s.Generators[i].OwnedCount >= 1 }
}

func reachesPrimary(amount float64) func(s *State) bool {
	return func(s *State) bool { return s.Resources.Primary >= amount }
}

func secretClicks(s *State) bool { return s.SecretClicks >= SecretClickGoal }

var achievementTable = [AchievementCount]Achievement{
	{ID: "ac-1-1", Name: "From Zero", Description: "Own a Wave I", Check: ownsGenerator(0)},
	{ID: "ac-1-2", Name: "That Is... 100%", Description: "Hold 100 primary", Check: reachesPrimary(100)},
	{ID: "ac-1-3", Name: "Comeback", Description: "Perform a reset", Check: func(s *State) bool {
		return s.Resets[0].Count >= 1
	}},
	{ID: "ac-1-4", Name: "Retrofit", Description: "Buy any page A upgrade", Check: func(s *State) bool {
		for _, u := range s.PageA {
			if u.Active() {
				return true
			}
		}
		return false
	}},
	{ID: "ac-1-5", Name: "Double Slit", Description: "Own a Wave II", Check: ownsGenerator(1)},
	{ID: "ac-1-6", Name: "Triple Slit", Description: "Own a Wave III", Check: ownsGenerator(2)},
	{ID: "ac-1-7", Name: "Out of Names", Description: "Own a Wave IV", Check: ownsGenerator(3)},
	{ID: "ac-1-8", Name: "Perfect Ten", Description: "Buy every page A upgrade", Check: func(s *State) bool {
		for _, u := range s.PageA {
			if !u.Active() {
				return false
			}
		}
		return true
	}},
	{ID: "ac-2-1", Name: "Perfect Fifteen", Description: "Buy every page B upgrade", Check: func(s *State) bool {
		for _, u := range s.PageB {
			if !u.Active() {
				return false
			}
		}
		return true
	}},
	{ID: "ac-2-2", Name: "The Flowers Wilted", Description: "Own a Wave VIII", Check: ownsGenerator(7)},
	{ID: "ac-2-3", Name: "Lucky One", Description: "Hold 1M primary", Check: reachesPrimary(1e6)},
	{ID: "ac-2-4", Name: "Easter Egg???", Description: "Click below the achievement list 25 times",
		Reveal: secretClicks, Check: secretClicks},
}

// Achievements returns the static table in display order.
func Achievements() []Achievement {
	return achievementTable[:]
}

// scanAchievements reveals and unlocks achievements on s. Unlocks are one-way.
// It returns the indexes newly unlocked by this scan.
func scanAchievements(s *State) []int {
	var unlocked []int
	for i, a := range achievementTable {
		if s.Achievements[i] {
			continue
		}
		if a.Hidden() && !s.Revealed[i] {
			if !a.Reveal(s) {
				continue
			}
			s.Revealed[i] = true
		}
		if a.Check(s) {
			s.Achievements[i] = true
			unlocked = append(unlocked, i)
		}
	}
	return unlocked
}
