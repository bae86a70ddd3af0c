package gamification

// Streak counters are cumulative: every qualifying event bumps them and nothing resets them.

// StreakFor maps an activity kind to the streak it feeds. AI chats feed none.
func StreakFor(kind ActivityKind) (StreakCategory, bool) {
	switch kind {
	case ActivityWorkout:
		return StreakWorkout, true
	case ActivityWater:
		return StreakWater, true
	case ActivityMeal:
		return StreakNutrition, true
	default:
		return "", false
	}
}

// Bump increments exactly one streak counter by 1 and returns p.
func Bump(p *UserProgress, c StreakCategory) *UserProgress {
	switch c {
	case StreakWorkout:
		p.Streaks.Workout++
	case StreakWater:
		p.Streaks.Water++
	case StreakNutrition:
		p.Streaks.Nutrition++
	}
	return p
}

// Streak reads the counter of category c.
func (s Streaks) Streak(c StreakCategory) int {
	switch c {
	case StreakWorkout:
		return s.Workout
	case StreakWater:
		return s.Water
	case StreakNutrition:
		return s.Nutrition
	default:
		return 0
	}
}
