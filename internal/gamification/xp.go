package gamification

// AI coach chats give no XP, they only count toward the AI badges.
var xpRules = map[ActivityKind]int{
	ActivityWorkout: 50,
	ActivityWater:   5,
	ActivityMeal:    15,
}

// XPFor returns the fixed XP award for one activity of the given kind; 0 for kinds without a rule.
func XPFor(kind ActivityKind) int {
	return xpRules[kind]
}
