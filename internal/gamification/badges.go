package gamification

import (
	"time"
)

type BadgeKey string

// Some keys do not match their thresholds (FIVE_WATER_GOALS needs 50 glasses, FIVE_MEAL_DAYS
// needs 10 meals ...). Stored records and the mobile app use these keys, so they stay as they are;
// the requirement text of each catalog entry states the real threshold.
const (
	BadgeQuickStart BadgeKey = "QUICK_START"
	BadgeTestMaster BadgeKey = "TEST_MASTER"

	BadgeLevelBronze   BadgeKey = "LEVEL_BRONZE"
	BadgeLevelSilver   BadgeKey = "LEVEL_SILVER"
	BadgeLevelGold     BadgeKey = "LEVEL_GOLD"
	BadgeLevelPlatinum BadgeKey = "LEVEL_PLATINUM"

	BadgeFirstWorkout    BadgeKey = "FIRST_WORKOUT"
	BadgeFiveWorkouts    BadgeKey = "FIVE_WORKOUTS"
	BadgeTenWorkouts     BadgeKey = "TEN_WORKOUTS"
	BadgeTwentyWorkouts  BadgeKey = "TWENTY_WORKOUTS"
	BadgeFiftyWorkouts   BadgeKey = "FIFTY_WORKOUTS"
	BadgeHundredWorkouts BadgeKey = "HUNDRED_WORKOUTS"

	BadgeStreak1  BadgeKey = "STREAK_1"
	BadgeStreak3  BadgeKey = "STREAK_3"
	BadgeStreak7  BadgeKey = "STREAK_7"
	BadgeStreak14 BadgeKey = "STREAK_14"
	BadgeStreak30 BadgeKey = "STREAK_30"

	BadgeFirstWater       BadgeKey = "FIRST_WATER"
	BadgeFiveWaterGoals   BadgeKey = "FIVE_WATER_GOALS"
	BadgeThirtyWaterGoals BadgeKey = "THIRTY_WATER_GOALS"
	BadgeHydrationStreak7 BadgeKey = "HYDRATION_STREAK_7"

	BadgeFirstMeal      BadgeKey = "FIRST_MEAL"
	BadgeFiveMealDays   BadgeKey = "FIVE_MEAL_DAYS"
	BadgeTwentyMealDays BadgeKey = "TWENTY_MEAL_DAYS"

	BadgeAIFirstChat BadgeKey = "AI_FIRST_CHAT"
	BadgeAITenChats  BadgeKey = "AI_TEN_CHATS"
)

const (
	quickStartWindow        = 60 * time.Minute
	badgeCollectorThreshold = 5
)

type Category string

const (
	CategorySpecial   Category = "special"
	CategoryLevel     Category = "level"
	CategoryWorkout   Category = "workout"
	CategoryStreak    Category = "streak"
	CategoryWater     Category = "water"
	CategoryNutrition Category = "nutrition"
	CategoryAI        Category = "ai"
)

type BadgeDefinition struct {
	Key         BadgeKey `json:"key"`
	Title       string   `json:"title"`
	Requirement string   `json:"requirement"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`

	// unlocked reports whether a snapshot qualifies on its own. Nil for meta badges,
	// which depend on the rest of the evaluation pass.
	unlocked func(p *UserProgress, now time.Time) bool
}

func atLeast(n int, counter func(p *UserProgress) int) func(*UserProgress, time.Time) bool {
	return func(p *UserProgress, _ time.Time) bool {
		return counter(p) >= n
	}
}

func atLevel(level Level) func(*UserProgress, time.Time) bool {
	return func(p *UserProgress, _ time.Time) bool {
		return LevelFor(p.XP) == level
	}
}

func workouts(p *UserProgress) int      { return p.TotalWorkouts }
func water(p *UserProgress) int         { return p.TotalWater }
func meals(p *UserProgress) int         { return p.TotalMeals }
func aiChats(p *UserProgress) int       { return p.AIChats }
func workoutStreak(p *UserProgress) int { return p.Streaks.Workout }
func waterStreak(p *UserProgress) int   { return p.Streaks.Water }

func quickStart(p *UserProgress, now time.Time) bool {
	if p.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(p.CreatedAt) <= quickStartWindow
}

// catalog order is the display order and the order Evaluate reports keys in
var catalog = []BadgeDefinition{
	// special
	{Key: BadgeQuickStart, Title: "Quick Start", Requirement: "Log any activity within an hour of creating your account.", Icon: "rocket-launch-outline", Category: CategorySpecial, unlocked: quickStart},
	{Key: BadgeTestMaster, Title: "Badge Collector", Requirement: "Unlock at least 5 different badges.", Icon: "star-circle-outline", Category: CategorySpecial},

	// level
	{Key: BadgeLevelBronze, Title: "Bronze Level", Requirement: "Reach Bronze level.", Icon: "medal-outline", Category: CategoryLevel, unlocked: atLevel(LevelBronze)},
	{Key: BadgeLevelSilver, Title: "Silver Level", Requirement: "Reach Silver level (500+ XP).", Icon: "medal", Category: CategoryLevel, unlocked: atLevel(LevelSilver)},
	{Key: BadgeLevelGold, Title: "Gold Level", Requirement: "Reach Gold level (1500+ XP).", Icon: "crown-outline", Category: CategoryLevel, unlocked: atLevel(LevelGold)},
	{Key: BadgeLevelPlatinum, Title: "Platinum Level", Requirement: "Reach Platinum level (4000+ XP).", Icon: "crown", Category: CategoryLevel, unlocked: atLevel(LevelPlatinum)},

	// workout volume
	{Key: BadgeFirstWorkout, Title: "First Rep", Requirement: "Complete your first workout.", Icon: "dumbbell", Category: CategoryWorkout, unlocked: atLeast(1, workouts)},
	{Key: BadgeFiveWorkouts, Title: "Getting Consistent", Requirement: "Complete 5 workouts in total.", Icon: "run-fast", Category: CategoryWorkout, unlocked: atLeast(5, workouts)},
	{Key: BadgeTenWorkouts, Title: "Double Digits", Requirement: "Complete 10 workouts in total.", Icon: "arm-flex-outline", Category: CategoryWorkout, unlocked: atLeast(10, workouts)},
	{Key: BadgeTwentyWorkouts, Title: "Training Habit", Requirement: "Complete 20 workouts in total.", Icon: "weight-lifter", Category: CategoryWorkout, unlocked: atLeast(20, workouts)},
	{Key: BadgeFiftyWorkouts, Title: "Gym Regular", Requirement: "Complete 50 workouts in total.", Icon: "lightning-bolt-outline", Category: CategoryWorkout, unlocked: atLeast(50, workouts)},
	{Key: BadgeHundredWorkouts, Title: "BeFit Legend", Requirement: "Complete 100 workouts in total.", Icon: "trophy-outline", Category: CategoryWorkout, unlocked: atLeast(100, workouts)},

	// workout streak
	{Key: BadgeStreak1, Title: "Day One", Requirement: "Reach a workout streak of 1.", Icon: "calendar-check-outline", Category: CategoryStreak, unlocked: atLeast(1, workoutStreak)},
	{Key: BadgeStreak3, Title: "3-Day Streak", Requirement: "Reach a workout streak of 3.", Icon: "fire", Category: CategoryStreak, unlocked: atLeast(3, workoutStreak)},
	{Key: BadgeStreak7, Title: "1-Week Streak", Requirement: "Reach a workout streak of 7.", Icon: "fire-circle", Category: CategoryStreak, unlocked: atLeast(7, workoutStreak)},
	{Key: BadgeStreak14, Title: "2-Week Streak", Requirement: "Reach a workout streak of 14.", Icon: "shield-fire", Category: CategoryStreak, unlocked: atLeast(14, workoutStreak)},
	{Key: BadgeStreak30, Title: "30-Day Streak", Requirement: "Reach a workout streak of 30.", Icon: "crown-circle-outline", Category: CategoryStreak, unlocked: atLeast(30, workoutStreak)},

	// hydration
	{Key: BadgeFirstWater, Title: "First Sip", Requirement: "Log your first glass of water.", Icon: "cup-water", Category: CategoryWater, unlocked: atLeast(1, water)},
	{Key: BadgeFiveWaterGoals, Title: "Hydration Hero", Requirement: "Log 50 glasses of water.", Icon: "water", Category: CategoryWater, unlocked: atLeast(50, water)},
	{Key: BadgeThirtyWaterGoals, Title: "Hydration Master", Requirement: "Log 200 glasses of water.", Icon: "water-circle", Category: CategoryWater, unlocked: atLeast(200, water)},
	{Key: BadgeHydrationStreak7, Title: "7-Day Hydration Streak", Requirement: "Reach a water streak of 7.", Icon: "weather-rainy", Category: CategoryWater, unlocked: atLeast(7, waterStreak)},

	// nutrition
	{Key: BadgeFirstMeal, Title: "Mindful Meal", Requirement: "Log your first meal.", Icon: "food-apple-outline", Category: CategoryNutrition, unlocked: atLeast(1, meals)},
	{Key: BadgeFiveMealDays, Title: "Balanced Week", Requirement: "Log 10 meals.", Icon: "food", Category: CategoryNutrition, unlocked: atLeast(10, meals)},
	{Key: BadgeTwentyMealDays, Title: "Meal Planner", Requirement: "Log 30 meals.", Icon: "food-steak", Category: CategoryNutrition, unlocked: atLeast(30, meals)},

	// AI coach
	{Key: BadgeAIFirstChat, Title: "Met the Coach", Requirement: "Use the AI coach for the first time.", Icon: "robot-outline", Category: CategoryAI, unlocked: atLeast(1, aiChats)},
	{Key: BadgeAITenChats, Title: "AI Power User", Requirement: "Have 10 conversations with the AI coach.", Icon: "robot-happy-outline", Category: CategoryAI, unlocked: atLeast(10, aiChats)},
}

var categories = []Category{
	CategorySpecial,
	CategoryLevel,
	CategoryWorkout,
	CategoryStreak,
	CategoryWater,
	CategoryNutrition,
	CategoryAI,
}

// Catalog returns a copy of all badge definitions, in display order.
func Catalog() []BadgeDefinition {
	out := make([]BadgeDefinition, len(catalog))
	copy(out, catalog)
	return out
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CatalogByCategory filters the catalog; an empty category returns everything.
func CatalogByCategory(c Category) []BadgeDefinition {
	if c == "" {
		return Catalog()
	}
	out := make([]BadgeDefinition, 0)
	for _, def := range catalog {
		if def.Category == c {
			out = append(out, def)
		}
	}
	return out
}

func Definition(key BadgeKey) (BadgeDefinition, bool) {
	for _, def := range catalog {
		if def.Key == key {
			return def, true
		}
	}
	return BadgeDefinition{}, false
}

// Evaluate returns the badges p qualifies for but does not own yet, in catalog order.
// It never mutates p, so evaluating an unchanged snapshot after merging its result yields nothing.
//
// Independent rules run first; the collector badge is decided afterwards against
// owned plus the candidates of this same pass.
func Evaluate(p UserProgress, now time.Time) []BadgeKey {
	candidates := make(map[BadgeKey]bool)
	for _, def := range catalog {
		if def.unlocked == nil || p.Badges[def.Key] {
			continue
		}
		if def.unlocked(&p, now) {
			candidates[def.Key] = true
		}
	}

	if !p.Badges[BadgeTestMaster] && p.OwnedBadges()+len(candidates) >= badgeCollectorThreshold {
		candidates[BadgeTestMaster] = true
	}

	if len(candidates) == 0 {
		return nil
	}
	keys := make([]BadgeKey, 0, len(candidates))
	for _, def := range catalog {
		if candidates[def.Key] {
			keys = append(keys, def.Key)
		}
	}
	return keys
}

// Merge unlocks keys on p and stamps UpdatedAt. Owned badges are never unset.
// It reports whether anything was written.
func Merge(p *UserProgress, keys []BadgeKey, now time.Time) bool {
	if len(keys) == 0 {
		return false
	}
	if p.Badges == nil {
		p.Badges = make(map[BadgeKey]bool, len(keys))
	}
	for _, k := range keys {
		p.Badges[k] = true
	}
	p.UpdatedAt = now
	return true
}
