package gamification

type Level string

const (
	LevelBronze   Level = "Bronze"
	LevelSilver   Level = "Silver"
	LevelGold     Level = "Gold"
	LevelPlatinum Level = "Platinum"
)

type levelThreshold struct {
	level Level
	minXP int
}

// ascending
var levels = []levelThreshold{
	{level: LevelBronze, minXP: 0},
	{level: LevelSilver, minXP: 500},
	{level: LevelGold, minXP: 1500},
	{level: LevelPlatinum, minXP: 4000},
}

// LevelFor resolves the highest level whose threshold xp reaches.
// Anything below the first threshold (negative xp included) is Bronze.
func LevelFor(xp int) Level {
	current := levels[0].level
	for _, l := range levels {
		if xp >= l.minXP {
			current = l.level
		}
	}
	return current
}

// MinXP returns the threshold of the given level, or -1 for an unknown one.
func MinXP(level Level) int {
	for _, l := range levels {
		if l.level == level {
			return l.minXP
		}
	}
	return -1
}

// NextLevel returns the level following the one xp resolves to and the XP still missing.
// ok is false once the top level is reached.
func NextLevel(xp int) (next Level, remaining int, ok bool) {
	for _, l := range levels {
		if xp < l.minXP {
			return l.level, l.minXP - xp, true
		}
	}
	return "", 0, false
}

// PercentToMax is the progress toward the top level, 0..100.
func PercentToMax(xp int) int {
	maxXP := levels[len(levels)-1].minXP
	switch {
	case xp <= 0:
		return 0
	case xp >= maxXP:
		return 100
	default:
		return xp * 100 / maxXP
	}
}
