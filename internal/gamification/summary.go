package gamification

// Summary is the achievements screen view of a progress record.
type Summary struct {
	UID             string            `json:"uid"`
	XP              int               `json:"xp"`
	LevelName       Level             `json:"levelName"`
	NextLevel       Level             `json:"nextLevel,omitempty"`
	XPToNextLevel   int               `json:"xpToNextLevel"`
	PercentToMax    int               `json:"percentToMax"`
	UnlockedCount   int               `json:"unlockedCount"`
	TotalCount      int               `json:"totalCount"`
	UnlockedByGroup map[Category]int  `json:"unlockedByCategory"`
	Unlocked        []BadgeDefinition `json:"unlocked"`
	Streaks         Streaks           `json:"streaks"`
}

func Summarize(p *UserProgress) Summary {
	s := Summary{
		UID:             p.UID,
		XP:              p.XP,
		LevelName:       LevelFor(p.XP),
		PercentToMax:    PercentToMax(p.XP),
		TotalCount:      len(catalog),
		UnlockedByGroup: make(map[Category]int, len(categories)),
		Unlocked:        make([]BadgeDefinition, 0),
		Streaks:         p.Streaks,
	}
	if next, remaining, ok := NextLevel(p.XP); ok {
		s.NextLevel = next
		s.XPToNextLevel = remaining
	}

	for _, c := range categories {
		s.UnlockedByGroup[c] = 0
	}
	// keys outside the catalog are not counted: the app cannot show them
	for _, def := range catalog {
		if !p.Badges[def.Key] {
			continue
		}
		s.UnlockedCount++
		s.UnlockedByGroup[def.Category]++
		s.Unlocked = append(s.Unlocked, def)
	}
	return s
}
