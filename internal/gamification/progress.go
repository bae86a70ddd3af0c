package gamification

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

var (
	ErrInvalidKind    = errors.New("invalid activity kind")
	ErrEmptyUID       = errors.New("empty user id")
	ErrDuplicateEvent = errors.New("duplicate activity event")
)

type ActivityKind string

const (
	ActivityWorkout ActivityKind = "workout"
	ActivityWater   ActivityKind = "water"
	ActivityMeal    ActivityKind = "meal"
	ActivityAIChat  ActivityKind = "ai_chat"
)

var AllActivityKinds = []ActivityKind{
	ActivityWorkout,
	ActivityWater,
	ActivityMeal,
	ActivityAIChat,
}

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityWorkout, ActivityWater, ActivityMeal, ActivityAIChat:
		return true
	default:
		return false
	}
}

func ParseActivityKind(s string) (ActivityKind, error) {
	k := ActivityKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

type StreakCategory string

const (
	StreakWorkout   StreakCategory = "workout"
	StreakWater     StreakCategory = "water"
	StreakNutrition StreakCategory = "nutrition"
)

type Streaks struct {
	Workout   int `json:"workout"`
	Water     int `json:"water"`
	Nutrition int `json:"nutrition"`
}

// UserProgress is the single persisted gamification record of a user.
type UserProgress struct {
	UID           string            `json:"uid"`
	XP            int               `json:"xp"`
	LevelName     Level             `json:"levelName"`
	TotalWorkouts int               `json:"totalWorkouts"`
	TotalWater    int               `json:"totalWater"`
	TotalMeals    int               `json:"totalMeals"`
	AIChats       int               `json:"aiChats"`
	Streaks       Streaks           `json:"streaks"`
	Badges        map[BadgeKey]bool `json:"badges"`
	CreatedAt     time.Time         `json:"createdAt,omitzero"`
	UpdatedAt     time.Time         `json:"updatedAt,omitzero"`
	LastActivity  *time.Time        `json:"lastActivity"`
}

// NewUserProgress returns the zero record for uid, as created on first activity.
func NewUserProgress(uid string, now time.Time) *UserProgress {
	return &UserProgress{
		UID:       uid,
		LevelName: LevelBronze,
		Badges:    map[BadgeKey]bool{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// defaultProgress is what readers get for a user with no record yet. It is never persisted.
func defaultProgress(uid string) *UserProgress {
	return &UserProgress{
		UID:       uid,
		LevelName: LevelBronze,
		Badges:    map[BadgeKey]bool{},
	}
}

func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return nil
	}
	c := *p
	c.Badges = make(map[BadgeKey]bool, len(p.Badges))
	maps.Copy(c.Badges, p.Badges)
	if p.LastActivity != nil {
		la := *p.LastActivity
		c.LastActivity = &la
	}
	return &c
}

// OwnedBadges counts the unlocked badges.
func (p *UserProgress) OwnedBadges() int {
	n := 0
	for _, owned := range p.Badges {
		if owned {
			n++
		}
	}
	return n
}

// normalize fills in what older or partially written records may lack.
func (p *UserProgress) normalize() {
	if p.Badges == nil {
		p.Badges = map[BadgeKey]bool{}
	}
	if p.LevelName == "" {
		p.LevelName = LevelFor(p.XP)
	}
}
