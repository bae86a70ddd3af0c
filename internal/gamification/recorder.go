package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"
)

type RecordResult struct {
	Progress      *UserProgress `json:"progress"`
	NewBadges     []BadgeKey    `json:"newBadges"`
	PreviousLevel Level         `json:"previousLevel"`
	LeveledUp     bool          `json:"leveledUp"`
	XPAwarded     int           `json:"xpAwarded"`
}

// Recorder turns activity events into XP, levels, streaks and badges.
type Recorder struct {
	store          ProgressStore
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewRecorder(store ProgressStore, metricsManager *metrics.Manager) *Recorder {
	return NewRecorderWithClock(store, metricsManager, time.Now)
}

func NewRecorderWithClock(store ProgressStore, metricsManager *metrics.Manager, now func() time.Time) *Recorder {
	return &Recorder{
		store:          store,
		metricsManager: metricsManager,
		now:            now,
	}
}

func (r *Recorder) RecordWorkout(ctx context.Context, uid string) (*RecordResult, error) {
	return r.Record(ctx, uid, ActivityWorkout)
}

func (r *Recorder) RecordWater(ctx context.Context, uid string) (*RecordResult, error) {
	return r.Record(ctx, uid, ActivityWater)
}

func (r *Recorder) RecordMeal(ctx context.Context, uid string) (*RecordResult, error) {
	return r.Record(ctx, uid, ActivityMeal)
}

// RecordAIChat only counts the chat; it awards no XP and bumps no streak.
func (r *Recorder) RecordAIChat(ctx context.Context, uid string) (*RecordResult, error) {
	return r.Record(ctx, uid, ActivityAIChat)
}

// Record applies one activity of the given kind to the user's progress in a single store update:
// counter, streak, XP, level, last activity, then badges.
func (r *Recorder) Record(ctx context.Context, uid string, kind ActivityKind) (_ *RecordResult, err error) {
	if uid == "" {
		return nil, ErrEmptyUID
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.recorder.record")
	span.SetAttributes(
		attribute.String("uid", uid),
		attribute.String("kind", string(kind)),
	)
	defer func() {
		tracing.EndSpan(span, err)
	}()

	kindLabels := prometheus.Labels{"kind": string(kind)}
	defer func(begin time.Time) {
		r.metricsManager.HistogramRecordDuration.With(kindLabels).Observe(time.Since(begin).Seconds())
	}(time.Now())

	var res RecordResult
	progress, err := r.store.Update(ctx, uid, func(p *UserProgress) error {
		// the store may retry fn, so the result is rebuilt from scratch every time
		res = RecordResult{PreviousLevel: p.LevelName}
		now := r.now()
		res.XPAwarded = apply(p, kind, now)
		res.NewBadges = Evaluate(*p, now)
		Merge(p, res.NewBadges, now)
		return nil
	})
	if err != nil {
		r.metricsManager.CounterActivityFailures.With(kindLabels).Inc()
		return nil, fmt.Errorf("record %s for %s: %w", kind, uid, err)
	}

	res.Progress = progress
	res.LeveledUp = progress.LevelName != res.PreviousLevel

	r.metricsManager.CounterActivities.With(kindLabels).Inc()
	if res.LeveledUp {
		r.metricsManager.CounterLevelUps.With(prometheus.Labels{"level": string(progress.LevelName)}).Inc()
		log.Infof("user [%s] leveled up: %s -> %s (xp: %d)", uid, res.PreviousLevel, progress.LevelName, progress.XP)
	}
	for _, b := range res.NewBadges {
		r.metricsManager.CounterBadgesUnlocked.With(prometheus.Labels{"badge": string(b)}).Inc()
	}
	if len(res.NewBadges) > 0 {
		log.Infof("user [%s] unlocked badges: %v", uid, res.NewBadges)
	}
	span.SetAttributes(attribute.Int("new-badges", len(res.NewBadges)))

	return &res, nil
}

// Read returns the user's progress, or the zero default when nothing was recorded yet.
func (r *Recorder) Read(ctx context.Context, uid string) (_ *UserProgress, err error) {
	if uid == "" {
		return nil, ErrEmptyUID
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.recorder.read")
	defer func() {
		tracing.EndSpan(span, err)
	}()

	p, err := r.store.Read(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("read progress of %s: %w", uid, err)
	}
	p.normalize()
	return p, nil
}

// apply runs the counter, streak, XP and level steps for one event and returns the XP awarded.
func apply(p *UserProgress, kind ActivityKind, now time.Time) int {
	switch kind {
	case ActivityWorkout:
		p.TotalWorkouts++
	case ActivityWater:
		p.TotalWater++
	case ActivityMeal:
		p.TotalMeals++
	case ActivityAIChat:
		p.AIChats++
	}

	if category, ok := StreakFor(kind); ok {
		Bump(p, category)
	}

	xp := XPFor(kind)
	p.XP += xp
	p.LevelName = LevelFor(p.XP)

	p.LastActivity = &now
	p.UpdatedAt = now
	return xp
}
