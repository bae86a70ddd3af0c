package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"
)

type ReconcileReport struct {
	Visited  int `json:"visited"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

// Reconciler repairs records whose level or badges lag behind their counters,
// e.g. after a failed or partially applied event.
type Reconciler struct {
	store          ProgressStore
	metricsManager *metrics.Manager
	lookback       time.Duration
	batchSize      int
	now            func() time.Time

	scheduler gocron.Scheduler
}

func NewReconciler(store ProgressStore, metricsManager *metrics.Manager, lookback time.Duration, batchSize int) *Reconciler {
	return &Reconciler{
		store:          store,
		metricsManager: metricsManager,
		lookback:       lookback,
		batchSize:      batchSize,
		now:            time.Now,
	}
}

// Reconcile visits every record updated after since and persists the ones that needed a repair.
func (r *Reconciler) Reconcile(ctx context.Context, since time.Time) (_ ReconcileReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.reconciler.reconcile")
	defer func() {
		tracing.EndSpan(span, err)
	}()

	defer func(begin time.Time) {
		r.metricsManager.HistReconcileDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	var report ReconcileReport
	// records written from here on were evaluated by their writer, repairs of this run included
	startedAt := r.now()
	cursorTime, cursorUID := since, ""
	for done := false; !done; {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := r.store.ListStale(ctx, cursorTime, cursorUID, r.batchSize)
		if err != nil {
			return report, fmt.Errorf("list stale progress: %w", err)
		}

		for _, rec := range batch {
			if !rec.UpdatedAt.Before(startedAt) {
				done = true
				break
			}
			report.Visited++
			repaired, err := r.reconcileOne(ctx, rec.UID)
			switch {
			case err != nil:
				report.Failed++
				r.metricsManager.CounterReconciled.With(prometheus.Labels{"result": "failed"}).Inc()
				log.Errorf("reconcile progress of [%s]: %s", rec.UID, err)
			case repaired:
				report.Repaired++
				r.metricsManager.CounterReconciled.With(prometheus.Labels{"result": "repaired"}).Inc()
			default:
				r.metricsManager.CounterReconciled.With(prometheus.Labels{"result": "ok"}).Inc()
			}
		}

		if done || len(batch) == 0 || r.batchSize <= 0 || len(batch) < r.batchSize {
			break
		}
		last := batch[len(batch)-1]
		cursorTime, cursorUID = last.UpdatedAt, last.UID
	}

	log.Debugf("reconcile since %s done: %+v", since.Format(time.RFC3339), report)
	return report, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, uid string) (bool, error) {
	repaired := false
	_, err := r.store.Update(ctx, uid, func(p *UserProgress) error {
		repaired = repair(p, r.now())
		if !repaired {
			return ErrSkipUpdate
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return repaired, nil
}

// repair recomputes the level and unlocks any badge the counters already qualify for.
func repair(p *UserProgress, now time.Time) bool {
	changed := false
	if level := LevelFor(p.XP); level != p.LevelName {
		p.LevelName = level
		changed = true
	}
	if Merge(p, Evaluate(*p, now), now) {
		changed = true
	}
	if changed {
		p.UpdatedAt = now
	}
	return changed
}

// Start schedules a reconcile run every interval over the lookback window.
// Runs never overlap; a run still in progress makes the next one skip.
func (r *Reconciler) Start(ctx context.Context, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("new scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			report, err := r.Reconcile(ctx, r.now().Add(-r.lookback))
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("scheduled reconcile: %s", err)
				return
			}
			if report.Repaired > 0 || report.Failed > 0 {
				log.Infof("scheduled reconcile: %+v", report)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("new reconcile job: %w", err)
	}

	scheduler.Start()
	r.scheduler = scheduler
	log.Debugf("reconciler scheduled every %s (lookback %s)", interval, r.lookback)
	return nil
}

func (r *Reconciler) Stop() {
	if r.scheduler == nil {
		return
	}
	if err := r.scheduler.Shutdown(); err != nil {
		log.Errorf("reconciler scheduler shutdown: %s", err)
	}
	r.scheduler = nil
}
