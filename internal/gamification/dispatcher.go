package gamification

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
)

//go:generate mockgen -source=$GOFILE -destination=dispatcher_mocks_test.go -package=gamification_test

type activityRecorder interface {
	Record(ctx context.Context, uid string, kind ActivityKind) (*RecordResult, error)
}

// eventReleaser frees an idempotency key whose event was not recorded, so the client can retry.
type eventReleaser interface {
	Release(ctx context.Context, uid string, kind ActivityKind, idempotencyKey string)
}

type dispatchJob struct {
	uid            string
	kind           ActivityKind
	idempotencyKey string
}

const dispatchJobTimeout = 10 * time.Second

// Dispatcher records activity events in the background, so the caller's primary action
// never waits on gamification. Failures are logged and counted, never returned.
type Dispatcher struct {
	recorder       activityRecorder
	releaser       eventReleaser
	metricsManager *metrics.Manager
	workers        int

	mu     sync.RWMutex
	queue  chan dispatchJob
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher builds a stopped dispatcher. releaser is optional; when set, the idempotency
// key of an event that fails to record is released.
func NewDispatcher(
	recorder activityRecorder,
	releaser eventReleaser,
	metricsManager *metrics.Manager,
	workers, queueSize int,
) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Dispatcher{
		recorder:       recorder,
		releaser:       releaser,
		metricsManager: metricsManager,
		workers:        workers,
		queue:          make(chan dispatchJob, queueSize),
	}
}

// Start runs the workers. Jobs run detached from ctx cancellation, so Stop can drain the queue
// after the server context is gone.
func (d *Dispatcher) Start(ctx context.Context) {
	jobCtx := context.WithoutCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for job := range d.queue {
				d.metricsManager.GaugeDispatchQueue.Set(float64(len(d.queue)))
				d.run(jobCtx, job)
			}
		}()
	}
	log.Debugf("activity dispatcher started with %d workers", d.workers)
}

func (d *Dispatcher) run(ctx context.Context, job dispatchJob) {
	ctx, cancel := context.WithTimeout(ctx, dispatchJobTimeout)
	defer cancel()

	if _, err := d.recorder.Record(ctx, job.uid, job.kind); err != nil {
		log.WithFields(log.Fields{
			"uid":  job.uid,
			"kind": job.kind,
		}).Errorf("async activity record failed: %s", err)
		if job.idempotencyKey != "" && d.releaser != nil {
			d.releaser.Release(ctx, job.uid, job.kind, job.idempotencyKey)
		}
	}
}

// Dispatch enqueues the event without blocking. It returns false when the event was dropped
// because the queue is full or the dispatcher is stopped. idempotencyKey is the key claimed for
// the event, empty if none.
func (d *Dispatcher) Dispatch(uid string, kind ActivityKind, idempotencyKey string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.closed {
		select {
		case d.queue <- dispatchJob{uid: uid, kind: kind, idempotencyKey: idempotencyKey}:
			d.metricsManager.GaugeDispatchQueue.Set(float64(len(d.queue)))
			return true
		default:
		}
	}

	d.metricsManager.CounterDispatchDropped.With(prometheus.Labels{"kind": string(kind)}).Inc()
	log.Warnf("activity dispatch dropped: %s for [%s] (closed: %t)", kind, uid, d.closed)
	return false
}

// Stop stops accepting events and waits until the queued ones are recorded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.metricsManager.GaugeDispatchQueue.Set(0)
	log.Debugln("activity dispatcher stopped")
}
