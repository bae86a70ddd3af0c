package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"
)

const IdempotencyKeyHeader = "X-Idempotency-Key"

// EventDeduper remembers delivered idempotency keys in redis, so client retries
// of the same event are recorded once.
type EventDeduper struct {
	rdb            redis.Cmdable
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewEventDeduper(rdb redis.Cmdable, ttl time.Duration, metricsManager *metrics.Manager) *EventDeduper {
	return &EventDeduper{
		rdb:            rdb,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

func dedupeKey(uid string, kind ActivityKind, idempotencyKey string) string {
	return fmt.Sprintf("befit::event::%s::%s::%s", uid, kind, idempotencyKey)
}

// Claim returns ErrDuplicateEvent if the key was already claimed within the TTL.
// Redis errors are logged and the event is let through, as is everything on a nil deduper.
func (d *EventDeduper) Claim(ctx context.Context, uid string, kind ActivityKind, idempotencyKey string) error {
	if d == nil {
		return nil
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "gamification.dedupe.claim")
	defer span.End()

	claimed, err := d.rdb.SetNX(ctx, dedupeKey(uid, kind, idempotencyKey), 1, d.ttl).Result()
	if err != nil {
		log.Errorf("dedupe claim [%s/%s]: %s", uid, kind, err)
		span.RecordError(err)
		return nil
	}
	if !claimed {
		d.metricsManager.CounterDuplicateEvents.Inc()
		log.Debugf("duplicate %s event for [%s], key: %s", kind, uid, idempotencyKey)
		return ErrDuplicateEvent
	}
	return nil
}

// Release forgets a claimed key, used when recording the event failed and the client should retry.
func (d *EventDeduper) Release(ctx context.Context, uid string, kind ActivityKind, idempotencyKey string) {
	if d == nil {
		return
	}
	if err := d.rdb.Del(ctx, dedupeKey(uid, kind, idempotencyKey)).Err(); err != nil {
		log.Errorf("dedupe release [%s/%s]: %s", uid, kind, err)
	}
}
