package gamification

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/raphaeldejesus03/BeFit/internal/telemetry/tracing"
	"github.com/raphaeldejesus03/BeFit/pkg"
)

//go:embed schema.sql
var SchemaSQL string

const maxTxAttempts = 3

const progressColumns = `
	uid, xp, level_name,
	total_workouts, total_water, total_meals, ai_chats,
	streak_workout, streak_water, streak_nutrition,
	badges, created_at, updated_at, last_activity`

type PostgresStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:  db,
		now: time.Now,
	}
}

// Migrate creates the progress table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("create user_progress schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ensure(ctx context.Context, uid string) (_ *UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.ensure")
	span.SetAttributes(attribute.String("uid", uid))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if uid == "" {
		return nil, ErrEmptyUID
	}

	if err := s.insertIfMissing(ctx, s.db, uid); err != nil {
		return nil, err
	}
	return scanProgress(s.db.QueryRow(ctx, `
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE uid = $1
	`, uid))
}

func (s *PostgresStore) Read(ctx context.Context, uid string) (_ *UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.read")
	span.SetAttributes(attribute.String("uid", uid))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if uid == "" {
		return nil, ErrEmptyUID
	}

	p, err := scanProgress(s.db.QueryRow(ctx, `
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE uid = $1
	`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultProgress(uid), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update locks the row with SELECT ... FOR UPDATE, so concurrent events of one user serialize.
// Serialization failures and deadlocks retry the whole transaction, fn included.
func (s *PostgresStore) Update(ctx context.Context, uid string, fn UpdateFunc) (_ *UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.update")
	span.SetAttributes(attribute.String("uid", uid))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if uid == "" {
		return nil, ErrEmptyUID
	}

	for attempt := 1; ; attempt++ {
		p, err := s.updateTx(ctx, uid, fn)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return p, nil
		}
		if !pkg.IsRetryableTxError(err) || attempt >= maxTxAttempts {
			return nil, err
		}
		log.Debugf("progress update of [%s] conflicted (attempt %d): %s", uid, attempt, err)
	}
}

func (s *PostgresStore) updateTx(ctx context.Context, uid string, fn UpdateFunc) (_ *UserProgress, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if err := s.insertIfMissing(ctx, tx, uid); err != nil {
		return nil, err
	}

	current, err := scanProgress(tx.QueryRow(ctx, `
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE uid = $1
		FOR UPDATE
	`, uid))
	if err != nil {
		return nil, fmt.Errorf("lock progress row: %w", err)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		if errors.Is(err, ErrSkipUpdate) {
			return current, nil
		}
		return nil, err
	}

	badges, err := json.Marshal(working.Badges)
	if err != nil {
		return nil, fmt.Errorf("marshal badges: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_progress SET
			xp = $2, level_name = $3,
			total_workouts = $4, total_water = $5, total_meals = $6, ai_chats = $7,
			streak_workout = $8, streak_water = $9, streak_nutrition = $10,
			badges = $11::jsonb, updated_at = $12, last_activity = $13
		WHERE uid = $1
	`,
		uid, working.XP, string(working.LevelName),
		working.TotalWorkouts, working.TotalWater, working.TotalMeals, working.AIChats,
		working.Streaks.Workout, working.Streaks.Water, working.Streaks.Nutrition,
		string(badges), working.UpdatedAt, working.LastActivity,
	)
	if err != nil {
		return nil, fmt.Errorf("update progress row: %w", err)
	}

	return working, nil
}

func (s *PostgresStore) ListStale(ctx context.Context, since time.Time, afterUID string, limit int) (_ []StaleRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.liststale")
	span.SetAttributes(attribute.String("since", since.String()))
	span.SetAttributes(attribute.Int("limit", limit))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rows, err := s.db.Query(ctx, `
		SELECT uid, updated_at
		FROM user_progress
		WHERE (updated_at, uid) > ($1, $2)
		ORDER BY updated_at ASC, uid ASC
		LIMIT NULLIF($3::int, 0)
	`, since, afterUID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stale := make([]StaleRecord, 0)
	for rows.Next() {
		var r StaleRecord
		if err := rows.Scan(&r.UID, &r.UpdatedAt); err != nil {
			return nil, err
		}
		stale = append(stale, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stale, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PostgresStore) insertIfMissing(ctx context.Context, db execer, uid string) error {
	now := s.now()
	if _, err := db.Exec(ctx, `
		INSERT INTO user_progress (uid, level_name, badges, created_at, updated_at)
		VALUES ($1, $2, '{}'::jsonb, $3, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, string(LevelBronze), now); err != nil {
		return fmt.Errorf("insert progress row: %w", err)
	}
	return nil
}

func scanProgress(row pgx.Row) (*UserProgress, error) {
	var (
		p         UserProgress
		levelName string
		badges    []byte
	)
	if err := row.Scan(
		&p.UID, &p.XP, &levelName,
		&p.TotalWorkouts, &p.TotalWater, &p.TotalMeals, &p.AIChats,
		&p.Streaks.Workout, &p.Streaks.Water, &p.Streaks.Nutrition,
		&badges, &p.CreatedAt, &p.UpdatedAt, &p.LastActivity,
	); err != nil {
		return nil, err
	}
	p.LevelName = Level(levelName)
	if len(badges) > 0 {
		if err := json.Unmarshal(badges, &p.Badges); err != nil {
			return nil, fmt.Errorf("unmarshal badges of %s: %w", p.UID, err)
		}
	}
	p.normalize()
	return &p, nil
}
