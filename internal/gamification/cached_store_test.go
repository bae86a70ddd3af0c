package gamification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/raphaeldejesus03/BeFit/internal/gamification"
	"github.com/raphaeldejesus03/BeFit/internal/telemetry/metrics"
)

func TestCachedStore_ReadThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	backing := NewMockProgressStore(ctrl)
	store := gamification.NewCachedStore(backing, 1, time.Minute)
	ctx := context.Background()

	stored := progressWith("u1", func(p *gamification.UserProgress) {
		p.XP = 120
		p.Badges = owned(gamification.BadgeLevelBronze)
	})
	backing.EXPECT().Read(gomock.Any(), "u1").Return(stored.Clone(), nil).Times(1)

	first, err := store.Read(ctx, "u1")
	require.NoError(t, err)
	second, err := store.Read(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 120, first.XP)
	assert.Equal(t, first.XP, second.XP)
	assert.Equal(t, first.Badges, second.Badges)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestCachedStore_UpdateDropsEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	backing := NewMockProgressStore(ctrl)
	store := gamification.NewCachedStore(backing, 1, time.Minute)
	ctx := context.Background()

	gomock.InOrder(
		backing.EXPECT().Read(gomock.Any(), "u1").Return(progressWith("u1", nil), nil),
		backing.EXPECT().Update(gomock.Any(), "u1", gomock.Any()).Return(
			progressWith("u1", func(p *gamification.UserProgress) { p.XP = 50 }), nil,
		),
		backing.EXPECT().Read(gomock.Any(), "u1").Return(
			progressWith("u1", func(p *gamification.UserProgress) { p.XP = 50 }), nil,
		),
	)

	p, err := store.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.XP)

	_, err = store.Update(ctx, "u1", func(p *gamification.UserProgress) error { return nil })
	require.NoError(t, err)

	// reloaded from the backing store, then served from the cache
	for i := 0; i < 2; i++ {
		p, err = store.Read(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 50, p.XP)
	}
}

// slowReadStore parks its first Read after the record was loaded, until release is closed.
type slowReadStore struct {
	*gamification.MemoryStore
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *slowReadStore) Read(ctx context.Context, uid string) (*gamification.UserProgress, error) {
	p, err := s.MemoryStore.Read(ctx, uid)
	s.once.Do(func() {
		close(s.loaded)
		<-s.release
	})
	return p, err
}

func TestCachedStore_SlowReadDoesNotHideUpdate(t *testing.T) {
	backing := &slowReadStore{
		MemoryStore: gamification.NewMemoryStoreWithClock(fixedClock(testNow)),
		loaded:      make(chan struct{}),
		release:     make(chan struct{}),
	}
	cached := gamification.NewCachedStore(backing, 1, time.Minute)
	recorder := gamification.NewRecorderWithClock(cached, metrics.NewTestManager(), fixedClock(testNow))
	ctx := context.Background()

	readDone := make(chan *gamification.UserProgress)
	go func() {
		p, err := cached.Read(ctx, "u1")
		assert.NoError(t, err)
		readDone <- p
	}()

	<-backing.loaded
	_, err := recorder.RecordWorkout(ctx, "u1")
	require.NoError(t, err)
	close(backing.release)

	// the slow read returns what it loaded before the workout
	assert.Equal(t, 0, (<-readDone).TotalWorkouts)

	p, err := cached.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalWorkouts)
	assert.Equal(t, 50, p.XP)
}

func TestCachedStore_ConcurrentUpdatesReadBack(t *testing.T) {
	memory := gamification.NewMemoryStoreWithClock(fixedClock(testNow))
	cached := gamification.NewCachedStore(memory, 1, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := cached.Update(ctx, "u1", func(p *gamification.UserProgress) error {
				p.TotalMeals++
				return nil
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := cached.Read(ctx, "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := cached.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, p.TotalMeals)
}

func TestCachedStore_FailedUpdateDropsEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	backing := NewMockProgressStore(ctrl)
	store := gamification.NewCachedStore(backing, 1, time.Minute)
	ctx := context.Background()

	backing.EXPECT().Read(gomock.Any(), "u1").Return(progressWith("u1", nil), nil).Times(2)
	backing.EXPECT().Update(gomock.Any(), "u1", gomock.Any()).Return(nil, errors.New("tx aborted"))

	_, err := store.Read(ctx, "u1")
	require.NoError(t, err)

	_, err = store.Update(ctx, "u1", func(p *gamification.UserProgress) error { return nil })
	require.Error(t, err)

	_, err = store.Read(ctx, "u1")
	require.NoError(t, err)
}

func TestCachedStore_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	backing := NewMockProgressStore(ctrl)
	store := gamification.NewCachedStore(backing, 1, time.Minute)
	ctx := context.Background()

	backing.EXPECT().Ensure(gomock.Any(), "u1").Return(progressWith("u1", nil), nil)
	backing.EXPECT().Read(gomock.Any(), "u1").Return(
		progressWith("u1", func(p *gamification.UserProgress) { p.XP = 5 }), nil,
	)

	_, err := store.Ensure(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, store.Invalidate("u1"))
	assert.False(t, store.Invalidate("u1"))

	p, err := store.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.XP)
}

func TestCachedStore_WithMemoryStore(t *testing.T) {
	memory := gamification.NewMemoryStoreWithClock(fixedClock(testNow))
	cached := gamification.NewCachedStore(memory, 1, time.Minute)

	ctx := context.Background()
	_, err := cached.Update(ctx, "u1", func(p *gamification.UserProgress) error {
		p.TotalMeals = 3
		return nil
	})
	require.NoError(t, err)

	p, err := cached.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalMeals)

	stale, err := cached.ListStale(ctx, time.Time{}, "", 0)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "u1", stale[0].UID)
}
