package gamification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=gamification_test

// ErrSkipUpdate can be returned by an UpdateFunc to leave the record as it is.
// Update then returns the unmodified record and no error.
var ErrSkipUpdate = errors.New("skip update")

// UpdateFunc mutates p in place. Returning an error discards every change made to p.
type UpdateFunc func(p *UserProgress) error

type ProgressStore interface {
	// Ensure returns the record of uid, creating the zero record if there is none.
	Ensure(ctx context.Context, uid string) (*UserProgress, error)
	// Read returns the record of uid, or an unsaved zero default.
	Read(ctx context.Context, uid string) (*UserProgress, error)
	// Update ensures the record and runs fn on it as one atomic unit, then persists the result.
	Update(ctx context.Context, uid string, fn UpdateFunc) (*UserProgress, error)
	// ListStale pages through records ordered by (UpdatedAt, UID), returning those after
	// the cursor (since, afterUID). A limit <= 0 means no limit.
	ListStale(ctx context.Context, since time.Time, afterUID string, limit int) ([]StaleRecord, error)
}

type StaleRecord struct {
	UID       string
	UpdatedAt time.Time
}

func (r StaleRecord) after(since time.Time, afterUID string) bool {
	if r.UpdatedAt.Equal(since) {
		return r.UID > afterUID
	}
	return r.UpdatedAt.After(since)
}

type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*UserProgress
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*UserProgress),
		now:     now,
	}
}

// Put stores a copy of p as is, replacing any existing record.
func (s *MemoryStore) Put(p *UserProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p.Clone()
	c.normalize()
	s.records[p.UID] = c
}

func (s *MemoryStore) Ensure(_ context.Context, uid string) (*UserProgress, error) {
	if uid == "" {
		return nil, ErrEmptyUID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(uid).Clone(), nil
}

func (s *MemoryStore) ensureLocked(uid string) *UserProgress {
	p, ok := s.records[uid]
	if !ok {
		p = NewUserProgress(uid, s.now())
		s.records[uid] = p
	}
	return p
}

func (s *MemoryStore) Read(_ context.Context, uid string) (*UserProgress, error) {
	if uid == "" {
		return nil, ErrEmptyUID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.records[uid]; ok {
		return p.Clone(), nil
	}
	return defaultProgress(uid), nil
}

func (s *MemoryStore) Update(_ context.Context, uid string, fn UpdateFunc) (*UserProgress, error) {
	if uid == "" {
		return nil, ErrEmptyUID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// a missing record is only created once fn did not fail, like a rolled back transaction
	current, ok := s.records[uid]
	if !ok {
		current = NewUserProgress(uid, s.now())
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		if errors.Is(err, ErrSkipUpdate) {
			s.records[uid] = current
			return current.Clone(), nil
		}
		return nil, err
	}
	s.records[uid] = working
	return working.Clone(), nil
}

func (s *MemoryStore) ListStale(_ context.Context, since time.Time, afterUID string, limit int) ([]StaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := make([]StaleRecord, 0)
	for _, p := range s.records {
		r := StaleRecord{UID: p.UID, UpdatedAt: p.UpdatedAt}
		if r.after(since, afterUID) {
			stale = append(stale, r)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		if stale[i].UpdatedAt.Equal(stale[j].UpdatedAt) {
			return stale[i].UID < stale[j].UID
		}
		return stale[i].UpdatedAt.Before(stale[j].UpdatedAt)
	})
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}
