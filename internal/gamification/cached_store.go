package gamification

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte         = 1024 * 1024
	cacheGenerations = 256
)

// CachedStore is a read-through freecache in front of another store.
// Writes through this store drop the cached entry of the user; writes made
// by other instances become visible once the entry expires.
//
// Every write bumps the generation of the uid's stripe. A read only caches what it
// loaded when no write touched the stripe meanwhile, so a slow read cannot put a
// snapshot older than a committed write back into the cache.
type CachedStore struct {
	ProgressStore
	cache      *freecache.Cache
	ttlSeconds int

	mu          sync.Mutex
	generations [cacheGenerations]uint64
}

func NewCachedStore(store ProgressStore, sizeMegabytes int, ttl time.Duration) *CachedStore {
	ttlSeconds := int(ttl.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}
	return &CachedStore{
		ProgressStore: store,
		cache:         freecache.NewCache(sizeMegabytes * megabyte),
		ttlSeconds:    ttlSeconds,
	}
}

func cacheKey(uid string) []byte {
	return []byte(fmt.Sprintf("progress::%s", uid))
}

func generationSlot(uid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return int(h.Sum32() % cacheGenerations)
}

func (s *CachedStore) generation(uid string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[generationSlot(uid)]
}

// invalidate drops the entry and makes in-flight reads of uid skip caching.
func (s *CachedStore) invalidate(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[generationSlot(uid)]++
	return s.cache.Del(cacheKey(uid))
}

// setIfCurrent caches p unless uid was written since gen was taken.
func (s *CachedStore) setIfCurrent(uid string, gen uint64, p *UserProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[generationSlot(uid)] != gen {
		log.Tracef("progress of [%s] changed while loading, not cached", uid)
		return
	}
	s.set(cacheKey(uid), p)
}

func (s *CachedStore) Read(ctx context.Context, uid string) (*UserProgress, error) {
	if uid == "" {
		return nil, ErrEmptyUID
	}

	key := cacheKey(uid)
	if cached, err := s.cache.Get(key); err == nil {
		p := &UserProgress{}
		if err := json.Unmarshal(cached, p); err == nil {
			log.Tracef("progress of [%s] found in cache", uid)
			return p, nil
		} else {
			log.Errorf("failed to unmarshal cached progress of %s: %s", uid, err)
		}
	}

	gen := s.generation(uid)
	p, err := s.ProgressStore.Read(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.setIfCurrent(uid, gen, p)
	return p, nil
}

func (s *CachedStore) Ensure(ctx context.Context, uid string) (*UserProgress, error) {
	gen := s.generation(uid)
	p, err := s.ProgressStore.Ensure(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.setIfCurrent(uid, gen, p)
	return p, nil
}

// Update never caches its result: concurrent updates of one uid may return in any order.
// The entry is dropped before the write and again once it committed, so the next read
// loads the committed record.
func (s *CachedStore) Update(ctx context.Context, uid string, fn UpdateFunc) (*UserProgress, error) {
	s.invalidate(uid)
	defer s.invalidate(uid)

	return s.ProgressStore.Update(ctx, uid, fn)
}

// Invalidate drops the cached record of uid.
func (s *CachedStore) Invalidate(uid string) bool {
	return s.invalidate(uid)
}

func (s *CachedStore) set(key []byte, p *UserProgress) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal progress of %s for cache: %s", p.UID, err)
		return
	}
	if err := s.cache.Set(key, data, s.ttlSeconds); err != nil {
		log.Errorf("failed to cache progress of %s: %s", p.UID, err)
	}
}
