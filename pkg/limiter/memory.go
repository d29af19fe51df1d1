package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// actor tracks the limiter and last-seen time for one actor ID.
type actor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per actor in process memory. Stale
// actors are evicted in the background to bound memory.
type MemoryStore struct {
	mu     sync.Mutex
	actors map[string]*actor
}

// NewMemoryStore creates an in-process store and starts its eviction loop.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{actors: make(map[string]*actor)}
	go s.evictStale()
	return s
}

// Allow consumes cost tokens from the actor's bucket.
func (s *MemoryStore) Allow(_ context.Context, actorID string, policy Policy, cost int) (bool, error) {
	s.mu.Lock()
	a, ok := s.actors[actorID]
	if !ok {
		perSecond := rate.Limit(float64(policy.RPM) / 60.0)
		if perSecond <= 0 {
			perSecond = 1
		}
		a = &actor{limiter: rate.NewLimiter(perSecond, policy.Burst)}
		s.actors[actorID] = a
	}
	a.lastSeen = time.Now()
	s.mu.Unlock()

	return a.limiter.AllowN(time.Now(), cost), nil
}

// evictStale removes actors idle for more than 3 minutes, checking every
// minute.
func (s *MemoryStore) evictStale() {
	for {
		time.Sleep(1 * time.Minute)
		s.mu.Lock()
		for id, a := range s.actors {
			if time.Since(a.lastSeen) > 3*time.Minute {
				delete(s.actors, id)
			}
		}
		s.mu.Unlock()
	}
}
