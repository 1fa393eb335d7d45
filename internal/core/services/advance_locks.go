package services

import (
	"context"
	"sync"
	"time"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"golang.org/x/sync/semaphore"
)

// AdvanceLocks serializes every read-then-write of an advance's remaining
// balance per advance id. Operations on unrelated advances proceed in
// parallel. Acquisition is bounded: a caller that cannot take the lock
// within the timeout gets ErrLockTimeout instead of blocking a request
// thread indefinitely.
//
// Entries are reference counted and removed once no holder or waiter
// remains, so the map stays proportional to in-flight operations rather
// than to every advance id ever seen.
type AdvanceLocks struct {
	mu      sync.Mutex
	locks   map[string]*advanceLock
	timeout time.Duration
}

type advanceLock struct {
	sem  *semaphore.Weighted
	refs int
}

func NewAdvanceLocks(timeout time.Duration) *AdvanceLocks {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdvanceLocks{
		locks:   make(map[string]*advanceLock),
		timeout: timeout,
	}
}

func (l *AdvanceLocks) retain(advanceID string) *advanceLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[advanceID]
	if !ok {
		entry = &advanceLock{sem: semaphore.NewWeighted(1)}
		l.locks[advanceID] = entry
	}
	entry.refs++
	return entry
}

func (l *AdvanceLocks) put(advanceID string, entry *advanceLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, advanceID)
	}
}

// Acquire takes the advance's lock, waiting at most the configured timeout.
// The returned release function must be called exactly once.
func (l *AdvanceLocks) Acquire(ctx context.Context, advanceID string) (release func(), err error) {
	entry := l.retain(advanceID)

	acquireCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := entry.sem.Acquire(acquireCtx, 1); err != nil {
		l.put(advanceID, entry)
		if ctx.Err() == nil {
			return nil, apperrors.ErrLockTimeout
		}
		return nil, err
	}
	return func() {
		entry.sem.Release(1)
		l.put(advanceID, entry)
	}, nil
}
