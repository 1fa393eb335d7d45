package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *AdvanceLocks) entryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func TestAdvanceLocks_EvictsIdleEntries(t *testing.T) {
	locks := NewAdvanceLocks(50 * time.Millisecond)
	ctx := context.Background()

	release, err := locks.Acquire(ctx, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, 1, locks.entryCount())

	release()
	assert.Equal(t, 0, locks.entryCount())
}

func TestAdvanceLocks_EvictsAfterTimedOutWaiter(t *testing.T) {
	locks := NewAdvanceLocks(20 * time.Millisecond)
	ctx := context.Background()

	release, err := locks.Acquire(ctx, "adv-1")
	require.NoError(t, err)

	_, err = locks.Acquire(ctx, "adv-1")
	require.Error(t, err)

	release()
	assert.Equal(t, 0, locks.entryCount())
}

func TestAdvanceLocks_EntryRetainedWhileContended(t *testing.T) {
	locks := NewAdvanceLocks(time.Second)
	ctx := context.Background()

	release, err := locks.Acquire(ctx, "adv-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r, err := locks.Acquire(ctx, "adv-1")
		if assert.NoError(t, err) {
			r()
		}
	}()

	// Give the waiter time to queue, then hand over the lock. The entry
	// must survive the handover so holder and waiter share one semaphore.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, locks.entryCount())
	release()

	wg.Wait()
	assert.Equal(t, 0, locks.entryCount())
}
