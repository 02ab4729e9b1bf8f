package locking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAcquire_MutualExclusion(t *testing.T) {
	lock := NewTenantLock()
	tenantID := uuid.New()
	ctx := context.Background()

	const workers = 10
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lock.Acquire(ctx, tenantID)
			assert.NoError(t, err)
			defer release()

			// A data race here fails the test under -race.
			current := counter
			time.Sleep(time.Millisecond)
			counter = current + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestAcquire_ContextCancelledWhileWaiting(t *testing.T) {
	lock := NewTenantLock()
	tenantID := uuid.New()

	release, err := lock.Acquire(context.Background(), tenantID)
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = lock.Acquire(ctx, tenantID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	// The lock is usable again after release.
	release2, err := lock.Acquire(context.Background(), tenantID)
	assert.NoError(t, err)
	release2()
}

func TestAcquire_Reentry(t *testing.T) {
	lock := NewTenantLock()
	tenantID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		release, err := lock.Acquire(ctx, tenantID)
		assert.NoError(t, err)
		release()
	}
}
