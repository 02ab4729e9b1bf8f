package locking

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

// TenantLock is the per-tenant serialization point for booking commits and
// counter resets. It is a fixed pool of channel-based mutexes keyed by tenant
// ID: bounded memory regardless of tenant count, at the cost of occasional
// false sharing between tenants that hash to the same shard.
//
// Channel mutexes let waiters bail out on context cancellation, so a booking
// request that times out while queued leaves no observable effect.
type TenantLock struct {
	shards [256]chanMutex
	once   sync.Once
}

type chanMutex struct {
	ch chan struct{}
}

// NewTenantLock creates a ready-to-use lock pool.
func NewTenantLock() *TenantLock {
	l := &TenantLock{}
	l.init()
	return l
}

func (l *TenantLock) init() {
	l.once.Do(func() {
		for i := range l.shards {
			l.shards[i].ch = make(chan struct{}, 1)
			l.shards[i].ch <- struct{}{} // start unlocked
		}
	})
}

// Acquire locks the shard for the given tenant, respecting context
// cancellation while waiting. On success it returns a release function the
// caller must invoke; on cancellation it returns the context error.
func (l *TenantLock) Acquire(ctx context.Context, tenantID uuid.UUID) (func(), error) {
	l.init()
	shard := &l.shards[l.shardIdx(tenantID)]

	select {
	case <-shard.ch:
		return func() { shard.ch <- struct{}{} }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *TenantLock) shardIdx(tenantID uuid.UUID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(tenantID[:])
	return h.Sum32() % 256
}
