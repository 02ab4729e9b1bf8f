package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"bookslot/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lifecycle event channels. Notification collaborators subscribe to these to
// send trial-ending and plan-change emails; the engine only publishes.
const (
	PlanEventChannel  = "bookslot:events:plan"
	ResetEventChannel = "bookslot:events:reset"
)

// PlanChangeEvent is published whenever a tenant's plan transitions.
type PlanChangeEvent struct {
	TenantID uuid.UUID `json:"tenant_id"`
	OldPlan  string    `json:"old_plan"`
	NewPlan  string    `json:"new_plan"`
}

// CounterResetEvent is published when a tenant's monthly counter resets.
type CounterResetEvent struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	PeriodStart time.Time `json:"period_start"`
}

type CacheService interface {
	// Plan-state caching for the dashboard endpoint. Misses return (nil, nil).
	GetPlanState(ctx context.Context, tenantID uuid.UUID) (*models.PlanState, error)
	SetPlanState(ctx context.Context, tenantID uuid.UUID, state *models.PlanState, ttl time.Duration) error
	InvalidatePlanState(ctx context.Context, tenantID uuid.UUID) error

	// Lifecycle event publishing.
	PublishPlanChange(ctx context.Context, event PlanChangeEvent) error
	PublishCounterReset(ctx context.Context, event CounterResetEvent) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func planStateKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("bookslot:planstate:%s", tenantID.String())
}

func (r *redisCacheService) GetPlanState(ctx context.Context, tenantID uuid.UUID) (*models.PlanState, error) {
	data, err := r.client.Get(ctx, planStateKey(tenantID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var state models.PlanState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *redisCacheService) SetPlanState(ctx context.Context, tenantID uuid.UUID, state *models.PlanState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, planStateKey(tenantID), data, ttl).Err()
}

func (r *redisCacheService) InvalidatePlanState(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, planStateKey(tenantID)).Err()
}

func (r *redisCacheService) PublishPlanChange(ctx context.Context, event PlanChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, PlanEventChannel, data).Err()
}

func (r *redisCacheService) PublishCounterReset(ctx context.Context, event CounterResetEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, ResetEventChannel, data).Err()
}
