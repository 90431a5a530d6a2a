package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldready/locate-service/internal/domain"
)

// ErrCheckNotFound is returned when an audit entry has expired or never existed.
var ErrCheckNotFound = errors.New("readiness check not found")

const checkKeyPrefix = "readiness:check:"

// CheckAuditRepository keeps completed readiness checks retrievable by check
// id for a bounded window. Checks are immutable; entries are write-once.
type CheckAuditRepository interface {
	Store(ctx context.Context, check *domain.DigReadinessCheck, ttl time.Duration) error
	Get(ctx context.Context, checkID string) (*domain.DigReadinessCheck, error)
}

type checkAuditRepository struct {
	client *redis.Client
}

// NewCheckAuditRepository instantiates the redis-backed audit store.
func NewCheckAuditRepository(client *redis.Client) CheckAuditRepository {
	return &checkAuditRepository{client: client}
}

func (r *checkAuditRepository) Store(ctx context.Context, check *domain.DigReadinessCheck, ttl time.Duration) error {
	payload, err := json.Marshal(check)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, checkKeyPrefix+check.CheckID, payload, ttl).Err()
}

func (r *checkAuditRepository) Get(ctx context.Context, checkID string) (*domain.DigReadinessCheck, error) {
	payload, err := r.client.Get(ctx, checkKeyPrefix+checkID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCheckNotFound
		}
		return nil, err
	}
	var check domain.DigReadinessCheck
	if err := json.Unmarshal(payload, &check); err != nil {
		return nil, err
	}
	return &check, nil
}
