// Package cache stores resolved identities for a bounded time.
//
// Two backends are supported:
//   - memory: in-process, bounded by entry count
//   - redis: shared between replicas
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// IdentityCache is implemented by every backend.
type IdentityCache interface {
	Get(ctx context.Context, username string) (domain.Identity, bool, error)
	Set(ctx context.Context, username string, identity domain.Identity, ttl time.Duration) error
}

// Config selects and sizes a backend.
type Config struct {
	Driver     string
	TTL        time.Duration
	MaxEntries int
}

// New builds the backend named by cfg.Driver. rdb is only used by the redis driver.
func New(cfg Config, rdb redis.Cmdable) (IdentityCache, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemory(cfg.TTL, cfg.MaxEntries), nil
	case DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("cache: redis driver requires a redis client")
		}
		return NewRedis(rdb), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

func cloneIdentity(id domain.Identity) domain.Identity {
	id.Roles = append([]string(nil), id.Roles...)
	return id
}
