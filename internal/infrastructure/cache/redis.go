package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

const (
	identityKeyPrefix = "identity:"
	defaultTimeout    = 5 * time.Second
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Redis stores identities as JSON under identity:<username>.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

type identityEntry struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

func (r *Redis) Get(ctx context.Context, username string) (domain.Identity, bool, error) {
	raw, err := r.client.Get(ctx, identityKeyPrefix+username).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("identity cache get: %w", err)
	}

	var e identityEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.Identity{}, false, fmt.Errorf("identity cache decode: %w", err)
	}
	return domain.Identity{ID: e.ID, Username: e.Username, Roles: e.Roles}, true, nil
}

func (r *Redis) Set(ctx context.Context, username string, identity domain.Identity, ttl time.Duration) error {
	raw, err := json.Marshal(identityEntry{ID: identity.ID, Username: identity.Username, Roles: identity.Roles})
	if err != nil {
		return fmt.Errorf("identity cache encode: %w", err)
	}
	if err := r.client.Set(ctx, identityKeyPrefix+username, raw, ttl).Err(); err != nil {
		return fmt.Errorf("identity cache set: %w", err)
	}
	return nil
}

// Ping reports whether the redis server answers. It backs the readiness check.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
