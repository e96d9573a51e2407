package identity

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/erp-platform/employee-service/internal/api/metrics"
	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
)

// Cache is the storage used by CachedResolver.
type Cache interface {
	Get(ctx context.Context, username string) (domain.Identity, bool, error)
	Set(ctx context.Context, username string, identity domain.Identity, ttl time.Duration) error
}

// CachedResolver serves successful lookups from a TTL cache and collapses
// concurrent misses for the same username into one upstream call. Failed
// lookups are never cached.
type CachedResolver struct {
	next  ports.IdentityResolver
	cache Cache
	ttl   time.Duration
	sf    singleflight.Group
	log   zerolog.Logger
}

// NewCachedResolver wraps next with cache. A non-positive ttl or a nil cache
// disables caching and returns next unchanged.
func NewCachedResolver(next ports.IdentityResolver, cache Cache, ttl time.Duration, log zerolog.Logger) ports.IdentityResolver {
	if ttl <= 0 || cache == nil {
		return next
	}
	return &CachedResolver{next: next, cache: cache, ttl: ttl, log: log}
}

func (r *CachedResolver) Resolve(ctx context.Context, username string) (domain.Identity, error) {
	id, ok, err := r.cache.Get(ctx, username)
	switch {
	case err != nil:
		r.log.Warn().Err(err).Str("username", username).Msg("identity cache read failed, resolving upstream")
	case ok:
		metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
		return id, nil
	}
	metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()

	// A caller leaving early must not fail the others sharing this call.
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.sf.Do(username, func() (any, error) {
		id, err := r.next.Resolve(shared, username)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(shared, username, id, r.ttl); err != nil {
			r.log.Warn().Err(err).Str("username", username).Msg("identity cache write failed")
		}
		return id, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return v.(domain.Identity), nil
}
