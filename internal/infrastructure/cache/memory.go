package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// Memory is an in-process identity cache. Once MaxEntries is reached, new
// entries are dropped until expired ones are purged.
type Memory struct {
	items      *gocache.Cache
	maxEntries int
}

func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Memory{
		items:      gocache.New(ttl, cleanup),
		maxEntries: maxEntries,
	}
}

func (m *Memory) Get(_ context.Context, username string) (domain.Identity, bool, error) {
	v, ok := m.items.Get(username)
	if !ok {
		return domain.Identity{}, false, nil
	}
	id, ok := v.(domain.Identity)
	if !ok {
		return domain.Identity{}, false, nil
	}
	return cloneIdentity(id), true, nil
}

func (m *Memory) Set(_ context.Context, username string, identity domain.Identity, ttl time.Duration) error {
	if m.maxEntries > 0 && m.items.ItemCount() >= m.maxEntries {
		m.items.DeleteExpired()
		if m.items.ItemCount() >= m.maxEntries {
			return nil
		}
	}
	m.items.Set(username, cloneIdentity(identity), ttl)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	return m.items.ItemCount()
}
