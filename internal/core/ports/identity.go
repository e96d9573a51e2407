package ports

import (
	"context"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// IdentityResolver fetches the canonical identity for a username.
// Failures wrap domain.ErrIdentityNotFound, domain.ErrIdentityUnavailable or
// domain.ErrIdentityTimeout.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (domain.Identity, error)
}
