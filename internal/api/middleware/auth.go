package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/api/metrics"
	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/core/ports"
	"github.com/erp-platform/employee-service/internal/security/token"
)

// TokenVerifier checks a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

const (
	outcomeAnonymous        = "anonymous"
	outcomeEstablished      = "established"
	outcomeTokenRejected    = "token_rejected"
	outcomeIdentityRejected = "identity_rejected"
	outcomeSubjectMismatch  = "subject_mismatch"
)

// Auth establishes the request principal from a bearer token. It never
// rejects a request: when any step fails the request continues without a
// principal and authorization decides what an anonymous caller may do.
func Auth(tokens TokenVerifier, identities ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := domain.WithoutPrincipal(req.Context())

			p, outcome := authenticate(ctx, req.Header.Get(echo.HeaderAuthorization), tokens, identities, log)
			metrics.AuthGateOutcomesTotal.WithLabelValues(outcome).Inc()
			if outcome == outcomeEstablished {
				ctx = domain.WithPrincipal(ctx, p)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func authenticate(
	ctx context.Context,
	header string,
	tokens TokenVerifier,
	identities ports.IdentityResolver,
	log zerolog.Logger,
) (domain.Principal, string) {
	// 1. Only Bearer credentials are considered.
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return domain.Principal{}, outcomeAnonymous
	}

	// 2. Verify signature and expiry.
	claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		tokenEvent(log, err).Err(err).Msg("bearer token rejected")
		return domain.Principal{}, outcomeTokenRejected
	}

	// 3. Resolve the canonical identity for the claimed subject.
	identity, err := identities.Resolve(ctx, claims.Subject)
	if err != nil {
		identityEvent(log, err).Err(err).Str("subject", claims.Subject).Msg("identity resolution failed")
		return domain.Principal{}, outcomeIdentityRejected
	}
	if identity.Username != claims.Subject {
		log.Warn().
			Str("subject", claims.Subject).
			Str("username", identity.Username).
			Msg("token subject does not match resolved identity")
		return domain.Principal{}, outcomeSubjectMismatch
	}

	// 4. Grant only roles from the known set.
	p, unknown := domain.NewPrincipal(identity)
	if len(unknown) > 0 {
		log.Warn().Str("username", p.Username).Strs("roles", unknown).Msg("ignoring unknown roles")
	}
	return p, outcomeEstablished
}

func tokenEvent(log zerolog.Logger, err error) *zerolog.Event {
	switch {
	case errors.Is(err, token.ErrExpired):
		return log.Info()
	case errors.Is(err, token.ErrBadSignature):
		return log.Error()
	default:
		return log.Warn()
	}
}

func identityEvent(log zerolog.Logger, err error) *zerolog.Event {
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return log.Warn()
	}
	return log.Error()
}
