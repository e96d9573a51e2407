package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Role is the closed set of roles the service authorizes against.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleHRManager Role = "HR_MANAGER"
	RoleManager   Role = "MANAGER"
	RoleEmployee  Role = "EMPLOYEE"
)

const authorityPrefix = "ROLE_"

// ParseRole normalizes a role string from the identity service. Surrounding
// whitespace, case and an optional ROLE_ prefix are ignored.
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, authorityPrefix)
	switch r := Role(s); r {
	case RoleAdmin, RoleHRManager, RoleManager, RoleEmployee:
		return r, true
	}
	return "", false
}

// Authority returns the prefixed authority name, e.g. ROLE_ADMIN.
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

// Identity is the canonical user record returned by the identity service.
type Identity struct {
	ID       uuid.UUID
	Username string
	Roles    []string
}

// Principal is the authenticated caller of a single request.
type Principal struct {
	Username       string
	Roles          []Role
	RawAuthorities []string
}

// NewPrincipal builds a principal from a resolved identity. Role strings
// outside the known set are returned separately and not granted.
func NewPrincipal(identity Identity) (Principal, []string) {
	p := Principal{Username: identity.Username}
	var unknown []string
	seen := make(map[Role]struct{}, len(identity.Roles))
	for _, raw := range identity.Roles {
		r, ok := ParseRole(raw)
		if !ok {
			unknown = append(unknown, raw)
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		p.Roles = append(p.Roles, r)
		p.RawAuthorities = append(p.RawAuthorities, r.Authority())
	}
	return p, unknown
}

func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, &p)
}

// WithoutPrincipal masks any principal already carried by ctx.
func WithoutPrincipal(ctx context.Context) context.Context {
	return context.WithValue(ctx, principalKey{}, (*Principal)(nil))
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	if p == nil {
		return Principal{}, false
	}
	return *p, true
}

// ActorFrom returns the username to record in audit fields.
func ActorFrom(ctx context.Context) string {
	if p, ok := PrincipalFrom(ctx); ok {
		return p.Username
	}
	return SystemActor
}
