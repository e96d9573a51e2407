package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/erp-platform/employee-service/internal/core/domain"
	"github.com/erp-platform/employee-service/internal/security/token"
)

const testSecret = "secret"

var discardLogger = zerolog.Nop()

type stubResolver struct {
	identities map[string]domain.Identity
	err        error
	calls      int
}

func (r *stubResolver) Resolve(_ context.Context, username string) (domain.Identity, error) {
	r.calls++
	if r.err != nil {
		return domain.Identity{}, r.err
	}
	id, ok := r.identities[username]
	if !ok {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}
	return id, nil
}

func aliceResolver() *stubResolver {
	return &stubResolver{identities: map[string]domain.Identity{
		"alice": {Username: "alice", Roles: []string{"ADMIN", "ROLE_MANAGER", "JANITOR"}},
	}}
}

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	c, err := token.NewCodec(testSecret)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func signToken(t *testing.T, key, subject string, expiresAt time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// runGate passes a request with the given Authorization header through Auth
// and returns the principal seen by the next handler.
func runGate(t *testing.T, ctx context.Context, header string, resolver *stubResolver) (domain.Principal, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got    domain.Principal
		ok     bool
		called bool
	)
	handler := Auth(newCodec(t), resolver, discardLogger)(func(c echo.Context) error {
		called = true
		got, ok = domain.PrincipalFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("gate must not return errors, got %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return got, ok
}

func TestAuth_ValidToken(t *testing.T) {
	raw := signToken(t, testSecret, "alice", time.Now().Add(time.Hour))

	p, ok := runGate(t, context.Background(), "Bearer "+raw, aliceResolver())
	if !ok {
		t.Fatalf("expected principal")
	}
	if p.Username != "alice" {
		t.Fatalf("expected alice, got %q", p.Username)
	}
	if len(p.Roles) != 2 || p.Roles[0] != domain.RoleAdmin || p.Roles[1] != domain.RoleManager {
		t.Fatalf("unexpected roles: %v", p.Roles)
	}
	if len(p.RawAuthorities) != 2 || p.RawAuthorities[0] != "ROLE_ADMIN" {
		t.Fatalf("unexpected authorities: %v", p.RawAuthorities)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	resolver := aliceResolver()

	if _, ok := runGate(t, context.Background(), "", resolver); ok {
		t.Fatalf("expected no principal")
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver must not be called")
	}
}

func TestAuth_NonBearerScheme(t *testing.T) {
	if _, ok := runGate(t, context.Background(), "Basic YWxpY2U6cHc=", aliceResolver()); ok {
		t.Fatalf("expected no principal")
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	if _, ok := runGate(t, context.Background(), "Bearer not-a-token", aliceResolver()); ok {
		t.Fatalf("expected no principal")
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	raw := signToken(t, testSecret, "alice", time.Now().Add(-time.Minute))
	resolver := aliceResolver()

	if _, ok := runGate(t, context.Background(), "Bearer "+raw, resolver); ok {
		t.Fatalf("expected no principal")
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver must not be called for rejected tokens")
	}
}

func TestAuth_WrongSignature(t *testing.T) {
	raw := signToken(t, "another-secret", "alice", time.Now().Add(time.Hour))

	if _, ok := runGate(t, context.Background(), "Bearer "+raw, aliceResolver()); ok {
		t.Fatalf("expected no principal")
	}
}

func TestAuth_UnknownUser(t *testing.T) {
	raw := signToken(t, testSecret, "mallory", time.Now().Add(time.Hour))

	if _, ok := runGate(t, context.Background(), "Bearer "+raw, aliceResolver()); ok {
		t.Fatalf("expected no principal")
	}
}

func TestAuth_IdentityTimeout(t *testing.T) {
	raw := signToken(t, testSecret, "alice", time.Now().Add(time.Hour))
	resolver := &stubResolver{err: domain.ErrIdentityTimeout}

	if _, ok := runGate(t, context.Background(), "Bearer "+raw, resolver); ok {
		t.Fatalf("expected no principal")
	}
}

func TestAuth_SubjectMismatch(t *testing.T) {
	raw := signToken(t, testSecret, "alice", time.Now().Add(time.Hour))
	resolver := &stubResolver{identities: map[string]domain.Identity{
		"alice": {Username: "Alice", Roles: []string{"ADMIN"}},
	}}

	if _, ok := runGate(t, context.Background(), "Bearer "+raw, resolver); ok {
		t.Fatalf("expected no principal")
	}
}

func TestAuth_ClearsIncomingPrincipal(t *testing.T) {
	ctx := domain.WithPrincipal(context.Background(), domain.Principal{Username: "intruder", Roles: []domain.Role{domain.RoleAdmin}})

	if _, ok := runGate(t, ctx, "", aliceResolver()); ok {
		t.Fatalf("stale principal leaked into the request")
	}
}
