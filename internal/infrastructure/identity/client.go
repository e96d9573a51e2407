// Package identity resolves usernames against the external identity service.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/erp-platform/employee-service/internal/api/metrics"
	"github.com/erp-platform/employee-service/internal/core/domain"
)

const (
	defaultTimeout  = 3 * time.Second
	maxResponseBody = 1 << 20
)

// Config captures the settings for reaching the identity service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls GET <base>/users/username/{username}. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

type userDetailsResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

// Resolve fetches the identity registered for username.
func (c *Client) Resolve(ctx context.Context, username string) (domain.Identity, error) {
	start := time.Now()
	id, err := c.fetch(ctx, username)
	metrics.IdentityLookupDuration.WithLabelValues(resultLabel(err)).Observe(time.Since(start).Seconds())
	return id, err
}

func (c *Client) fetch(ctx context.Context, username string) (domain.Identity, error) {
	if username == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty username", domain.ErrIdentityNotFound)
	}

	endpoint := c.baseURL + "/users/username/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: build request: %v", domain.ErrIdentityUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrIdentityTimeout, err)
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Identity{}, fmt.Errorf("%w: %s", domain.ErrIdentityNotFound, username)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.Identity{}, fmt.Errorf("%w: unexpected status %d", domain.ErrIdentityUnavailable, resp.StatusCode)
	}

	var body userDetailsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body); err != nil {
		if isTimeout(err) {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrIdentityTimeout, err)
		}
		return domain.Identity{}, fmt.Errorf("%w: decode response: %v", domain.ErrIdentityUnavailable, err)
	}
	if body.Username == "" {
		return domain.Identity{}, fmt.Errorf("%w: response without username", domain.ErrIdentityUnavailable)
	}

	c.log.Debug().Str("username", body.Username).Int("roles", len(body.Roles)).Msg("identity resolved")
	return domain.Identity{ID: body.ID, Username: body.Username, Roles: body.Roles}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrIdentityTimeout):
		return "timeout"
	default:
		return "unavailable"
	}
}
