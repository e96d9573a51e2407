package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

// actor returns the username recorded in audit fields for this request.
func actor(c echo.Context) string {
	return domain.ActorFrom(c.Request().Context())
}

// pathUUID parses the named path parameter, rejecting malformed ids with a
// validation error instead of a lookup miss.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(nil, map[string]string{name: "must be a valid UUID"})
	}
	return id, nil
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return domain.NewValidationError(nil, map[string]string{"body": "malformed JSON payload"})
	}
	return c.Validate(req)
}

// parseDate parses a value already checked by the datetime validator.
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseDate(s)
	return &t
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
