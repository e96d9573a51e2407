package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

const dateLayout = "2006-01-02"

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	ev := &echoValidator{v: validator.New(), now: time.Now}

	// Report fields by their JSON names.
	ev.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Decimals are validated by value, so numeric tags such as gte apply.
	ev.v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})

	_ = ev.v.RegisterValidation("pastdate", ev.pastDate)
	_ = ev.v.RegisterValidation("notfuture", ev.notFuture)
	return ev
}

// Validate satisfies the echo.Validator interface. Failures are returned as a
// *domain.ValidationError keyed by JSON field path.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				fields[fieldPath(fe)] = fieldError(fe)
			}
			return domain.NewValidationError(nil, fields)
		}
		return err
	}
	return nil
}

func (ev *echoValidator) pastDate(fl validator.FieldLevel) bool {
	t, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil && t.Before(domain.Today(ev.now()))
}

func (ev *echoValidator) notFuture(fl validator.FieldLevel) bool {
	t, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil && !t.After(domain.Today(ev.now()))
}

// fieldPath drops the root struct name from the namespace: address.city.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	case "pastdate":
		return "must be in the past"
	case "notfuture":
		return "must not be in the future"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
