package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/shareit/internal/api"
	"github.com/erazemk/shareit/internal/model"
)

type userCreate struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
}

type userPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemCreate struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

type itemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type commentCreate struct {
	Text string `json:"text" validate:"notblank"`
}

type bookingCreate struct {
	ItemID *int64          `json:"itemId" validate:"required,gt=0"`
	Start  model.Timestamp `json:"start" validate:"required,futureorpresent"`
	End    model.Timestamp `json:"end" validate:"required,future"`
}

type requestCreate struct {
	Description string `json:"description" validate:"notblank"`
}

// newValidator builds a validator that names fields by their JSON keys and
// judges future and present against now.
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Zero timestamps read as missing so that required rejects them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		ts := field.Interface().(model.Timestamp)
		if ts.IsZero() {
			return nil
		}
		return ts.Time
	}, model.Timestamp{})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// A second of slack absorbs the time the request spent in transit.
	mustRegister(v, "futureorpresent", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.Before(now().Add(-time.Second))
	})
	mustRegister(v, "future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(now())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// check inspects an incoming request before it is forwarded.
type check func(v *validator.Validate, r *http.Request, body []byte) error

// jsonBody decodes the body into T and validates it.
func jsonBody[T any](v *validator.Validate, _ *http.Request, body []byte) error {
	var dto T
	if err := json.Unmarshal(body, &dto); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return describe(v.Struct(dto))
}

// describe turns validator output into a single readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "future":
		return fe.Field() + " must be in the future"
	case "futureorpresent":
		return fe.Field() + " must not be in the past"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// sharer requires a positive user id in the identity header.
func sharer(_ *validator.Validate, r *http.Request, _ []byte) error {
	id, err := strconv.ParseInt(r.Header.Get(api.UserIDHeader), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%s header must be a positive user id", api.UserIDHeader)
	}
	return nil
}

// pathID requires a positive {id} path segment.
func pathID(_ *validator.Validate, r *http.Request, _ []byte) error {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return nil
}

// paging requires from >= 0 and size > 0 when present.
func paging(_ *validator.Validate, r *http.Request, _ []byte) error {
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n < 0 {
			return fmt.Errorf("from must be a non-negative integer, got %q", raw)
		}
	}
	if raw := q.Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n <= 0 {
			return fmt.Errorf("size must be a positive integer, got %q", raw)
		}
	}
	return nil
}

// state requires a known booking state.
func state(_ *validator.Validate, r *http.Request, _ []byte) error {
	s := r.URL.Query().Get("state")
	if _, ok := model.ParseBookingState(s); !ok {
		return fmt.Errorf("Unknown state: %s", s)
	}
	return nil
}

// approved requires approved=true|false.
func approved(_ *validator.Validate, r *http.Request, _ []byte) error {
	if _, err := strconv.ParseBool(r.URL.Query().Get("approved")); err != nil {
		return errors.New("approved must be true or false")
	}
	return nil
}
