package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure.
type Kind int

// Failure kinds.
const (
	KindInternal Kind = iota
	KindNotFound
	KindOwnershipConflict
	KindUnavailable
	KindInvalidTimeRange
	KindInvalidState
	KindBadRequest
	KindConflict
	KindOverlap
)

var kindNames = map[Kind]string{
	KindInternal:          "internal",
	KindNotFound:          "not found",
	KindOwnershipConflict: "ownership conflict",
	KindUnavailable:       "unavailable",
	KindInvalidTimeRange:  "invalid time range",
	KindInvalidState:      "invalid state",
	KindBadRequest:        "bad request",
	KindConflict:          "conflict",
	KindOverlap:           "overlap",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a domain failure with a kind and a human readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is makes every error of a kind match that kind's sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrOwnershipConflict = &Error{Kind: KindOwnershipConflict}
	ErrUnavailable       = &Error{Kind: KindUnavailable}
	ErrInvalidTimeRange  = &Error{Kind: KindInvalidTimeRange}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrBadRequest        = &Error{Kind: KindBadRequest}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrOverlap           = &Error{Kind: KindOverlap}
)

// KindOf returns the kind of err, or KindInternal if err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func newError(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

func badRequest(format string, args ...any) error {
	return newError(KindBadRequest, format, args...)
}
