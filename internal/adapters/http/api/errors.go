package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrTooLarge         = errors.New("payload too large")
	ErrBackpressure     = errors.New("backpressure")
	ErrUnavailable      = errors.New("service unavailable")
	ErrInternal         = errors.New("internal error")
)

// Error is an operation-tagged API error. Kind selects the HTTP status.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op as an internal error.
func Wrap(op string, err error) error {
	return &Error{Op: op, Kind: ErrInternal, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message is the client-facing text.
func (e *Error) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

var kinds = []struct { //nolint:gochecknoglobals // fixed mapping table
	kind   error
	status int
	code   string
}{
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
	{ErrTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large"},
	{ErrBackpressure, http.StatusTooManyRequests, "backpressure"},
	{ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
}

// statusOf maps an error to its HTTP status and response code.
func statusOf(err error) (int, string) {
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal"
}
