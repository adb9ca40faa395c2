// internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for HTTP mapping and logging.
type Kind int

const (
	KindValidation Kind = iota
	KindPolicy
	KindNotFound
	KindConflict
	KindConfiguration
	KindGateway
)

// Error carries a client-safe message and an HTTP status. Wrapped causes stay
// server-side; ClientMessage never exposes them for 5xx classes.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidation reports a malformed request shape.
func NewValidation(message string) error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// NewPolicy reports a compliance refusal. Sending-window violations use 403,
// content violations 400.
func NewPolicy(status int, message string) error {
	return &Error{Kind: KindPolicy, Status: status, Message: message}
}

// NewNotFound reports a mutation against an unknown member.
func NewNotFound(message string) error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// NewConflict reports a duplicate phone on create.
func NewConflict(message string) error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Message: message}
}

// NewConfiguration reports a missing or unusable external setting. The
// message is for server logs; callers only ever see a generic 500.
func NewConfiguration(message string, err error) error {
	return &Error{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// NewGateway wraps a single recipient's carrier failure. Recorded
// per-recipient by the dispatcher, never propagated to the request.
func NewGateway(err error) error {
	return &Error{Kind: KindGateway, Status: http.StatusBadGateway, Message: "carrier send failed", Err: err}
}

// Status returns the HTTP status for err, defaulting to 500 for anything
// outside the taxonomy.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message safe to surface to the caller. 4xx
// messages pass through verbatim; everything else collapses to a generic
// failure message.
func ClientMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		return appErr.Message
	}
	return "Internal Server Error"
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
