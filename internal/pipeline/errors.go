package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure for HTTP mapping and localization.
type Kind int

const (
	// KindInvalidRequest means required input was missing or malformed.
	KindInvalidRequest Kind = iota
	// KindRateLimited means the local quota was exhausted or the upstream
	// signaled backpressure.
	KindRateLimited
	// KindBillingBlocked means the upstream rejected the call for billing
	// reasons.
	KindBillingBlocked
	// KindUpstreamUnavailable covers network failures and any other non-2xx
	// upstream response.
	KindUpstreamUnavailable
	// KindMalformedResponse means the upstream reply could not be parsed as
	// structured data.
	KindMalformedResponse
)

// HTTPStatus returns the status the kind maps to at the endpoint boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindBillingBlocked:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// MessageID returns the i18n message identifier for the caller-facing error.
func (k Kind) MessageID() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindRateLimited:
		return "rate_limited"
	case KindBillingBlocked:
		return "billing_blocked"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "upstream_unavailable"
	}
}

// Error is a classified pipeline failure. The message is for server-side
// logs only; callers receive a localized generic message for the kind.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// NewError creates a pipeline error with the given kind.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// WrapError classifies an underlying error.
func WrapError(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, msg: msg, err: err}
}

// KindOf extracts the kind from err, defaulting to KindUpstreamUnavailable
// for anything unclassified.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUpstreamUnavailable
}
