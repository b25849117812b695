package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a provider failure.
type Kind string

const (
	// KindNotFound means the path or resource does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict means the resource already exists.
	KindConflict Kind = "conflict"
	// KindReset means the delta cursor is no longer valid.
	KindReset Kind = "reset"
	// KindAuth means the access token is missing, invalid or revoked.
	KindAuth Kind = "auth"
	// KindRateLimited means the provider asked the caller to back off.
	KindRateLimited Kind = "rate_limited"
	// KindProvider is any other error reported by the provider.
	KindProvider Kind = "provider"

	// OAuth callback failures.
	KindBadRequest  Kind = "bad_request"
	KindBadState    Kind = "bad_state"
	KindCSRF        Kind = "csrf"
	KindNotApproved Kind = "not_approved"
)

// Error is a failure reported by the provider. Transport failures such as
// timeouts and refused connections are returned unwrapped and never carry
// this type.
type Error struct {
	Kind    Kind
	Status  int
	Summary string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider %s (%d): %s", e.Kind, e.Status, e.Summary)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Summary)
}

// AsError returns the provider error wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsKind reports whether err is a provider error of the given kind.
func IsKind(err error, kind Kind) bool {
	pe, ok := AsError(err)
	return ok && pe.Kind == kind
}

// IsNotFound reports whether err is a provider not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConflict reports whether err is a provider already-exists error.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }
