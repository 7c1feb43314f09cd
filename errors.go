package vellum

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrInvalidModel indicates the requested model identifier is empty or blank.
	ErrInvalidModel = errors.New("vellum: invalid model identifier")

	// ErrNoConnectionForModel indicates no enabled connection advertises the model.
	ErrNoConnectionForModel = errors.New("vellum: no connection configured for model")

	// ErrMissingCredential indicates a credential is required but absent after
	// the secret-store fallback.
	ErrMissingCredential = errors.New("vellum: missing credential")

	// ErrEmptyRequest indicates a generation request with no messages.
	ErrEmptyRequest = errors.New("vellum: request has no messages")

	// ErrStreamCancelled indicates the caller aborted an in-flight stream.
	// Partial output already delivered before the abort remains valid.
	ErrStreamCancelled = errors.New("vellum: stream cancelled")

	// ErrInvalidRequest indicates the request parameters are invalid.
	ErrInvalidRequest = errors.New("vellum: invalid request")
)

// ResolutionError represents a failure to resolve a model to a usable connection.
// It never carries credential material; only the model and vendor names appear
// in the message.
type ResolutionError struct {
	Model  string   // The model that was requested
	Vendor VendorID // The vendor involved, if one was identified
	Reason string   // Human-readable explanation
	Err    error    // Wrapped sentinel (ErrInvalidModel, ErrNoConnectionForModel, ErrMissingCredential)
}

func (e *ResolutionError) Error() string {
	if e.Vendor != "" {
		return fmt.Sprintf("resolving model '%s' (vendor '%s'): %s", e.Model, e.Vendor, e.Reason)
	}
	return fmt.Sprintf("resolving model '%s': %s", e.Model, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ProviderError represents an error from the underlying vendor API.
type ProviderError struct {
	Vendor     VendorID // The vendor name
	StatusCode int      // HTTP status code (if applicable)
	Message    string   // Error message from the vendor
	Err        error    // Wrapped error, if any
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("vendor '%s' error (status %d): %s", e.Vendor, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("vendor '%s' error: %s", e.Vendor, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsResolutionError checks if an error came from connection resolution.
// These errors surface before any network call is made.
func IsResolutionError(err error) bool {
	if err == nil {
		return false
	}
	var resErr *ResolutionError
	return errors.As(err, &resErr)
}

// IsCancelled checks if an error represents a caller-initiated abort,
// as opposed to a genuine failure.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrStreamCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrMissingCredential) {
		return true
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		// HTTP 401/403 indicate auth issues
		return providerErr.StatusCode == 401 || providerErr.StatusCode == 403
	}

	return false
}

// IsInvalidRequest checks if an error came from request validation,
// as opposed to resolution or the vendor API.
func IsInvalidRequest(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidRequest)
}

// CancelledError wraps a context error in ErrStreamCancelled so callers can
// distinguish aborts from transport failures with errors.Is.
func CancelledError(ctx context.Context) error {
	return fmt.Errorf("%w: %v", ErrStreamCancelled, context.Cause(ctx))
}
