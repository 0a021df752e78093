package offmeta

import (
	"context"
	"errors"
	"fmt"

	"github.com/ninesl/offmeta/internal/client"
)

// ErrMissingIdentifier is returned, without any request being made, when an
// operation needs a card identifier and none was given.
var ErrMissingIdentifier = errors.New("no card identifier provided")

// Fallback messages used when the service fails without saying why.
const (
	GenericErrorMessage = "Unknown error occurred"
	cardErrorMessage    = "Failed to fetch card details."
	rulingsErrorMessage = "Failed to fetch rulings."
	priceErrorMessage   = "Failed to fetch card price."
	relatedErrorMessage = "Failed to fetch related cards."
)

// APIError is a failed request to the card service.
//
// Error returns the service's own detail text verbatim, or a generic
// message for the operation when the service gave none.
type APIError struct {
	StatusCode int    // HTTP status, 0 if no response was received
	Code       string // service error code, e.g. "not_found"
	Details    string // service error detail
	Fallback   string
	Err        error
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Details
	}
	if e.Fallback != "" {
		return e.Fallback
	}
	return GenericErrorMessage
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// asAPIError converts a client error into the error surfaced to callers.
// Context cancellation is passed through untouched so callers can tell it apart.
func asAPIError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return &APIError{
			StatusCode: statusErr.StatusCode,
			Code:       statusErr.Code,
			Details:    statusErr.Details,
			Fallback:   fallback,
			Err:        err,
		}
	}
	return &APIError{Fallback: fallback, Err: fmt.Errorf("request failed: %w", err)}
}

// IsNotFound reports whether err is a service 404.
func IsNotFound(err error) bool {
	return client.IsStatus(err, 404)
}
