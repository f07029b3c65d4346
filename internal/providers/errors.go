package providers

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type rateLimitError struct {
	err error
}

func (e *rateLimitError) Error() string { return "rate limited: " + e.err.Error() }

func (e *rateLimitError) Unwrap() error { return e.err }

type authError struct {
	status int
	err    error
}

func (e *authError) Error() string {
	return fmt.Sprintf("authentication error (status %d): %v", e.status, e.err)
}

func (e *authError) Unwrap() error { return e.err }

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsRateLimitError checks if an error is a rate-limit or quota error.
func IsRateLimitError(err error) bool {
	var re *rateLimitError
	return errors.As(err, &re)
}

// classify maps go-openai transport errors onto the typed errors above.
// Nothing is retried.
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &authError{status: status, err: err}
	case http.StatusTooManyRequests:
		return &rateLimitError{err: err}
	default:
		return err
	}
}
