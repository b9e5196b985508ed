package fetch

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetch client.
var (
	// ErrNotFound indicates the resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates the provider's rate limit was exceeded
	// and retries were exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNetworkError indicates a transport-level failure (timeout,
	// DNS, connection refused).
	ErrNetworkError = errors.New("network error")

	// ErrInvalidResponse indicates an unexpected provider response.
	ErrInvalidResponse = errors.New("invalid provider response")
)

// APIError represents a non-retryable HTTP error from a provider.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (status %d) fetching %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
