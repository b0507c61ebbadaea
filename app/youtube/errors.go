package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrQuotaExceeded   = errors.New("youtube: quota exceeded")
	ErrChannelNotFound = errors.New("youtube: channel not found")
)

// APIError is a non-2xx response from the Data API.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api %d: %s", e.StatusCode, e.Message)
}

// Is reports quota exhaustion as ErrQuotaExceeded.
func (e *APIError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.quotaExhausted()
}

func (e *APIError) quotaExhausted() bool {
	if e.StatusCode != http.StatusForbidden {
		return false
	}
	switch e.Reason {
	case "quotaExceeded", "dailyLimitExceeded":
		return true
	}
	return false
}

// MissingFieldError is returned when a response lacks a field the pipeline
// depends on.
type MissingFieldError struct {
	Resource string
	ID       string
	Field    string
}

func (e *MissingFieldError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("youtube: %s %s is missing %s", e.Resource, e.ID, e.Field)
	}
	return fmt.Sprintf("youtube: %s is missing %s", e.Resource, e.Field)
}
