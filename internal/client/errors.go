package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// APIError is a non-2xx answer from the portal API.
type APIError struct {
	Status    int     `json:"-"`
	Detail    string  `json:"detail"`
	Code      string  `json:"code"`
	RequestID string  `json:"requestId"`
	Fields    []Issue `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, http.StatusText(e.Status))
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

func IsForbidden(err error) bool { return statusOf(err) == http.StatusForbidden }

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// Detail returns the server-provided detail of err, or fallback when the
// error carries none.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return fallback
}

// FieldIssues returns the per-field validation issues of err, if any.
func FieldIssues(err error) []Issue {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
