package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthentication means the login credentials were rejected
	ErrAuthentication = errors.New("invalid credentials")
	// ErrAuthorization means the bearer token was missing, expired or insufficient
	ErrAuthorization = errors.New("not authorized")
	// ErrNetwork wraps transport failures where no response was received
	ErrNetwork = errors.New("network error")
)

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap lets errors.Is(err, ErrAuthorization) match 401 and 403 responses
func (e *APIError) Unwrap() error {
	if IsAuthStatus(e.StatusCode) {
		return ErrAuthorization
	}
	return nil
}

// IsAuthStatus reports whether the status signals a rejected token or a
// permission denial
func IsAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// detailNotAuthenticated is sent with 403 when no bearer token was presented
const detailNotAuthenticated = "Not authenticated"

// TokenRejected reports whether the response means the session itself is no
// longer valid. A 403 on a valid token is a role or ownership denial.
func (e *APIError) TokenRejected() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		return e.Detail == detailNotAuthenticated
	}
	return false
}

// parseDetail extracts the server's error message from a response body.
// The backend reports errors as {"detail": "..."}; anything else is returned raw.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Detail, &msg); err == nil {
			return msg
		}
		return string(payload.Detail)
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
