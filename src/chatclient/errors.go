package chatclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNoBaseURL indicates the client was built without a backend address
	ErrNoBaseURL = errors.New("base URL is required")

	// ErrUnknownTransport indicates an unsupported transport name
	ErrUnknownTransport = errors.New("unknown transport")

	// ErrEmptyQuery indicates an attempt to stream a blank query
	ErrEmptyQuery = errors.New("query is empty")
)

// ErrorResponse is the JSON error body some backends return.
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// APIError represents a non-2xx response from the chat backend.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// IsServerError returns true for 5xx responses.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsNotFound returns true when the stream endpoint does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// maxErrorBody caps how much of an error body is kept in the message.
const maxErrorBody = 4096

// handleError turns an error response into an APIError.
func handleError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Message = errResp.Error.Message
		apiErr.Code = errResp.Error.Code
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
