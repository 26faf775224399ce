package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// ErrorResponse is the error body some remote sources return.
// Both nested ({"error":{...}}) and flat ({"code","message"}) shapes are accepted.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail contains error information from the remote source.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetCode returns the error code from either shape.
func (e *ErrorResponse) GetCode() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}

	return e.Code
}

// GetMessage returns the error message from either shape.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes an error body. It returns nil for empty or unreadable bodies.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetCode() == "" && errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// Request describes the call that failed, for error context.
type Request struct {
	Service   string
	Operation string
	EntityID  string
}

// MapHTTPError turns a failed exchange into a domain error. clientErr takes
// precedence; resp may be nil when no response arrived. 2xx maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, r Request) error {
	if clientErr != nil {
		return mapClientError(clientErr, r)
	}

	if resp == nil {
		return domain.NewUnavailableError(r.Service, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	return mapStatusCode(resp.StatusCode, errResp, r)
}

func mapClientError(err error, r Request) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(r.Service,
			fmt.Sprintf("circuit breaker open during %s", r.Operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(r.Service,
			fmt.Sprintf("max retries exceeded during %s", r.Operation))

	default:
		return domain.NewUnavailableError(r.Service,
			fmt.Sprintf("%s failed: %v", r.Operation, err))
	}
}

func mapStatusCode(status int, errResp *ErrorResponse, r Request) error {
	message := defaultMessageForStatus(status, r.Operation)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(r.Service, r.EntityID)

	case http.StatusConflict:
		return domain.NewConflictError(r.Service, message)

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if errResp != nil {
			for field, msg := range errResp.Error.Details {
				return domain.NewValidationError(field, msg)
			}
		}

		return domain.NewValidationError("", message)

	case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
		// The posts source is anonymous; auth failures mean it is refusing service.
		return domain.NewUnavailableError(r.Service, message)

	default:
		if status >= http.StatusInternalServerError {
			return domain.NewUnavailableError(r.Service, message)
		}

		return domain.NewValidationError("", message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource conflict"
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "access refused"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
