package acl

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

var postsRequest = Request{Service: "posts", Operation: "fetch posts", EntityID: "7"}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestMapHTTPError_StatusCodes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		is      error
		message string
	}{
		{"not found", http.StatusNotFound, "", domain.ErrNotFound, "7"},
		{"conflict", http.StatusConflict, `{"message":"duplicate"}`, domain.ErrConflict, "duplicate"},
		{"bad request default message", http.StatusBadRequest, "", domain.ErrValidation, "invalid request"},
		{"validation details", http.StatusUnprocessableEntity, `{"error":{"code":"VALIDATION_ERROR","message":"bad","details":{"title":"too long"}}}`, domain.ErrValidation, "title"},
		{"unauthorized", http.StatusUnauthorized, "", domain.ErrUnavailable, "access refused"},
		{"rate limited", http.StatusTooManyRequests, "", domain.ErrUnavailable, "rate limit"},
		{"server error", http.StatusInternalServerError, "", domain.ErrUnavailable, "status 500"},
		{"bad gateway with body", http.StatusBadGateway, `{"error":{"message":"upstream down"}}`, domain.ErrUnavailable, "upstream down"},
		{"unknown 4xx", http.StatusTeapot, "", domain.ErrValidation, "status 418"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(response(tt.status, tt.body), nil, postsRequest)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestMapHTTPError_ClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"circuit open", clients.ErrCircuitOpen, "circuit breaker open during fetch posts"},
		{"retries exhausted", clients.ErrMaxRetriesExceeded, "max retries exceeded during fetch posts"},
		{"transport", errors.New("connection reset"), "fetch posts failed: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(nil, tt.err, postsRequest)

			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestMapHTTPError_SuccessAndNilResponse(t *testing.T) {
	assert.NoError(t, MapHTTPError(response(http.StatusCreated, ""), nil, postsRequest))

	err := MapHTTPError(nil, nil, postsRequest)
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     io.Reader
		wantNil  bool
		wantCode string
		wantMsg  string
	}{
		{"nested", strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"missing"}}`), false, "NOT_FOUND", "missing"},
		{"flat", strings.NewReader(`{"code":"CONFLICT","message":"dup"}`), false, "CONFLICT", "dup"},
		{"invalid json", strings.NewReader(`not json`), true, "", ""},
		{"empty object", strings.NewReader(`{}`), true, "", ""},
		{"nil body", nil, true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseErrorResponse(tt.body)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.GetCode())
			assert.Equal(t, tt.wantMsg, got.GetMessage())
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	got, err := DecodeResponse[[]post](io.NopCloser(strings.NewReader(`[{"id":1,"title":"a"}]`)))
	require.NoError(t, err)
	assert.Equal(t, []post{{ID: 1, Title: "a"}}, *got)

	_, err = DecodeResponse[[]post](io.NopCloser(strings.NewReader(`{`)))
	require.Error(t, err)

	_, err = DecodeResponse[[]post](nil)
	require.Error(t, err)
}

func TestDecodeResponseForService(t *testing.T) {
	_, err := DecodeResponseForService[[]post](io.NopCloser(strings.NewReader(`"nope"`)), "posts")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "posts")
}

func TestTranslateSlice_SkipsRejected(t *testing.T) {
	got := TranslateSlice([]int{1, 2, 3, 4}, func(n *int) (string, bool) {
		if *n%2 == 0 {
			return "", false
		}
		return strings.Repeat("x", *n), true
	})

	assert.Equal(t, []string{"x", "xxx"}, got)
	assert.Empty(t, TranslateSlice(nil, func(n *int) (string, bool) { return "", true }))
}
