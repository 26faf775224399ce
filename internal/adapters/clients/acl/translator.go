package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// BaseAdapter wraps a clients.Client with domain error mapping.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for the named remote source.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// ServiceName returns the remote source name used in errors and health output.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET and returns the body on 2xx. The caller must close it.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)

	return a.checked(resp, err, operation)
}

// PostJSON POSTs payload as JSON and returns the body on 2xx. The caller must close it.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, payload any, operation string) (io.ReadCloser, error) {
	resp, err := a.client.PostJSON(ctx, path, payload)

	return a.checked(resp, err, operation)
}

func (a *BaseAdapter) checked(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	r := Request{Service: a.serviceName, Operation: operation}

	if err != nil {
		return nil, MapHTTPError(nil, err, r)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, r)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON body into T, closing it afterwards.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// DecodeResponseForService decodes like DecodeResponse but reports failures
// as the remote source being unavailable.
func DecodeResponseForService[T any](body io.ReadCloser, serviceName string) (*T, error) {
	result, err := DecodeResponse[T](body)
	if err != nil {
		return nil, domain.NewUnavailableError(serviceName, err.Error())
	}

	return result, nil
}

// Translator converts an external DTO into a domain value. ok=false skips the item.
type Translator[External any, Domain any] func(ext *External) (d Domain, ok bool)

// TranslateSlice applies translate to every item, dropping skipped ones.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) []D {
	result := make([]D, 0, len(items))

	for i := range items {
		if d, ok := translate(&items[i]); ok {
			result = append(result, d)
		}
	}

	return result
}
