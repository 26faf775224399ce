package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"
)

// DefaultLimit is the page size when none is requested.
const DefaultLimit = 20

// MaxLimit is the largest page size served.
const MaxLimit = 100

// Cursor errors.
var (
	// ErrInvalidCursor is returned when a cursor cannot be decoded or no longer
	// points into the collection.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first-page request.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest carries the page query parameters.
type PaginationRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor"`

	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit clamped to [1, MaxLimit], defaulting to DefaultLimit.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// DecodeCursor decodes the request cursor. Returns ErrNoCursor when absent.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of items.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`

	HasMore bool `json:"hasMore"`
}

// CursorData is the position encoded in a cursor.
type CursorData struct {
	// Offset is the position of the first item of the next page.
	Offset int `json:"o"`

	// ID is the id of the last item served. When the collection shifts between
	// requests the page resumes after this id rather than at Offset.
	ID string `json:"id"`
}

// EncodeCursor encodes cursor data as URL-safe base64 JSON.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor decodes a cursor produced by EncodeCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.Offset < 0 {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// Paginate cuts the page requested by req out of items.
// idOf returns the stable id of an item.
func Paginate[T any](items []T, req PaginationRequest, idOf func(T) string) (*PaginatedResponse[T], error) {
	start := 0

	cursor, err := req.DecodeCursor()
	switch {
	case errors.Is(err, ErrNoCursor):
	case err != nil:
		return nil, err
	default:
		start, err = resumeAt(items, cursor, idOf)
		if err != nil {
			return nil, err
		}
	}

	end := min(start+req.GetLimit(), len(items))
	page := slices.Clone(items[start:end])
	if page == nil {
		page = []T{}
	}

	resp := &PaginatedResponse[T]{Items: page, HasMore: end < len(items)}
	if resp.HasMore && len(page) > 0 {
		resp.NextCursor = EncodeCursor(&CursorData{Offset: end, ID: idOf(page[len(page)-1])})
	}

	return resp, nil
}

func resumeAt[T any](items []T, cursor *CursorData, idOf func(T) string) (int, error) {
	if cursor.ID != "" {
		if i := slices.IndexFunc(items, func(it T) bool { return idOf(it) == cursor.ID }); i >= 0 {
			return i + 1, nil
		}
	}

	if cursor.Offset > len(items) {
		return 0, ErrInvalidCursor
	}

	return cursor.Offset, nil
}
