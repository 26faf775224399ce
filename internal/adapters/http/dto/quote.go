package dto

import (
	"errors"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// QuoteResponse is a quote as served by the API. UpdatedAt is epoch milliseconds.
type QuoteResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	UpdatedAt int64  `json:"updatedAt"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		Source:    string(q.Source),
		UpdatedAt: domain.ToMillis(q.UpdatedAt),
	}
}

// NewQuoteResponses converts a slice of domain quotes.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = NewQuoteResponse(q)
	}

	return out
}

// CreateQuoteRequest is the body of POST /quotes.
// Blank text is rejected by the service with its own message.
type CreateQuoteRequest struct {
	Text     string `json:"text"     validate:"max=2000"`
	Category string `json:"category" validate:"max=64"`
}

// ListQuotesRequest is the query of GET /quotes.
type ListQuotesRequest struct {
	PaginationRequest
}

// ViewResponse is the filtered view of the collection, one page at a time.
type ViewResponse struct {
	PaginatedResponse[QuoteResponse]

	// Shown is the number of quotes matching the filter and search.
	Shown int `json:"shown"`

	// Total is the size of the whole collection.
	Total int `json:"total"`

	Filter string `json:"filter"`
	Search string `json:"search"`
}

// NewViewResponse builds a view response around page.
func NewViewResponse(view domain.View, page *PaginatedResponse[QuoteResponse]) ViewResponse {
	return ViewResponse{
		PaginatedResponse: *page,
		Shown:             view.Shown,
		Total:             view.Total,
		Filter:            view.Filter,
		Search:            view.Search,
	}
}

// UpdateViewRequest is the body of PUT /view. Omitted fields are left unchanged.
type UpdateViewRequest struct {
	Category *string `json:"category" validate:"omitempty,max=64"`
	Search   *string `json:"search"   validate:"omitempty,max=200"`
}

// errEmptyViewUpdate is returned when neither field is present.
var errEmptyViewUpdate = errors.New("category or search is required")

// Validate implements Validatable.
func (r UpdateViewRequest) Validate() error {
	if r.Category == nil && r.Search == nil {
		return errEmptyViewUpdate
	}

	return nil
}

// CategoriesResponse lists the distinct categories, sorted.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ImportResponse reports how many quotes an import added.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ConflictResponse is a conflict awaiting review.
type ConflictResponse struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Local      QuoteResponse `json:"local"`
	Server     QuoteResponse `json:"server"`
	DetectedAt int64         `json:"detectedAt"`
}

// NewConflictResponses converts pending conflicts.
func NewConflictResponses(conflicts []domain.Conflict) []ConflictResponse {
	out := make([]ConflictResponse, len(conflicts))
	for i, c := range conflicts {
		out[i] = ConflictResponse{
			ID:         c.ID,
			Type:       string(c.Kind),
			Local:      NewQuoteResponse(c.Local),
			Server:     NewQuoteResponse(c.Server),
			DetectedAt: domain.ToMillis(c.DetectedAt),
		}
	}

	return out
}

// ResolveConflictRequest is the path and body of POST /conflicts/:id/resolve.
type ResolveConflictRequest struct {
	ID   string `json:"-"    uri:"id" validate:"required,uuid"`
	Keep string `json:"keep"          validate:"required,oneof=local server"`
}

// SyncReportResponse is the outcome of a sync cycle.
type SyncReportResponse struct {
	Pushed    int    `json:"pushed"`
	Added     int    `json:"added"`
	Conflicts int    `json:"conflicts"`
	Pending   int    `json:"pending"`
	Offline   bool   `json:"offline"`
	Warning   string `json:"warning,omitempty"`
	Message   string `json:"message"`
	StartedAt int64  `json:"startedAt"`
	Duration  int64  `json:"durationMs"`
}

// NewSyncReportResponse converts a sync report.
func NewSyncReportResponse(r domain.SyncReport) SyncReportResponse {
	return SyncReportResponse{
		Pushed:    r.Pushed,
		Added:     r.Added,
		Conflicts: r.Conflicts,
		Pending:   r.Pending,
		Offline:   r.Offline,
		Warning:   r.Warning,
		Message:   r.Summary(),
		StartedAt: domain.ToMillis(r.StartedAt),
		Duration:  r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
	}
}

// SyncStatusResponse is the body of GET /sync.
type SyncStatusResponse struct {
	// LastSync is epoch milliseconds, 0 before the first successful sync.
	LastSync   int64               `json:"lastSync"`
	InFlight   bool                `json:"inFlight"`
	LastReport *SyncReportResponse `json:"lastReport,omitempty"`
}
