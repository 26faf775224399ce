package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// exportFilename is offered to clients saving an export.
const exportFilename = "quotes.json"

// QuoteHandler handles the quote collection endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

func quoteID(r dto.QuoteResponse) string { return r.ID }

// ListQuotes handles GET /api/v1/quotes
// Returns one page of the collection as seen through the persisted filter and search.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.ViewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.RespondValidation(c, err)
		return
	}

	view, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondView(c, view, req.PaginationRequest)
}

// CreateQuote handles POST /api/v1/quotes
//
// @Summary Add a local quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.CreateQuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondValidation(c, err)
		return
	}

	quote, err := h.service.Add(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Picks from the whole collection; the filter does not apply.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.service.Random(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// ExportQuotes handles GET /api/v1/quotes/export
// The body is the indented JSON array that ImportQuotes accepts.
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportQuotes handles POST /api/v1/quotes/import
// The body is a JSON array of quotes; records are appended to the collection.
//
// @Summary Import quotes
// @Tags quotes
// @Accept json
// @Produce json
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	imported, err := h.service.Import(c.Request.Context(), payload)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: imported})
}

// ListCategories handles GET /api/v1/categories
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

// UpdateView handles PUT /api/v1/view
// Persists the category filter and/or search text and returns the first page
// of the resulting view.
//
// @Summary Change filter or search
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.UpdateViewRequest true "View settings"
// @Success 200 {object} dto.ViewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/view [put]
func (h *QuoteHandler) UpdateView(c *gin.Context) {
	var req dto.UpdateViewRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondValidation(c, err)
		return
	}

	view, err := h.service.UpdateView(c.Request.Context(), req.Category, req.Search)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondView(c, view, dto.PaginationRequest{})
}

// ListConflicts handles GET /api/v1/conflicts
func (h *QuoteHandler) ListConflicts(c *gin.Context) {
	conflicts, err := h.service.Conflicts(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewConflictResponses(conflicts))
}

// ResolveConflict handles POST /api/v1/conflicts/:id/resolve
//
// @Summary Resolve a pending conflict
// @Tags conflicts
// @Accept json
// @Param id path string true "Conflict ID"
// @Param body body dto.ResolveConflictRequest true "Side to keep"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/conflicts/{id}/resolve [post]
func (h *QuoteHandler) ResolveConflict(c *gin.Context) {
	var req dto.ResolveConflictRequest
	if err := c.ShouldBindUri(&req); err != nil {
		dto.RespondValidation(c, err)
		return
	}

	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondValidation(c, err)
		return
	}

	if err := h.service.ResolveConflict(c.Request.Context(), req.ID, req.Keep); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *QuoteHandler) respondView(c *gin.Context, view domain.View, page dto.PaginationRequest) {
	resp, err := dto.Paginate(dto.NewQuoteResponses(view.Quotes), page, quoteID)
	if errors.Is(err, dto.ErrInvalidCursor) {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeBadRequest, err.Error()).WithTraceID(dto.GetTraceID(c)))

		return
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewViewResponse(view, resp))
}

// RegisterQuoteRoutes registers the collection, view and conflict routes on rg.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.CreateQuote)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/export", h.ExportQuotes)
	quotes.POST("/import", h.ImportQuotes)

	rg.GET("/categories", h.ListCategories)
	rg.PUT("/view", h.UpdateView)

	conflicts := rg.Group("/conflicts")
	conflicts.GET("", h.ListConflicts)
	conflicts.POST("/:id/resolve", h.ResolveConflict)
}
