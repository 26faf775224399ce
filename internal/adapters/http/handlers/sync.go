package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// SyncHandler exposes manual sync and the sync status.
type SyncHandler struct {
	service *app.SyncService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(service *app.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// TriggerSync handles POST /api/v1/sync
// Runs a cycle now, or waits for the one in flight. An unreachable remote is
// reported in the body with offline set, not as an error status.
//
// @Summary Sync now
// @Tags sync
// @Produce json
// @Success 200 {object} dto.SyncReportResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	report, err := h.service.SyncNow(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSyncReportResponse(report))
}

// GetStatus handles GET /api/v1/sync
func (h *SyncHandler) GetStatus(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := dto.SyncStatusResponse{
		LastSync: domain.ToMillis(status.LastSync),
		InFlight: status.InFlight,
	}

	if status.LastReport != nil {
		report := dto.NewSyncReportResponse(*status.LastReport)
		resp.LastReport = &report
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterSyncRoutes registers the sync routes on rg.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.TriggerSync)
	rg.GET("/sync", h.GetStatus)
}
