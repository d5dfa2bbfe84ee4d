package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bunkmate/bunkmate-backend/internal/response"
	"github.com/bunkmate/bunkmate-backend/internal/service"
)

// OverviewHandler serves the aggregate attendance dashboard.
type OverviewHandler struct {
	overviewService *service.OverviewService
}

func NewOverviewHandler(overviewService *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

// GetOverview godoc
// GET /api/v1/overview
// Returns subject counts, class totals, the overall percent, and the
// safe / at-risk split. Served from the redis cache when warm.
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	overview, err := h.overviewService.Get(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, overview)
}
