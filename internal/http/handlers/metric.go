package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/services"
)

type MetricHandler struct {
	registry services.MetricRegistry
}

func NewMetricHandler(registry services.MetricRegistry) *MetricHandler {
	return &MetricHandler{registry: registry}
}

// GET /api/metrics/definitions
func (h *MetricHandler) ListDefinitions(c *gin.Context) {
	defs, err := h.registry.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"metrics": defs})
}

// POST /api/admin/metrics
// 201 when the code is new, 200 when an existing definition was refreshed.
func (h *MetricHandler) Register(c *gin.Context) {
	var req struct {
		Code        string           `json:"code"`
		DisplayName string           `json:"display_name"`
		Category    string           `json:"category"`
		Unit        string           `json:"unit"`
		Description string           `json:"description"`
		RefMin      *decimal.Decimal `json:"ref_min"`
		RefMax      *decimal.Decimal `json:"ref_max"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindError(err))
		return
	}
	def := &types.MetricDefinition{
		Code:        req.Code,
		DisplayName: req.DisplayName,
		Category:    types.MetricCategory(req.Category),
		Unit:        req.Unit,
		Description: req.Description,
	}
	if req.RefMin != nil {
		def.RefMin = decimal.NewNullDecimal(*req.RefMin)
	}
	if req.RefMax != nil {
		def.RefMax = decimal.NewNullDecimal(*req.RefMax)
	}
	saved, created, err := h.registry.Register(c.Request.Context(), def)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"metric": saved, "created": created})
}

// POST /api/admin/registry/invalidate
func (h *MetricHandler) Invalidate(c *gin.Context) {
	if err := h.registry.Invalidate(c.Request.Context()); err != nil {
		// The local cache is already dropped; only the broadcast failed.
		response.RespondErr(c, errs.Wrap(errs.CodeStorageUnavailable, "registry.invalidate", err))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "invalidated"})
}
