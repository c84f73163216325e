package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/services"
)

type SourceHandler struct {
	sources services.SourceService
}

func NewSourceHandler(sources services.SourceService) *SourceHandler {
	return &SourceHandler{sources: sources}
}

// POST /api/admin/sources
// body: { "name": "LabCorp", "is_trusted": true, "api_key": "..." }
func (h *SourceHandler) Provision(c *gin.Context) {
	var req struct {
		Name      string  `json:"name"`
		IsTrusted bool    `json:"is_trusted"`
		APIKey    *string `json:"api_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindError(err))
		return
	}
	src, err := h.sources.Provision(c.Request.Context(), services.ProvisionSourceInput{
		Name:      req.Name,
		IsTrusted: req.IsTrusted,
		APIKey:    req.APIKey,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"source": src})
}
