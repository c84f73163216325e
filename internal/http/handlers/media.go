package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/services"
)

type MediaHandler struct {
	media services.MediaService
}

func NewMediaHandler(media services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// POST /api/media/upload-url
// body: { "filename": "scan.pdf", "category": "LabReport", "content_type": "application/pdf" }
// "file_type" is accepted when "category" is absent.
func (h *MediaHandler) UploadURL(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Filename    string `json:"filename"`
		Category    string `json:"category"`
		FileType    string `json:"file_type"`
		ContentType string `json:"content_type"`
		SizeBytes   *int64 `json:"size_bytes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindError(err))
		return
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = req.FileType
	}
	grant, err := h.media.Authorize(c.Request.Context(), services.MediaAuthorizeInput{
		UserID:      userID,
		Filename:    req.Filename,
		Category:    category,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, grant)
}
