package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/services"
)

const defaultJournalWindow = 30 * 24 * time.Hour

type JournalHandler struct {
	journal services.JournalService
}

func NewJournalHandler(journal services.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

// POST /api/journal
// body: { "entry_date": "2026-03-01", "content": "...", "mood_score": 7, "tags": ["sleep"] }
func (h *JournalHandler) Upsert(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		EntryDate string   `json:"entry_date"`
		Content   string   `json:"content"`
		MoodScore *int     `json:"mood_score"`
		Tags      []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindError(err))
		return
	}
	id, err := h.journal.Upsert(c.Request.Context(), services.JournalUpsertInput{
		UserID:    userID,
		EntryDate: req.EntryDate,
		Content:   req.Content,
		MoodScore: req.MoodScore,
		Tags:      req.Tags,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"status": "saved", "id": id})
}

// GET /api/journal?from=YYYY-MM-DD&to=YYYY-MM-DD
// Defaults to the 30 days ending today.
func (h *JournalHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	to := strings.TrimSpace(c.Query("to"))
	if to == "" {
		to = time.Now().UTC().Format(services.DateLayout)
	}
	from := strings.TrimSpace(c.Query("from"))
	if from == "" {
		if end, err := time.Parse(services.DateLayout, to); err == nil {
			from = end.Add(-defaultJournalWindow).Format(services.DateLayout)
		} else {
			from = to
		}
	}
	entries, err := h.journal.List(c.Request.Context(), userID, from, to)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}
