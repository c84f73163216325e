package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/services"
)

type ObservationHandler struct {
	ingestion    services.IngestionService
	observations services.ObservationService
}

func NewObservationHandler(ingestion services.IngestionService, observations services.ObservationService) *ObservationHandler {
	return &ObservationHandler{ingestion: ingestion, observations: observations}
}

type observationRecordDTO struct {
	MetricCode   string           `json:"metric_code"`
	RecordedAt   flexTime         `json:"recorded_at"`
	ValueNumeric *decimal.Decimal `json:"value_numeric"`
	ValueText    *string          `json:"value_text"`
	RawMetadata  json.RawMessage  `json:"raw_metadata"`
}

type batchIngestRequest struct {
	SourceName string                 `json:"source_name"`
	Data       []observationRecordDTO `json:"data"`
	// Records is accepted as an alias of data.
	Records []observationRecordDTO `json:"records"`
}

// POST /api/observations/batch
func (h *ObservationHandler) IngestBatch(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req batchIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindError(err))
		return
	}
	rows := req.Data
	if len(rows) == 0 {
		rows = req.Records
	}
	records := make([]services.ObservationRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, services.ObservationRecord{
			MetricCode:   r.MetricCode,
			RecordedAt:   r.RecordedAt.Time,
			ValueNumeric: r.ValueNumeric,
			ValueText:    r.ValueText,
			RawMetadata:  r.RawMetadata,
		})
	}

	report, err := h.ingestion.Ingest(c.Request.Context(), services.IngestRequest{
		UserID:     userID,
		SourceName: req.SourceName,
		Records:    records,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"status": "success", "details": report})
}

// GET /api/observations?metric_code=&from=&to=&limit=
func (h *ObservationHandler) List(c *gin.Context) {
	const op = "observations.list"
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	from, err := queryTime(c, op, "from")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	to, err := queryTime(c, op, "to")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.RespondErr(c, errs.Validation(op, "limit must be a non-negative integer"))
			return
		}
	}

	rows, err := h.observations.List(c.Request.Context(), services.ObservationListInput{
		UserID:     userID,
		MetricCode: c.Query("metric_code"),
		From:       from,
		To:         to,
		Limit:      limit,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"observations": rows})
}
