package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/services"
)

type MedicationHandler struct {
	medications services.MedicationService
}

func NewMedicationHandler(medications services.MedicationService) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

// POST /api/medications
func (h *MedicationHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Name      string `json:"name"`
		Type      string `json:"type"`
		Dosage    string `json:"dosage"`
		Frequency string `json:"frequency"`
		IsActive  *bool  `json:"is_active"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindError(err))
		return
	}
	med, err := h.medications.Create(c.Request.Context(), services.MedicationInput{
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		IsActive:  req.IsActive,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"medication": med})
}

// GET /api/medications?active=true
func (h *MedicationHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	meds, err := h.medications.List(c.Request.Context(), userID, activeOnly)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"medications": meds})
}
