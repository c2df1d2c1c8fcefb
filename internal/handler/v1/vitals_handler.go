package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

type VitalsHandler struct {
	vitalsService *service.VitalsService
	auditService  *service.AuditService
}

func NewVitalsHandler(vitalsService *service.VitalsService, auditService *service.AuditService) *VitalsHandler {
	return &VitalsHandler{vitalsService: vitalsService, auditService: auditService}
}

type createVitalsRequest struct {
	FamilyMemberID  *uuid.UUID            `json:"familyMemberId"`
	BloodPressure   *vitals.BloodPressure `json:"bloodPressure"`
	BloodSugar      *vitals.BloodSugar    `json:"bloodSugar"`
	Weight          *vitals.Weight        `json:"weight"`
	Notes           string                `json:"notes"`
	MeasurementDate *time.Time            `json:"measurementDate"`
}

type updateVitalsRequest struct {
	BloodPressure   *vitals.BloodPressure `json:"bloodPressure"`
	BloodSugar      *vitals.BloodSugar    `json:"bloodSugar"`
	Weight          *vitals.Weight        `json:"weight"`
	Notes           *string               `json:"notes"`
	MeasurementDate *time.Time            `json:"measurementDate"`
}

func (h *VitalsHandler) Create(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	var req createVitalsRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &vitals.CreateEntryCommand{
		UserID:         claims.UserID,
		FamilyMemberID: req.FamilyMemberID,
		BloodPressure:  req.BloodPressure,
		BloodSugar:     req.BloodSugar,
		Weight:         req.Weight,
		Notes:          req.Notes,
	}
	if req.MeasurementDate != nil {
		cmd.MeasurementDate = *req.MeasurementDate
	}

	entry, err := h.vitalsService.Create(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionCreate),
		ResourceType: "vitals",
		ResourceID:   entry.ID.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondCreated(c, "vitals recorded successfully", gin.H{"vitals": entry})
}

func (h *VitalsHandler) List(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	familyMemberID, ok := parseQueryUUID(c, "familyMemberId")
	if !ok {
		return
	}
	from, ok := parseQueryDate(c, "startDate")
	if !ok {
		return
	}
	to, ok := parseQueryDate(c, "endDate")
	if !ok {
		return
	}

	paged, err := h.vitalsService.List(c.Request.Context(), &vitals.ListEntriesQuery{
		UserID:         claims.UserID,
		FamilyMemberID: familyMemberID,
		From:           from,
		To:             to,
		Page:           parseQueryInt(c, "page", 1),
		PageSize:       parseQueryInt(c, "limit", 10),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"vitals": paged.Entries,
		"pagination": gin.H{
			"currentPage": paged.Page,
			"totalPages":  paged.TotalPages,
			"totalVitals": paged.TotalCount,
			"hasNext":     int64(paged.Page*paged.PageSize) < paged.TotalCount,
			"hasPrev":     paged.Page > 1,
		},
	})
}

func (h *VitalsHandler) Get(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	entry, err := h.vitalsService.Get(c.Request.Context(), id, claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"vitals": entry})
}

func (h *VitalsHandler) Update(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateVitalsRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.vitalsService.Update(c.Request.Context(), id, claims.UserID, &vitals.UpdateEntryCommand{
		BloodPressure:   req.BloodPressure,
		BloodSugar:      req.BloodSugar,
		Weight:          req.Weight,
		Notes:           req.Notes,
		MeasurementDate: req.MeasurementDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionUpdate),
		ResourceType: "vitals",
		ResourceID:   id.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondOK(c, gin.H{"vitals": entry})
}

func (h *VitalsHandler) Delete(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.vitalsService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionDelete),
		ResourceType: "vitals",
		ResourceID:   id.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondMessage(c, "vitals entry deleted successfully")
}

func (h *VitalsHandler) Stats(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	familyMemberID, ok := parseQueryUUID(c, "familyMemberId")
	if !ok {
		return
	}

	stats, days, err := h.vitalsService.GetStats(c.Request.Context(), claims.UserID, familyMemberID, parseQueryInt(c, "days", 30))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"stats":  stats,
		"period": fmt.Sprintf("%d days", days),
	})
}
