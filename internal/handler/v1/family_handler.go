package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

type FamilyHandler struct {
	familyService *service.FamilyService
	auditService  *service.AuditService
}

func NewFamilyHandler(familyService *service.FamilyService, auditService *service.AuditService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, auditService: auditService}
}

type createMemberRequest struct {
	Name              string                    `json:"name" binding:"required"`
	Relationship      family.Relationship       `json:"relationship" binding:"required"`
	DateOfBirth       time.Time                 `json:"dateOfBirth" binding:"required"`
	Gender            family.Gender             `json:"gender" binding:"required"`
	Phone             string                    `json:"phone"`
	Email             string                    `json:"email"`
	BloodGroup        family.BloodGroup         `json:"bloodGroup"`
	Allergies         []family.Allergy          `json:"allergies"`
	MedicalConditions []family.MedicalCondition `json:"medicalConditions"`
	Medications       []family.Medication       `json:"medications"`
	EmergencyContact  *family.EmergencyContact  `json:"emergencyContact"`
	Notes             string                    `json:"notes"`
}

type updateMemberRequest struct {
	Name              *string                    `json:"name"`
	Relationship      *family.Relationship       `json:"relationship"`
	DateOfBirth       *time.Time                 `json:"dateOfBirth"`
	Gender            *family.Gender             `json:"gender"`
	Phone             *string                    `json:"phone"`
	Email             *string                    `json:"email"`
	BloodGroup        *family.BloodGroup         `json:"bloodGroup"`
	Allergies         *[]family.Allergy          `json:"allergies"`
	MedicalConditions *[]family.MedicalCondition `json:"medicalConditions"`
	Medications       *[]family.Medication       `json:"medications"`
	EmergencyContact  *family.EmergencyContact   `json:"emergencyContact"`
	Notes             *string                    `json:"notes"`
}

// memberView widens a member with the derived age, which is never stored.
type memberView struct {
	*family.Member
	Age int `json:"age"`
}

func toMemberView(m *family.Member) memberView {
	return memberView{Member: m, Age: m.Age()}
}

func (h *FamilyHandler) Create(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	var req createMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.familyService.Create(c.Request.Context(), &family.CreateMemberCommand{
		ManagedBy:         claims.UserID,
		Name:              req.Name,
		Relationship:      req.Relationship,
		DateOfBirth:       req.DateOfBirth,
		Gender:            req.Gender,
		Phone:             req.Phone,
		Email:             req.Email,
		BloodGroup:        req.BloodGroup,
		Allergies:         req.Allergies,
		MedicalConditions: req.MedicalConditions,
		Medications:       req.Medications,
		EmergencyContact:  req.EmergencyContact,
		Notes:             req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionCreate),
		ResourceType: "family_member",
		ResourceID:   member.ID.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondCreated(c, "family member added successfully", gin.H{"familyMember": toMemberView(member)})
}

func (h *FamilyHandler) List(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	members, err := h.familyService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, toMemberView(m))
	}

	respondOK(c, gin.H{
		"familyMembers": views,
		"count":         len(views),
	})
}

func (h *FamilyHandler) Get(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	member, err := h.familyService.Get(c.Request.Context(), id, claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"familyMember": toMemberView(member)})
}

func (h *FamilyHandler) Update(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.familyService.Update(c.Request.Context(), id, claims.UserID, &family.UpdateMemberCommand{
		Name:              req.Name,
		Relationship:      req.Relationship,
		DateOfBirth:       req.DateOfBirth,
		Gender:            req.Gender,
		Phone:             req.Phone,
		Email:             req.Email,
		BloodGroup:        req.BloodGroup,
		Allergies:         req.Allergies,
		MedicalConditions: req.MedicalConditions,
		Medications:       req.Medications,
		EmergencyContact:  req.EmergencyContact,
		Notes:             req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionUpdate),
		ResourceType: "family_member",
		ResourceID:   id.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondOK(c, gin.H{"familyMember": toMemberView(member)})
}

func (h *FamilyHandler) Delete(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.familyService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionDelete),
		ResourceType: "family_member",
		ResourceID:   id.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondMessage(c, "family member removed successfully")
}

func (h *FamilyHandler) Overview(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	overview, err := h.familyService.Overview(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, overview)
}

func (h *FamilyHandler) HealthSummary(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.familyService.GetHealthSummary(c.Request.Context(), id, claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"healthSummary": summary})
}
