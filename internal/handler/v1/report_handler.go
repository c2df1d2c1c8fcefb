package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
	auditService  *service.AuditService
}

func NewReportHandler(reportService *service.ReportService, auditService *service.AuditService) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService}
}

// Upload accepts a multipart form with the report file, its type, and an
// optional family member reference.
func (h *ReportHandler) Upload(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondServiceError(c, report.ErrNoFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	familyMemberID, ok := parseFormUUID(c, "familyMemberId")
	if !ok {
		return
	}

	rep, err := h.reportService.Upload(c.Request.Context(), &service.UploadCommand{
		UserID:         claims.UserID,
		FamilyMemberID: familyMemberID,
		FileName:       fileHeader.Filename,
		MimeType:       fileHeader.Header.Get("Content-Type"),
		Type:           report.Type(c.PostForm("reportType")),
		Data:           data,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionUpload),
		ResourceType: "report",
		ResourceID:   rep.ID.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	message := "file uploaded and analyzed successfully"
	if !rep.IsProcessed {
		message = "file uploaded successfully; AI analysis will be retried"
	}
	respondCreated(c, message, gin.H{"report": rep})
}

func (h *ReportHandler) List(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	familyMemberID, ok := parseQueryUUID(c, "familyMemberId")
	if !ok {
		return
	}

	var reportType *report.Type
	if raw := c.Query("reportType"); raw != "" {
		t := report.Type(raw)
		reportType = &t
	}

	paged, err := h.reportService.List(c.Request.Context(), &report.ListReportsQuery{
		UserID:         claims.UserID,
		FamilyMemberID: familyMemberID,
		Type:           reportType,
		Page:           parseQueryInt(c, "page", 1),
		PageSize:       parseQueryInt(c, "limit", 10),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"reports": paged.Reports,
		"pagination": gin.H{
			"currentPage":  paged.Page,
			"totalPages":   paged.TotalPages,
			"totalReports": paged.TotalCount,
			"hasNext":      int64(paged.Page*paged.PageSize) < paged.TotalCount,
			"hasPrev":      paged.Page > 1,
		},
	})
}

func (h *ReportHandler) Get(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rep, err := h.reportService.Get(c.Request.Context(), id, claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"report": rep})
}

func (h *ReportHandler) Delete(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogAsync(c.Request.Context(), service.AuditEntry{
		UserID:       claims.UserID,
		Action:       string(domain.ActionDelete),
		ResourceType: "report",
		ResourceID:   id.String(),
		IPAddress:    c.ClientIP(),
		RequestID:    c.GetString("request_id"),
	})

	respondMessage(c, "report deleted successfully")
}

// RetryAnalysis re-runs AI analysis on an uploaded report whose previous
// analysis failed or should be refreshed.
func (h *ReportHandler) RetryAnalysis(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rep, err := h.reportService.RetryAnalysis(c.Request.Context(), id, claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"report": rep})
}
