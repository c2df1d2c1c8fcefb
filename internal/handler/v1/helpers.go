// Package v1 contains the HTTP handlers for the public API. Handlers
// bind and validate input, delegate to services, and translate service
// errors into the wire envelope.
package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
	"github.com/healthmate-pk/healthmate-api/internal/middleware"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

// Envelope is the wire shape of every response: success flag, optional
// human message, payload, and field errors for validation failures.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Message: "validation failed",
			Errors:  validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, vitals.ErrEntryNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, family.ErrMemberNotFound),
		errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())

	case errors.Is(err, vitals.ErrNoMeasurements),
		errors.Is(err, vitals.ErrInvalidSugarType),
		errors.Is(err, vitals.ErrNotesTooLong),
		errors.Is(err, vitals.ErrInvalidDateRange),
		errors.Is(err, report.ErrInvalidReportType),
		errors.Is(err, report.ErrNoFile),
		errors.Is(err, family.ErrInvalidRelationship),
		errors.Is(err, family.ErrInvalidGender),
		errors.Is(err, family.ErrInvalidBloodGroup),
		errors.Is(err, family.ErrInvalidPhone),
		errors.Is(err, family.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidRecordFilter):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, report.ErrFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, service.ErrAccountInactive):
		respondError(c, http.StatusForbidden, err.Error())

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

// ownerClaims fetches the authenticated identity. Routes behind the auth
// middleware always have it; the guard covers misconfigured routing.
func ownerClaims(c *gin.Context) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+param+": must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// parseQueryUUID reads an optional UUID query parameter, distinguishing
// "absent" (nil, true) from "present but malformed" (nil, false).
func parseQueryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key+": must be a valid UUID")
		return nil, false
	}
	return &id, true
}

// parseFormUUID reads an optional UUID form field from a multipart body.
func parseFormUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.PostForm(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key+": must be a valid UUID")
		return nil, false
	}
	return &id, true
}

// parseQueryDate reads an optional date query parameter, accepting
// date-only or RFC 3339 values.
func parseQueryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	respondError(c, http.StatusBadRequest, "invalid "+key+": must be YYYY-MM-DD or RFC 3339")
	return nil, false
}
