package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/healthmate-pk/healthmate-api/internal/domain/timeline"
	"github.com/healthmate-pk/healthmate-api/internal/service"
)

type TimelineHandler struct {
	timelineService *service.TimelineService
}

func NewTimelineHandler(timelineService *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timelineService: timelineService}
}

// Timeline returns the merged reverse-chronological stream of reports and
// vitals, filtered by type, date range and family member.
func (h *TimelineHandler) Timeline(c *gin.Context) {
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

	page, err := h.timelineService.GetTimeline(c.Request.Context(), &service.TimelineQuery{
		UserID:         claims.UserID,
		FamilyMemberID: familyMemberID,
		Filter:         timeline.RecordFilter(c.Query("type")),
		From:           from,
		To:             to,
		Page:           parseQueryInt(c, "page", 1),
		Limit:          parseQueryInt(c, "limit", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

// Dashboard returns the rolling-window health summary.
func (h *TimelineHandler) Dashboard(c *gin.Context) {
	claims, ok := ownerClaims(c)
	if !ok {
		return
	}

	dashboard, err := h.timelineService.GetDashboard(c.Request.Context(), claims.UserID, parseQueryInt(c, "days", 30))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, dashboard)
}
