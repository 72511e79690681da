package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/meeting"
)

type createMeetingReq struct {
	Topic     string `json:"topic"`
	Mode      string `json:"mode"` // "instant" (default) or "scheduled"
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
}

func (h *Handler) CreateMeeting(c *gin.Context) {
	if _, okk := userIDFromContext(c); !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createMeetingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	var (
		m   *meeting.Meeting
		err error
	)
	switch req.Mode {
	case "scheduled":
		if req.StartTime == "" {
			common.Fail(c, http.StatusBadRequest, 10002, "start_time required for scheduled meetings")
			return
		}
		m, err = h.Zoom.CreateScheduledMeeting(c.Request.Context(), req.Topic, req.StartTime, req.Duration, req.Timezone)
	default:
		m, err = h.Zoom.CreateInstantMeeting(c.Request.Context(), req.Topic, req.Duration)
	}
	if err != nil {
		if errors.Is(err, meeting.ErrNotConfigured) {
			common.Fail(c, http.StatusServiceUnavailable, 50301, "video calls are not configured")
			return
		}
		// failures surface as a single error string
		common.Fail(c, http.StatusBadGateway, 50201, err.Error())
		return
	}
	common.OK(c, m)
}
