package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	ns, err := h.NotificationRepo.ListByUserDesc(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list notifications")
		return
	}
	common.OK(c, gin.H{"notifications": ns})
}

// ClearNotifications deletes every notification of the caller. The client
// confirms before issuing this; there is no partial clear.
func (h *Handler) ClearNotifications(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if err := h.NotificationRepo.DeleteAllForUser(c.Request.Context(), uid); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to clear notifications")
		return
	}
	common.OK(c, gin.H{"cleared": true})
}
