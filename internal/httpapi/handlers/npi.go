package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/npi"
)

func (h *Handler) VerifyNPI(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	info, err := h.NPI.Verify(c.Request.Context(), uid, c.Param("number"))
	if err != nil {
		switch {
		case errors.Is(err, npi.ErrInvalidNumber):
			common.Fail(c, http.StatusBadRequest, 10002, "NPI must be exactly 10 digits")
		case errors.Is(err, npi.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40408, "NPI not found in registry")
		default:
			common.Fail(c, http.StatusBadGateway, 50201, "failed to verify NPI with registry")
		}
		return
	}
	common.OK(c, gin.H{"provider": info})
}
