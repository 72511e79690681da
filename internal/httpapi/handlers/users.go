package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/auth"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/httpapi/middleware"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/profile"
)

func userIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

type createUserReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		common.Fail(c, http.StatusBadRequest, 10002, "email, username and password required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	user := profile.Profile{
		ID:           uuid.NewString(),
		Email:        &req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user (maybe email already exists)")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":       user.ID,
		"email":    req.Email,
		"username": user.Username,
		"token":    token,
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	var user profile.Profile
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		common.Fail(c, http.StatusUnauthorized, 40102, "invalid email or password")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40102, "invalid email or password")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{"token": token, "id": user.ID})
}

type syncProfileReq struct {
	ExternalID string `json:"external_id" binding:"required"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
}

// SyncProfile upserts the profile for an external auth identity and returns
// a token for the derived internal id. Called on first login.
func (h *Handler) SyncProfile(c *gin.Context) {
	var req syncProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	p, err := h.ProfileSvc.Sync(c.Request.Context(), req.ExternalID, req.Username, req.FullName)
	if err != nil {
		if errors.Is(err, profile.ErrValidation) {
			common.Fail(c, http.StatusBadRequest, 10002, "external_id required")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to sync profile")
		return
	}

	token, err := auth.SignJWT(p.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{"profile": p, "token": token})
}

func (h *Handler) Me(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	p, err := h.ProfileSvc.Get(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "profile not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, p)
}

type availabilityReq struct {
	HasEcmoAvailable *bool `json:"has_ecmo_available" binding:"required"`
}

func (h *Handler) SetAvailability(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	p, err := h.ProfileSvc.SetAvailability(c.Request.Context(), uid, *req.HasEcmoAvailable)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to update availability")
		return
	}
	common.OK(c, p)
}

func (h *Handler) ListUsers(c *gin.Context) {
	ps, err := h.ProfileSvc.ListAll(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"users": ps})
}

func (h *Handler) GetUserByID(c *gin.Context) {
	id := c.Param("id")
	p, err := h.ProfileSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{
		"id":        p.ID,
		"username":  p.Username,
		"full_name": p.FullName,
	})
}
