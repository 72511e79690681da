package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/questionnaire"
)

type createQuestionnaireReq struct {
	ChatID string `json:"chat_id" binding:"required"`
	Title  string `json:"title" binding:"required"`
}

func (h *Handler) CreateQuestionnaire(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createQuestionnaireReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	q, err := h.QuestionnaireSvc.Create(c.Request.Context(), req.ChatID, uid, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, questionnaire.ErrEmptyTitle):
			common.Fail(c, http.StatusBadRequest, 10002, "title is empty")
		case errors.Is(err, questionnaire.ErrNotMember):
			common.Fail(c, http.StatusNotFound, 40404, "chat not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to create questionnaire")
		}
		return
	}
	common.OK(c, q)
}

func (h *Handler) GetQuestionnaire(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	view, err := h.QuestionnaireSvc.Load(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, questionnaire.ErrNotMember):
			// hide existence from non-members
			common.Fail(c, http.StatusNotFound, 40405, "questionnaire not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50002, "failed to load questionnaire")
		}
		return
	}
	common.OK(c, view)
}

type addQuestionReq struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) AddQuestion(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req addQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	q, err := h.QuestionnaireSvc.AddQuestion(c.Request.Context(), c.Param("id"), uid, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, questionnaire.ErrEmptyQuestion):
			common.Fail(c, http.StatusBadRequest, 10002, "question text is empty")
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, questionnaire.ErrNotMember):
			common.Fail(c, http.StatusNotFound, 40405, "questionnaire not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to add question")
		}
		return
	}
	common.OK(c, q)
}

type addResponseReq struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) AddResponse(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req addResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	resp, err := h.QuestionnaireSvc.AddResponse(c.Request.Context(), c.Param("id"), uid, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, questionnaire.ErrEmptyResponse):
			common.Fail(c, http.StatusBadRequest, 10002, "response text is empty")
		case errors.Is(err, questionnaire.ErrNotMember):
			common.Fail(c, http.StatusForbidden, 40301, "not a member of this chat")
		case errors.Is(err, gorm.ErrRecordNotFound):
			common.Fail(c, http.StatusNotFound, 40406, "question not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to add response")
		}
		return
	}
	common.OK(c, resp)
}

func (h *Handler) ListChatQuestionnaires(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	chatID := c.Param("chat_id")

	member, err := h.ChatSvc.IsMember(c.Request.Context(), chatID, uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to check membership")
		return
	}
	if !member {
		common.Fail(c, http.StatusNotFound, 40404, "chat not found")
		return
	}

	qs, err := h.QuestionnaireSvc.ListByChat(c.Request.Context(), chatID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list questionnaires")
		return
	}
	common.OK(c, gin.H{"questionnaires": qs})
}
