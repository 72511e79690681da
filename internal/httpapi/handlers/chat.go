package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/chat"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
)

type createChatReq struct {
	Title     string   `json:"title" binding:"required"`
	MemberIDs []string `json:"member_ids" binding:"required"`
	PatientID *string  `json:"patient_id"`
}

func (h *Handler) CreateChat(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	created, err := h.ChatSvc.CreateChatWithMembers(c.Request.Context(), uid, req.Title, req.MemberIDs, req.PatientID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyTitle), errors.Is(err, chat.ErrNoMembers):
			common.Fail(c, http.StatusBadRequest, 10002, err.Error())
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to create chat")
		}
		return
	}
	common.OK(c, created)
}

func (h *Handler) ListChats(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	chats, err := h.ChatSvc.ListChats(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list chats")
		return
	}
	// no chats is an empty list, not an error
	common.OK(c, gin.H{"chats": chats})
}

func (h *Handler) ListChatMessages(c *gin.Context) {
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
		// hide existence
		common.Fail(c, http.StatusNotFound, 40404, "chat not found")
		return
	}

	msgs, err := h.ChatSvc.ListMessages(c.Request.Context(), chatID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list messages")
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	chatID := c.Param("chat_id")

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	m, err := h.ChatSvc.SendMessage(c.Request.Context(), chatID, uid, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			common.Fail(c, http.StatusBadRequest, 10002, "message text is empty")
		case errors.Is(err, chat.ErrNotMember):
			common.Fail(c, http.StatusNotFound, 40404, "chat not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to send message")
		}
		return
	}
	common.OK(c, m)
}

// StreamChat serves a chat as server-sent events: one full message snapshot
// on open, then one per poll tick or send. The connection is the session;
// closing it tears the poll loop down.
func (h *Handler) StreamChat(c *gin.Context) {
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

	sm := chat.NewSessionManager(h.ChatSvc, uid, h.Cfg.ChatPollInterval)
	defer sm.Close()

	ctx := c.Request.Context()
	if err := sm.OpenChat(ctx, chatID); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to open chat")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sm.Updates():
			if !ok {
				return
			}
			c.SSEvent("snapshot", snap)
			c.Writer.Flush()
		}
	}
}

func (h *Handler) ListChatMembers(c *gin.Context) {
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

	members, err := h.ChatSvc.ListMembers(c.Request.Context(), chatID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list members")
		return
	}
	common.OK(c, gin.H{"members": members})
}

func (h *Handler) LeaveChat(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	chatID := c.Param("chat_id")

	if err := h.ChatSvc.LeaveChat(c.Request.Context(), chatID, uid); err != nil {
		if errors.Is(err, chat.ErrNotMember) {
			common.Fail(c, http.StatusNotFound, 40404, "chat not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to leave chat")
		return
	}
	common.OK(c, gin.H{"left": true})
}
