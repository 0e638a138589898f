package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaryah/zaryah-backend/internal/http/response"
	"github.com/zaryah/zaryah-backend/internal/services"
)

type MessageHandler struct {
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// POST /api/messages
// body: { "receiverId": "...", "content": "..." }
func (mh *MessageHandler) Send(c *gin.Context) {
	var req struct {
		ReceiverID string `json:"receiverId" binding:"required,uuid"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	msg, err := mh.messageService.Send(c.Request.Context(), uuid.MustParse(req.ReceiverID), req.Content)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}

// GET /api/messages?unread=true&limit=50
func (mh *MessageHandler) Inbox(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	inbox, err := mh.messageService.Inbox(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, inbox)
}

// PATCH /api/messages/:id/read
func (mh *MessageHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("Invalid message id"))
		return
	}
	if err := mh.messageService.MarkRead(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
