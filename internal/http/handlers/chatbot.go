package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaryah/zaryah-backend/internal/http/response"
	"github.com/zaryah/zaryah-backend/internal/services"
)

type ChatbotHandler struct {
	chatbotService services.ChatbotService
}

func NewChatbotHandler(chatbotService services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

// POST /api/chatbot
// body: { "query": "..." }
func (ch *ChatbotHandler) Ask(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", errors.New("Query is required"))
		return
	}
	out, err := ch.chatbotService.Ask(c.Request.Context(), req.Query)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
