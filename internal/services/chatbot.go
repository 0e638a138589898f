package services

import (
	"context"

	"github.com/zaryah/zaryah-backend/internal/modules/chatbot"
	"github.com/zaryah/zaryah-backend/internal/platform/ctxutil"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

// ChatbotObserver receives one observation per answered query.
type ChatbotObserver interface {
	ObserveChatbotAnswer(degraded bool, toolRounds int)
}

type ChatbotService interface {
	Ask(ctx context.Context, query string) (chatbot.RespondOutput, error)
}

type chatbotService struct {
	log *logger.Logger
	uc  chatbot.Usecases
	obs ChatbotObserver
}

// NewChatbotService answers queries on behalf of the authenticated caller. obs may be nil.
func NewChatbotService(log *logger.Logger, deps chatbot.UsecasesDeps, obs ChatbotObserver) ChatbotService {
	serviceLog := log.With("service", "ChatbotService")
	deps.Log = serviceLog
	return &chatbotService{log: serviceLog, uc: chatbot.New(deps), obs: obs}
}

func (cs *chatbotService) Ask(ctx context.Context, query string) (chatbot.RespondOutput, error) {
	out, err := cs.uc.Respond(ctx, chatbot.RespondInput{
		CallerID: ctxutil.CallerID(ctx),
		Query:    query,
	})
	if err != nil {
		return out, err
	}
	if out.Degraded {
		cs.log.Warn("Chatbot answered with fallback", "tool_rounds", out.ToolRounds)
	}
	if cs.obs != nil {
		cs.obs.ObserveChatbotAnswer(out.Degraded, out.ToolRounds)
	}
	return out, nil
}
