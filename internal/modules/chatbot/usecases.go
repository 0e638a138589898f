package chatbot

import (
	"context"

	"github.com/zaryah/zaryah-backend/internal/modules/chatbot/steps"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Provider llm.Provider
	Users    steps.UserStore
	Messages steps.MessageStore
	Mentions steps.MentionDetector

	MaxToolRounds int
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	RespondInput  = steps.RespondInput
	RespondOutput = steps.RespondOutput
	UserCard      = steps.UserCard
)

func (u Usecases) Respond(ctx context.Context, in RespondInput) (RespondOutput, error) {
	return steps.Respond(ctx, steps.RespondDeps{
		Log:           u.deps.Log,
		Provider:      u.deps.Provider,
		Users:         u.deps.Users,
		Messages:      u.deps.Messages,
		Mentions:      u.deps.Mentions,
		MaxToolRounds: u.deps.MaxToolRounds,
	}, steps.RespondInput(in))
}
