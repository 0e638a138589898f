package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type RespondDeps struct {
	Log      *logger.Logger
	Provider llm.Provider
	Users    UserStore
	Messages MessageStore

	// Mentions defaults to SubstringMentionDetector.
	Mentions MentionDetector
	// MaxToolRounds defaults to DefaultMaxToolRounds.
	MaxToolRounds int
	// Now defaults to time.Now.
	Now func() time.Time
}

type RespondInput struct {
	CallerID uuid.UUID
	Query    string
}

type RespondOutput struct {
	Query          string     `json:"query"`
	Response       string     `json:"response"`
	MentionedUsers []UserCard `json:"mentionedUsers"`
	Timestamp      time.Time  `json:"timestamp"`
	DataSource     string     `json:"dataSource"`
	// Degraded is set when the answer did not come from the model.
	Degraded   bool `json:"degraded"`
	ToolRounds int  `json:"-"`
}

// Respond answers one chatbot query. The model may call tools for up to MaxToolRounds rounds; its
// first plain-text answer is returned together with the users it mentions. Provider and store
// failures degrade to a canned answer instead of an error. Only an empty query is rejected.
func Respond(ctx context.Context, deps RespondDeps, in RespondInput) (RespondOutput, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return RespondOutput{}, apierr.BadRequest("invalid_query", "query is required")
	}
	if deps.Log == nil || deps.Users == nil || deps.Messages == nil {
		return RespondOutput{}, fmt.Errorf("chatbot respond: missing deps")
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	maxRounds := deps.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	detector := deps.Mentions
	if detector == nil {
		detector = SubstringMentionDetector{}
	}
	log := deps.Log.With("caller_id", in.CallerID)

	out := RespondOutput{
		Query:          in.Query,
		MentionedUsers: []UserCard{},
		DataSource:     DataSourcePostgres,
	}
	dbc := dbctx.Context{Ctx: ctx}

	users, err := deps.Users.FindAll(dbc)
	if err != nil {
		log.Warn("chatbot: loading users failed, using fallback", "error", err)
		out.Response = FallbackResponse(query, nil, 0)
		out.Degraded = true
		out.Timestamp = now().UTC()
		return out, nil
	}
	total, err := deps.Users.Count(dbc)
	if err != nil {
		log.Warn("chatbot: counting users failed", "error", err)
		total = int64(len(users))
	}

	scored := ScoreRelevance(query, users)
	relevant := RelevantUsers(scored)

	if deps.Provider == nil {
		log.Warn("chatbot: no chat provider configured, using fallback")
		return finish(out, FallbackResponse(query, scored, total), true, detector, users, now), nil
	}

	dispatcher := &ToolDispatcher{
		Users:    deps.Users,
		Messages: deps.Messages,
		Log:      log,
		CallerID: in.CallerID,
		Relevant: relevant,
	}
	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: BuildContextPrompt(scored, total, query)},
		{Role: llm.RoleUser, Content: query},
	}
	tools := ToolSpecs()

	for round := 0; ; round++ {
		if round > 0 && ctx.Err() != nil {
			log.Info("chatbot: request cancelled between rounds", "rounds", round)
			return finish(out, TerminalResponse, true, detector, users, now), nil
		}

		resp, err := deps.Provider.Complete(ctx, llm.Request{Messages: msgs, Tools: tools})
		if err != nil {
			log.Warn("chatbot: provider call failed, using fallback", "provider", deps.Provider.Name(), "round", round, "error", err)
			return finish(out, FallbackResponse(query, scored, total), true, detector, users, now), nil
		}

		if !resp.HasToolCalls() {
			text := strings.TrimSpace(resp.Text)
			if text == "" {
				log.Warn("chatbot: provider returned empty answer, using fallback", "provider", deps.Provider.Name(), "round", round)
				return finish(out, FallbackResponse(query, scored, total), true, detector, users, now), nil
			}
			return finish(out, text, false, detector, users, now), nil
		}

		if round >= maxRounds {
			log.Warn("chatbot: tool round limit reached", "max_rounds", maxRounds)
			return finish(out, TerminalResponse, true, detector, users, now), nil
		}

		msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: resp.Text, ToolCalls: resp.ToolCalls})
		// A round that started runs to completion even if the caller goes away.
		toolCtx := context.WithoutCancel(ctx)
		for _, call := range resp.ToolCalls {
			res := dispatcher.Dispatch(toolCtx, call)
			log.Debug("chatbot: tool executed", "tool", call.Name, "round", round)
			msgs = append(msgs, res.Message())
		}
		out.ToolRounds++
	}
}

func finish(out RespondOutput, text string, degraded bool, detector MentionDetector, users []*types.User, now func() time.Time) RespondOutput {
	out.Response = text
	out.Degraded = degraded
	out.MentionedUsers = NewUserCards(detector.Detect(text, users))
	out.Timestamp = now().UTC()
	return out
}
