package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

const (
	ToolSearchUsers    = "search_users"
	ToolGetUserProfile = "get_user_profile"
	ToolSendMessage    = "send_message"
)

const errUserNotFound = "user not found"

// ToolSpecs returns the schemas of the three tools offered to the model.
func ToolSpecs() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name:        ToolSearchUsers,
			Description: "Search all platform users by occupation, education level and subjects. Every filter is optional; supplied filters must all match. Call without filters to list everyone.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"occupation": map[string]any{
						"type":        "string",
						"description": "Occupation or part of it, case-insensitive.",
					},
					"educationLevel": map[string]any{
						"type":        "string",
						"description": "Exact education level, e.g. Bachelor's Degree.",
					},
					"subjects": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Subjects of interest; a user matches when any of them is listed.",
					},
				},
			},
		},
		{
			Name:        ToolGetUserProfile,
			Description: "Fetch the full profile of one user by name (or part of it) or by user id.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"identifier": map[string]any{
						"type":        "string",
						"description": "User name, partial name or user id.",
					},
				},
				"required": []string{"identifier"},
			},
		},
		{
			Name:        ToolSendMessage,
			Description: "Send a direct message from the current user to another user identified by their exact full name.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"recipientName": map[string]any{
						"type":        "string",
						"description": "Exact full name of the recipient.",
					},
					"message": map[string]any{
						"type":        "string",
						"description": "Message text to send.",
					},
				},
				"required": []string{"recipientName", "message"},
			},
		},
	}
}

// ToolResult is the outcome of one tool call. Failures to resolve a target are ordinary results.
type ToolResult struct {
	CallID  string
	Name    string
	Payload map[string]any
}

// Content is the JSON body sent back to the model.
func (r ToolResult) Content() string {
	raw, err := json.Marshal(r.Payload)
	if err != nil {
		return `{"error":"unencodable tool result"}`
	}
	return string(raw)
}

func (r ToolResult) Message() llm.Message {
	return llm.Message{Role: llm.RoleTool, ToolCallID: r.CallID, Name: r.Name, Content: r.Content()}
}

type SearchUsersArgs struct {
	Occupation     string   `json:"occupation"`
	EducationLevel string   `json:"educationLevel"`
	Subjects       []string `json:"subjects"`
}

type GetUserProfileArgs struct {
	Identifier string `json:"identifier"`
}

type SendMessageArgs struct {
	RecipientName string `json:"recipientName"`
	Message       string `json:"message"`
}

// ToolDispatcher executes model tool calls against the stores on behalf of one caller.
type ToolDispatcher struct {
	Users    UserStore
	Messages MessageStore
	Log      *logger.Logger

	// CallerID sends messages; Relevant is searched before the store.
	CallerID uuid.UUID
	Relevant []*types.User
}

func (d *ToolDispatcher) Dispatch(ctx context.Context, call llm.ToolCall) ToolResult {
	res := ToolResult{CallID: call.ID, Name: call.Name}
	switch call.Name {
	case ToolSearchUsers:
		var args SearchUsersArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			res.Payload = errorPayload(err.Error())
			return res
		}
		res.Payload = d.searchUsers(ctx, args)
	case ToolGetUserProfile:
		var args GetUserProfileArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			res.Payload = errorPayload(err.Error())
			return res
		}
		res.Payload = d.getUserProfile(ctx, args)
	case ToolSendMessage:
		var args SendMessageArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			res.Payload = map[string]any{"sent": false, "error": err.Error()}
			return res
		}
		res.Payload = d.sendMessage(ctx, args)
	default:
		res.Payload = errorPayload(fmt.Sprintf("unknown tool %q", call.Name))
	}
	return res
}

func (d *ToolDispatcher) searchUsers(ctx context.Context, args SearchUsersArgs) map[string]any {
	all, err := d.Users.FindAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		d.logWarn("search_users: load users failed", "error", err)
		return errorPayload("user search is unavailable")
	}
	matches := FilterUsers(all, args)
	shown := matches
	if len(shown) > MaxSearchResults {
		shown = shown[:MaxSearchResults]
	}
	return map[string]any{
		"total":     len(matches),
		"truncated": len(matches) > len(shown),
		"users":     NewUserCards(shown),
	}
}

// FilterUsers applies search_users filters: AND across supplied filters, none supplied keeps everyone.
func FilterUsers(users []*types.User, args SearchUsersArgs) []*types.User {
	occ := strings.ToLower(strings.TrimSpace(args.Occupation))
	edu := strings.TrimSpace(args.EducationLevel)
	subjects := make([]string, 0, len(args.Subjects))
	for _, s := range args.Subjects {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			subjects = append(subjects, s)
		}
	}
	if occ == "" && edu == "" && len(subjects) == 0 {
		out := make([]*types.User, 0, len(users))
		for _, u := range users {
			if u != nil {
				out = append(out, u)
			}
		}
		return out
	}

	out := []*types.User{}
	for _, u := range users {
		if u == nil || u.Profile == nil {
			continue
		}
		p := u.Profile
		if occ != "" {
			have := strings.ToLower(strings.TrimSpace(p.Occupation))
			if have == "" || !(strings.Contains(have, occ) || strings.Contains(occ, have)) {
				continue
			}
		}
		if edu != "" && p.EducationLevel != edu {
			continue
		}
		if len(subjects) > 0 && !anySubject(p.SubjectList(), subjects) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func anySubject(have, want []string) bool {
	for _, h := range have {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (d *ToolDispatcher) getUserProfile(ctx context.Context, args GetUserProfileArgs) map[string]any {
	ident := strings.TrimSpace(args.Identifier)
	if ident == "" {
		return map[string]any{"found": false, "error": "identifier is required"}
	}
	lower := strings.ToLower(ident)
	id, idErr := uuid.Parse(ident)

	for _, u := range d.Relevant {
		if u == nil {
			continue
		}
		if (idErr == nil && u.ID == id) || (profileName(u) != "" && strings.Contains(strings.ToLower(profileName(u)), lower)) {
			return map[string]any{"found": true, "user": NewUserCard(u)}
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	if idErr == nil {
		u, err := d.Users.FindByID(dbc, id)
		if err != nil {
			d.logWarn("get_user_profile: lookup by id failed", "error", err)
			return map[string]any{"found": false, "error": "profile lookup is unavailable"}
		}
		if u != nil {
			return map[string]any{"found": true, "user": NewUserCard(u)}
		}
	}
	users, err := d.Users.FindByNameContains(dbc, ident)
	if err != nil {
		d.logWarn("get_user_profile: lookup by name failed", "error", err)
		return map[string]any{"found": false, "error": "profile lookup is unavailable"}
	}
	if len(users) > 0 && users[0] != nil {
		return map[string]any{"found": true, "user": NewUserCard(users[0])}
	}
	return map[string]any{"found": false, "identifier": ident, "error": errUserNotFound}
}

func (d *ToolDispatcher) sendMessage(ctx context.Context, args SendMessageArgs) map[string]any {
	name := strings.TrimSpace(args.RecipientName)
	body := strings.TrimSpace(args.Message)
	switch {
	case name == "":
		return map[string]any{"sent": false, "error": "recipientName is required"}
	case body == "":
		return map[string]any{"sent": false, "error": "message is required"}
	case d.CallerID == uuid.Nil:
		return map[string]any{"sent": false, "error": "sender is not authenticated"}
	}

	// The store is consulted even when the relevant subset has a match so a second user with the
	// same name is detected.
	dbc := dbctx.Context{Ctx: ctx}
	candidates := exactNameMatches(d.Relevant, name)
	found, err := d.Users.FindByNameContains(dbc, name)
	if err != nil {
		if len(candidates) == 0 {
			d.logWarn("send_message: recipient lookup failed", "error", err)
			return map[string]any{"sent": false, "error": "recipient lookup is unavailable"}
		}
		found = nil
	}
	matches := exactNameMatches(append(candidates, found...), name)
	if len(matches) == 0 {
		return map[string]any{"sent": false, "error": errUserNotFound}
	}
	if len(matches) > 1 {
		return map[string]any{"sent": false, "error": fmt.Sprintf("%d users are named %s", len(matches), name)}
	}

	recipient := matches[0]
	msg, err := d.Messages.Create(dbc, d.CallerID, recipient.ID, body)
	if errors.Is(err, apierr.ErrNotFound) {
		return map[string]any{"sent": false, "error": "sender or recipient no longer exists"}
	}
	if err != nil {
		d.logWarn("send_message: create failed", "receiver_id", recipient.ID, "error", err)
		return map[string]any{"sent": false, "error": "message could not be sent"}
	}
	return map[string]any{
		"sent":          true,
		"recipientName": profileName(recipient),
		"recipientId":   recipient.ID,
		"messageId":     msg.ID,
	}
}

// exactNameMatches returns the distinct users whose name equals name, ignoring case.
func exactNameMatches(users []*types.User, name string) []*types.User {
	out := []*types.User{}
	seen := map[uuid.UUID]bool{}
	for _, u := range users {
		if u == nil || seen[u.ID] {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(profileName(u)), name) {
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	return out
}

func decodeArgs(raw json.RawMessage, dst any) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	return nil
}

func errorPayload(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func (d *ToolDispatcher) logWarn(msg string, kv ...interface{}) {
	if d.Log != nil {
		d.Log.Warn(msg, kv...)
	}
}
