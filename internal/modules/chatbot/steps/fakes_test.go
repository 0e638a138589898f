package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
)

type fakeUserStore struct {
	users []*types.User
	err   error
}

func (s *fakeUserStore) FindAll(dbc dbctx.Context) ([]*types.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]*types.User{}, s.users...), nil
}

func (s *fakeUserStore) FindByNameContains(dbc dbctx.Context, q string) ([]*types.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []*types.User{}
	for _, u := range s.users {
		if u.Profile != nil && strings.Contains(strings.ToLower(u.Profile.Name), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Count(dbc dbctx.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.users)), nil
}

type fakeMessageStore struct {
	mu   sync.Mutex
	msgs []*types.Message
	err  error
}

func (s *fakeMessageStore) Create(dbc dbctx.Context, senderID, receiverID uuid.UUID, content string) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	m := &types.Message{ID: uuid.New(), SenderID: senderID, ReceiverID: receiverID, Content: content}
	s.msgs = append(s.msgs, m)
	return m, nil
}

func (s *fakeMessageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

// scriptedProvider replays responses in order and records every request it saw.
type scriptedProvider struct {
	responses []*llm.Response
	err       error
	requests  []llm.Request
	onCall    func(n int)
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	n := len(p.requests)
	p.requests = append(p.requests, req)
	if p.onCall != nil {
		p.onCall(n)
	}
	if p.err != nil {
		return nil, p.err
	}
	if n >= len(p.responses) {
		return nil, fmt.Errorf("unexpected call %d", n)
	}
	return p.responses[n], nil
}

type profileOpt func(*types.Profile)

func withSubjects(s ...string) profileOpt {
	return func(p *types.Profile) { p.Subjects = datatypes.JSONSlice[string](s) }
}

func withEducation(e string) profileOpt {
	return func(p *types.Profile) { p.EducationLevel = e }
}

func withGoals(g string) profileOpt {
	return func(p *types.Profile) { p.LearningGoals = g }
}

func newUser(name, occupation string, opts ...profileOpt) *types.User {
	id := uuid.New()
	p := &types.Profile{
		ID:         uuid.New(),
		UserID:     id,
		Name:       name,
		Occupation: occupation,
		Subjects:   datatypes.JSONSlice[string]{},
	}
	for _, o := range opts {
		o(p)
	}
	return &types.User{
		ID:      id,
		Email:   strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Profile: p,
	}
}

func toolCall(id, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Arguments: []byte(args)}
}
