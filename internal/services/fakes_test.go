package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/pinecone"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*types.User
	err   error
}

func (r *fakeUserRepo) add(email, name string, age int, subjects ...string) *types.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	u := &types.User{
		ID:        id,
		Email:     email,
		Password:  "pw",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Profile: &types.Profile{
			UserID:   id,
			Name:     name,
			Age:      age,
			Subjects: datatypes.JSONSlice[string](subjects),
		},
	}
	u.Profile.Normalize()
	r.users = append(r.users, u)
	return u
}

func (r *fakeUserRepo) Create(dbc dbctx.Context, u *types.User) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("%w: email already registered", apierr.ErrConflict)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Profile.UserID = u.ID
	r.users = append(r.users, u)
	return u, nil
}

func (r *fakeUserRepo) FindAll(dbc dbctx.Context) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]*types.User{}, r.users...), nil
}

func (r *fakeUserRepo) FindByNameContains(dbc dbctx.Context, s string) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.DisplayName()), strings.ToLower(s)) {
			out = append(out, u)
		}
	}
	return out, r.err
}

func (r *fakeUserRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*types.User
	for _, u := range r.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, r.err
}

func (r *fakeUserRepo) FindByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	u, err := r.FindByEmail(dbc, email)
	return u != nil, err
}

func (r *fakeUserRepo) Count(dbc dbctx.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), r.err
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []*types.Message
}

func (r *fakeMessageRepo) Create(dbc dbctx.Context, senderID, receiverID uuid.UUID, content string) (*types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := &types.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	r.msgs = append(r.msgs, m)
	return m, nil
}

func (r *fakeMessageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) ListForReceiver(dbc dbctx.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]*types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Message
	for i := len(r.msgs) - 1; i >= 0; i-- {
		m := r.msgs[i]
		if m.ReceiverID == receiverID && (!unreadOnly || !m.Read) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) CountUnread(dbc dbctx.Context, receiverID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) MarkRead(dbc dbctx.Context, id, receiverID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == id && m.ReceiverID == receiverID {
			m.Read = true
			return true, nil
		}
	}
	return false, nil
}

type fakeVectorStore struct {
	mu      sync.Mutex
	vectors map[string]pinecone.Vector
	batches int
	matches []pinecone.VectorMatch
	err     error
}

func (s *fakeVectorStore) Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.vectors == nil {
		s.vectors = map[string]pinecone.Vector{}
	}
	for _, v := range vectors {
		s.vectors[v.ID] = v
	}
	s.batches++
	return nil
}

func (s *fakeVectorStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]pinecone.VectorMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches) > topK {
		return s.matches[:topK], s.err
	}
	return s.matches, s.err
}

func (s *fakeVectorStore) DeleteIDs(ctx context.Context, namespace string, ids []string) error {
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]any
	gets   int
	sets   int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*(dst.(*UserStats)) = *(v.(*UserStats))
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = map[string]any{}
	}
	c.values[key] = val
	c.sets++
	return nil
}

type countingIndexer struct {
	calls int
	err   error
}

func (i *countingIndexer) IndexUser(ctx context.Context, u *types.User) error {
	i.calls++
	return i.err
}
