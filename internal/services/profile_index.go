package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zaryah/zaryah-backend/internal/data/repos"
	types "github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/apierr"
	"github.com/zaryah/zaryah-backend/internal/platform/dbctx"
	"github.com/zaryah/zaryah-backend/internal/platform/embedding"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
	"github.com/zaryah/zaryah-backend/internal/platform/pinecone"
)

const (
	ProfileNamespace   = "users"
	syncChunkSize      = 100
	syncParallelism    = 4
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// VectorObserver counts vectors written to the index.
type VectorObserver interface {
	AddVectorUpserts(source string, n int)
}

// SearchHit is a stored user annotated with its similarity to the query.
type SearchHit struct {
	*types.User
	RelevanceScore float64 `json:"relevanceScore"`
}

type ProfileIndexService interface {
	IndexUser(ctx context.Context, u *types.User) error
	// SyncAll re-indexes every user and returns how many were written.
	SyncAll(ctx context.Context) (int, error)
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

type profileIndexService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	embedder embedding.Embedder
	store    pinecone.VectorStore
	obs      VectorObserver
}

// NewProfileIndexService indexes user profiles into store. A nil store yields a service whose
// operations report 503.
func NewProfileIndexService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	embedder embedding.Embedder,
	store pinecone.VectorStore,
	obs VectorObserver,
) ProfileIndexService {
	return &profileIndexService{
		log:      log.With("service", "ProfileIndexService"),
		userRepo: userRepo,
		embedder: embedder,
		store:    store,
		obs:      obs,
	}
}

func (s *profileIndexService) ready() error {
	if s.store == nil || s.embedder == nil {
		return apierr.New(http.StatusServiceUnavailable, "vector_index_unavailable", fmt.Errorf("%w: vector index is not configured", apierr.ErrUnavailable))
	}
	return nil
}

func (s *profileIndexService) IndexUser(ctx context.Context, u *types.User) error {
	if err := s.ready(); err != nil {
		return err
	}
	if u == nil || u.Profile == nil {
		return fmt.Errorf("user with profile required")
	}
	vecs, err := s.vectors(ctx, []*types.User{u})
	if err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, ProfileNamespace, vecs); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	s.observe("signup", len(vecs))
	return nil
}

func (s *profileIndexService) SyncAll(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	users, err := s.userRepo.FindAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}
	indexable := make([]*types.User, 0, len(users))
	for _, u := range users {
		if u != nil && u.Profile != nil {
			indexable = append(indexable, u)
		}
	}
	if len(indexable) == 0 {
		return 0, apierr.New(http.StatusNotFound, "no_users", fmt.Errorf("%w: No users found to sync", apierr.ErrNotFound))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncParallelism)
	for start := 0; start < len(indexable); start += syncChunkSize {
		end := start + syncChunkSize
		if end > len(indexable) {
			end = len(indexable)
		}
		chunk := indexable[start:end]
		batch := start/syncChunkSize + 1
		g.Go(func() error {
			vecs, err := s.vectors(gctx, chunk)
			if err != nil {
				return err
			}
			if err := s.store.Upsert(gctx, ProfileNamespace, vecs); err != nil {
				return fmt.Errorf("upsert batch %d: %w", batch, err)
			}
			s.log.Info("Stored users in vector index", "batch", batch, "count", len(vecs))
			s.observe("sync", len(vecs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(indexable), nil
}

func (s *profileIndexService) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_query", errors.New("Query parameter required"))
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	qv, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qv) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(qv))
	}
	matches, err := s.store.QueryMatches(ctx, ProfileNamespace, qv[0], limit, nil)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if id, err := uuid.Parse(m.ID); err == nil {
			ids = append(ids, id)
		}
	}
	users, err := s.userRepo.FindByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return nil, fmt.Errorf("load matched users: %w", err)
	}
	byID := make(map[string]*types.User, len(users))
	for _, u := range users {
		byID[u.ID.String()] = u
	}

	hits := make([]SearchHit, 0, len(matches))
	for _, m := range matches {
		u, ok := byID[m.ID]
		if !ok {
			s.log.Debug("Skipping stale vector", "vector_id", m.ID)
			continue
		}
		hits = append(hits, SearchHit{User: u, RelevanceScore: m.Score})
	}
	return hits, nil
}

func (s *profileIndexService) vectors(ctx context.Context, users []*types.User) ([]pinecone.Vector, error) {
	texts := make([]string, len(users))
	for i, u := range users {
		texts[i] = ProfileText(u)
	}
	embs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed profiles: %w", err)
	}
	if len(embs) != len(users) {
		return nil, fmt.Errorf("embed profiles: got %d vectors for %d users", len(embs), len(users))
	}
	out := make([]pinecone.Vector, len(users))
	for i, u := range users {
		out[i] = pinecone.Vector{
			ID:       u.ID.String(),
			Values:   embs[i],
			Metadata: ProfileMetadata(u),
		}
	}
	return out, nil
}

func (s *profileIndexService) observe(source string, n int) {
	if s.obs != nil {
		s.obs.AddVectorUpserts(source, n)
	}
}

// ProfileText is the searchable rendering of a user that gets embedded.
func ProfileText(u *types.User) string {
	p := u.Profile
	if p == nil {
		return "Email: " + u.Email
	}
	lines := []string{
		"Name: " + p.Name,
		"Email: " + u.Email,
		fmt.Sprintf("Age: %d", p.Age),
		"Education: " + p.EducationLevel,
		"Occupation: " + p.Occupation,
		"Learning Goals: " + p.LearningGoals,
		"Subjects: " + strings.Join(p.SubjectList(), ", "),
		"Learning Style: " + p.LearningStyle,
		"Experience: " + p.PreviousExperience,
		"Strengths: " + p.Strengths,
		"Weaknesses: " + p.Weaknesses,
		"Challenges: " + p.SpecificChallenges,
		fmt.Sprintf("Available Hours: %d hours/week", p.AvailableHoursPerWeek),
		"Learning Pace: " + p.LearningPace,
		"Motivation: " + p.MotivationLevel,
	}
	return strings.Join(lines, "\n")
}

// ProfileMetadata flattens the profile into index metadata. Subjects are joined with "|".
func ProfileMetadata(u *types.User) map[string]any {
	md := map[string]any{
		"email":     u.Email,
		"createdAt": u.CreatedAt.UTC().Format(time.RFC3339),
	}
	p := u.Profile
	if p == nil {
		return md
	}
	md["name"] = p.Name
	md["age"] = p.Age
	md["educationLevel"] = p.EducationLevel
	md["occupation"] = p.Occupation
	md["learningGoals"] = p.LearningGoals
	md["subjects"] = strings.Join(p.SubjectList(), "|")
	md["learningStyle"] = p.LearningStyle
	md["previousExperience"] = p.PreviousExperience
	md["strengths"] = p.Strengths
	md["weaknesses"] = p.Weaknesses
	md["specificChallenges"] = p.SpecificChallenges
	md["availableHoursPerWeek"] = p.AvailableHoursPerWeek
	md["learningPace"] = p.LearningPace
	md["motivationLevel"] = p.MotivationLevel
	return md
}
