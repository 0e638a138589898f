package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/zaryah/zaryah-backend/internal/platform/embedding"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
	"github.com/zaryah/zaryah-backend/internal/platform/pinecone"
)

type upsertCounter struct{ bySource map[string]int }

func (c *upsertCounter) AddVectorUpserts(source string, n int) {
	if c.bySource == nil {
		c.bySource = map[string]int{}
	}
	c.bySource[source] += n
}

func TestProfileTextAndMetadata(t *testing.T) {
	repo := &fakeUserRepo{}
	u := repo.add("ada@example.com", "Ada", 36, "Math", "Poetry")
	u.Profile.Occupation = "Analyst"

	text := ProfileText(u)
	for _, want := range []string{"Name: Ada", "Email: ada@example.com", "Subjects: Math, Poetry", "Occupation: Analyst", "Available Hours: 5 hours/week"} {
		if !strings.Contains(text, want) {
			t.Fatalf("ProfileText missing %q:\n%s", want, text)
		}
	}
	md := ProfileMetadata(u)
	if md["subjects"] != "Math|Poetry" || md["name"] != "Ada" || md["age"] != 36 {
		t.Fatalf("ProfileMetadata=%v", md)
	}
	if md["createdAt"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("createdAt=%v", md["createdAt"])
	}
}

func TestProfileIndexSyncAllChunks(t *testing.T) {
	repo := &fakeUserRepo{}
	for i := 0; i < 250; i++ {
		repo.add(fmt.Sprintf("u%d@example.com", i), fmt.Sprintf("User %d", i), 20)
	}
	store := &fakeVectorStore{}
	obs := &upsertCounter{}
	svc := NewProfileIndexService(logger.Nop(), repo, embedding.NewHashEmbedder(64), store, obs)

	n, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	if n != 250 || len(store.vectors) != 250 {
		t.Fatalf("SyncAll=%d, stored=%d, want 250", n, len(store.vectors))
	}
	if store.batches != 3 {
		t.Fatalf("batches=%d, want 3", store.batches)
	}
	if obs.bySource["sync"] != 250 {
		t.Fatalf("observed=%v", obs.bySource)
	}
}

func TestProfileIndexSyncAllErrors(t *testing.T) {
	svc := NewProfileIndexService(logger.Nop(), &fakeUserRepo{}, embedding.NewHashEmbedder(8), &fakeVectorStore{}, nil)
	_, err := svc.SyncAll(context.Background())
	if status, _ := statusOf(t, err); status != http.StatusNotFound {
		t.Fatalf("SyncAll empty status=%d, want 404", status)
	}

	repo := &fakeUserRepo{}
	repo.add("a@example.com", "A", 20)
	failing := NewProfileIndexService(logger.Nop(), repo, embedding.NewHashEmbedder(8), &fakeVectorStore{err: errors.New("boom")}, nil)
	if _, err := failing.SyncAll(context.Background()); err == nil {
		t.Fatalf("SyncAll with failing store: want error")
	}

	unconfigured := NewProfileIndexService(logger.Nop(), repo, nil, nil, nil)
	_, err = unconfigured.SyncAll(context.Background())
	if status, _ := statusOf(t, err); status != http.StatusServiceUnavailable {
		t.Fatalf("SyncAll unconfigured status=%d, want 503", status)
	}
}

func TestProfileIndexSearch(t *testing.T) {
	repo := &fakeUserRepo{}
	ada := repo.add("ada@example.com", "Ada", 36)
	bob := repo.add("bob@example.com", "Bob", 40)
	store := &fakeVectorStore{matches: []pinecone.VectorMatch{
		{ID: bob.ID.String(), Score: 0.9},
		{ID: "stale-id", Score: 0.8},
		{ID: ada.ID.String(), Score: 0.5},
	}}
	svc := NewProfileIndexService(logger.Nop(), repo, embedding.NewHashEmbedder(8), store, nil)

	hits, err := svc.Search(context.Background(), "python", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != bob.ID || hits[0].RelevanceScore != 0.9 || hits[1].ID != ada.ID {
		t.Fatalf("Search hits=%+v", hits)
	}

	_, err = svc.Search(context.Background(), "  ", 10)
	if status, _ := statusOf(t, err); status != http.StatusBadRequest {
		t.Fatalf("Search empty status=%d, want 400", status)
	}
}

func TestProfileIndexIndexUser(t *testing.T) {
	repo := &fakeUserRepo{}
	u := repo.add("a@example.com", "A", 20)
	store := &fakeVectorStore{}
	svc := NewProfileIndexService(logger.Nop(), repo, embedding.NewHashEmbedder(16), store, nil)
	if err := svc.IndexUser(context.Background(), u); err != nil {
		t.Fatalf("IndexUser: %v", err)
	}
	v, ok := store.vectors[u.ID.String()]
	if !ok || len(v.Values) != 16 {
		t.Fatalf("stored vector=%+v", v)
	}
}
