package app

import (
	"context"
	"time"

	"github.com/zaryah/zaryah-backend/internal/platform/pinecone"
)

// VectorStoreObserver records one observation per vector store call.
type VectorStoreObserver interface {
	ObserveVectorStoreOperation(provider, operation, status string, dur time.Duration)
}

type instrumentedVectorStore struct {
	provider string
	inner    pinecone.VectorStore
	obs      VectorStoreObserver
}

func instrumentVectorStore(provider string, inner pinecone.VectorStore, obs VectorStoreObserver) pinecone.VectorStore {
	if inner == nil {
		return nil
	}
	return &instrumentedVectorStore{provider: provider, inner: inner, obs: obs}
}

func (s *instrumentedVectorStore) Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error {
	start := time.Now()
	err := s.inner.Upsert(ctx, namespace, vectors)
	s.observe("upsert", err, time.Since(start))
	return err
}

func (s *instrumentedVectorStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]pinecone.VectorMatch, error) {
	start := time.Now()
	out, err := s.inner.QueryMatches(ctx, namespace, q, topK, filter)
	s.observe("query_matches", err, time.Since(start))
	return out, err
}

func (s *instrumentedVectorStore) DeleteIDs(ctx context.Context, namespace string, ids []string) error {
	start := time.Now()
	err := s.inner.DeleteIDs(ctx, namespace, ids)
	s.observe("delete_ids", err, time.Since(start))
	return err
}

func (s *instrumentedVectorStore) observe(operation string, err error, dur time.Duration) {
	if s.obs == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.obs.ObserveVectorStoreOperation(s.provider, operation, status, dur)
}
