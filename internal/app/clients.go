package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/zaryah/zaryah-backend/internal/clients/redis"
	"github.com/zaryah/zaryah-backend/internal/observability"
	"github.com/zaryah/zaryah-backend/internal/platform/embedding"
	"github.com/zaryah/zaryah-backend/internal/platform/gemini"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
	"github.com/zaryah/zaryah-backend/internal/platform/openai"
	"github.com/zaryah/zaryah-backend/internal/platform/pinecone"
	"github.com/zaryah/zaryah-backend/internal/platform/qdrant"
)

// Clients holds the external integrations. Provider, VectorStore and Cache are nil when their
// integration is not configured; the services degrade instead of failing.
type Clients struct {
	Provider    llm.Provider
	Embedder    embedding.Embedder
	VectorStore pinecone.VectorStore
	Cache       redis.Cache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	provider, err := newChatProvider(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}
	if provider != nil {
		provider = llm.NewTraced(llm.NewResilient(provider, cfg.Resilience, log), metrics)
	} else {
		log.Warn("No chat provider configured; chatbot answers will use the keyword fallback", "chat_provider", cfg.ChatProvider)
	}

	embedder, err := newEmbedder(log, cfg)
	if err != nil {
		return Clients{}, err
	}

	store, err := newVectorStore(ctx, log, cfg, embedder.Dimensions())
	if err != nil {
		return Clients{}, err
	}
	if store != nil {
		store = instrumentVectorStore(cfg.VectorProvider, store, metrics)
	} else {
		log.Warn("No vector index configured; vector sync and search are disabled", "vector_provider", cfg.VectorProvider)
	}

	var cache redis.Cache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		c, err := redis.NewCache(log, redis.CacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	}

	return Clients{
		Provider:    provider,
		Embedder:    embedder,
		VectorStore: store,
		Cache:       cache,
	}, nil
}

// newChatProvider returns nil without error when the selected provider has no API key.
func newChatProvider(ctx context.Context, log *logger.Logger, cfg Config) (llm.Provider, error) {
	switch cfg.ChatProvider {
	case "", "openai":
		oc := openai.ConfigFromEnv()
		if oc.APIKey == "" {
			return nil, nil
		}
		return openaiProvider(log, oc)
	case "groq":
		gc := openai.GroqConfigFromEnv()
		if gc.APIKey == "" {
			return nil, nil
		}
		return openaiProvider(log, gc)
	case "gemini":
		gc := gemini.ConfigFromEnv()
		if gc.APIKey == "" {
			return nil, nil
		}
		p, err := gemini.NewProvider(ctx, log, gc)
		if err != nil {
			return nil, fmt.Errorf("init gemini provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown CHAT_PROVIDER %q", cfg.ChatProvider)
	}
}

func openaiProvider(log *logger.Logger, oc openai.Config) (llm.Provider, error) {
	c, err := openai.NewClient(log, oc)
	if err != nil {
		return nil, fmt.Errorf("init %s client: %w", oc.Name, err)
	}
	return c, nil
}

func newEmbedder(log *logger.Logger, cfg Config) (embedding.Embedder, error) {
	switch cfg.EmbeddingsProvider {
	case "", "hash":
		return embedding.NewHashEmbedder(embedding.DefaultDimensions), nil
	case "openai":
		oc := openai.ConfigFromEnv()
		if oc.APIKey == "" {
			return nil, fmt.Errorf("EMBEDDINGS_PROVIDER=openai requires OPENAI_API_KEY")
		}
		c, err := openai.NewClient(log, oc)
		if err != nil {
			return nil, fmt.Errorf("init openai embeddings client: %w", err)
		}
		return openai.NewEmbedder(c, embedding.DefaultDimensions), nil
	default:
		return nil, fmt.Errorf("unknown EMBEDDINGS_PROVIDER %q", cfg.EmbeddingsProvider)
	}
}

// newVectorStore returns nil without error when the selected provider is not configured.
func newVectorStore(ctx context.Context, log *logger.Logger, cfg Config, dims int) (pinecone.VectorStore, error) {
	switch cfg.VectorProvider {
	case "", "pinecone":
		if strings.TrimSpace(cfg.PineconeAPIKey) == "" {
			return nil, nil
		}
		pc, err := pinecone.New(log, pinecone.Config{APIKey: cfg.PineconeAPIKey})
		if err != nil {
			return nil, fmt.Errorf("init pinecone client: %w", err)
		}
		vs, err := pinecone.NewVectorStore(ctx, log, pc, pinecone.StoreConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("init pinecone vector store: %w", err)
		}
		return vs, nil
	case "qdrant":
		if strings.TrimSpace(cfg.QdrantURL) == "" {
			return nil, nil
		}
		qc := qdrant.ConfigFromEnv()
		qc.VectorDim = dims
		vs, err := qdrant.NewVectorStore(ctx, log, qc)
		if err != nil {
			return nil, fmt.Errorf("init qdrant vector store: %w", err)
		}
		return vs, nil
	default:
		return nil, fmt.Errorf("unknown VECTOR_PROVIDER %q", cfg.VectorProvider)
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
