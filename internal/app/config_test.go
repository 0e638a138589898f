package app

import (
	"context"
	"testing"
	"time"

	"github.com/zaryah/zaryah-backend/internal/platform/embedding"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, name := range []string{
		"PORT", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "DB_DRIVER", "CHAT_PROVIDER",
		"CHATBOT_MAX_TOOL_ROUNDS", "EMBEDDINGS_PROVIDER", "STATS_CACHE_TTL", "OTEL_ENABLED",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(name, "")
	}

	cfg := LoadConfig(logger.Nop())
	if cfg.Address() != ":3000" {
		t.Fatalf("Address()=%q, want :3000", cfg.Address())
	}
	if cfg.JWTSecretKey != defaultJWTSecret {
		t.Fatalf("JWTSecretKey=%q, want the development default", cfg.JWTSecretKey)
	}
	if cfg.AccessTokenTTL != 7*24*time.Hour {
		t.Fatalf("AccessTokenTTL=%v, want 168h", cfg.AccessTokenTTL)
	}
	if cfg.DBDriver != "postgres" || cfg.ChatProvider != "openai" || cfg.EmbeddingsProvider != "hash" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxToolRounds != 5 {
		t.Fatalf("MaxToolRounds=%d, want 5", cfg.MaxToolRounds)
	}
	if cfg.StatsCacheTTL != time.Minute {
		t.Fatalf("StatsCacheTTL=%v, want 1m", cfg.StatsCacheTTL)
	}
	if cfg.TraceServiceName != "" {
		t.Fatalf("TraceServiceName=%q, want empty with OTEL disabled", cfg.TraceServiceName)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("CORSOrigins=%v, want none", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CHAT_PROVIDER", "Groq")
	t.Setenv("CHATBOT_MAX_TOOL_ROUNDS", "3")
	t.Setenv("LLM_MAX_RETRIES", "0")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "zaryah-test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := LoadConfig(logger.Nop())
	if cfg.Address() != ":8080" {
		t.Fatalf("Address()=%q, want :8080", cfg.Address())
	}
	if cfg.DBDriver != "sqlite" || cfg.ChatProvider != "groq" {
		t.Fatalf("DBDriver=%q ChatProvider=%q, want lower-cased values", cfg.DBDriver, cfg.ChatProvider)
	}
	if cfg.MaxToolRounds != 3 || cfg.Resilience.MaxRetries != 0 {
		t.Fatalf("MaxToolRounds=%d MaxRetries=%d", cfg.MaxToolRounds, cfg.Resilience.MaxRetries)
	}
	if cfg.TraceServiceName != "zaryah-test" {
		t.Fatalf("TraceServiceName=%q, want zaryah-test", cfg.TraceServiceName)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins=%v", cfg.CORSOrigins)
	}
}

func TestNewChatProviderWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	for _, name := range []string{"openai", "groq", "gemini"} {
		p, err := newChatProvider(context.Background(), logger.Nop(), Config{ChatProvider: name})
		if err != nil {
			t.Fatalf("newChatProvider(%s): %v", name, err)
		}
		if p != nil {
			t.Fatalf("newChatProvider(%s)=%v, want nil without an API key", name, p)
		}
	}

	if _, err := newChatProvider(context.Background(), logger.Nop(), Config{ChatProvider: "claude"}); err == nil {
		t.Fatalf("newChatProvider(claude): expected unknown provider error")
	}
}

func TestNewEmbedder(t *testing.T) {
	e, err := newEmbedder(logger.Nop(), Config{EmbeddingsProvider: "hash"})
	if err != nil {
		t.Fatalf("newEmbedder(hash): %v", err)
	}
	if e.Dimensions() != embedding.DefaultDimensions {
		t.Fatalf("Dimensions()=%d, want %d", e.Dimensions(), embedding.DefaultDimensions)
	}

	t.Setenv("OPENAI_API_KEY", "")
	if _, err := newEmbedder(logger.Nop(), Config{EmbeddingsProvider: "openai"}); err == nil {
		t.Fatalf("newEmbedder(openai) without key: expected error")
	}
	if _, err := newEmbedder(logger.Nop(), Config{EmbeddingsProvider: "word2vec"}); err == nil {
		t.Fatalf("newEmbedder(word2vec): expected error")
	}
}

func TestNewVectorStoreUnconfigured(t *testing.T) {
	for _, provider := range []string{"pinecone", "qdrant"} {
		vs, err := newVectorStore(context.Background(), logger.Nop(), Config{VectorProvider: provider}, 8)
		if err != nil {
			t.Fatalf("newVectorStore(%s): %v", provider, err)
		}
		if vs != nil {
			t.Fatalf("newVectorStore(%s)=%v, want nil when unconfigured", provider, vs)
		}
	}
	if _, err := newVectorStore(context.Background(), logger.Nop(), Config{VectorProvider: "milvus"}, 8); err == nil {
		t.Fatalf("newVectorStore(milvus): expected unknown provider error")
	}
}
