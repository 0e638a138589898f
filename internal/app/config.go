package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/zaryah/zaryah-backend/internal/platform/envutil"
	"github.com/zaryah/zaryah-backend/internal/platform/llm"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
	"github.com/zaryah/zaryah-backend/internal/services"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Port string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	DBDriver   string
	SQLitePath string

	ChatProvider       string
	MaxToolRounds      int
	Resilience         llm.ResilienceConfig
	EmbeddingsProvider string

	VectorProvider string
	PineconeAPIKey string
	QdrantURL      string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	StatsCacheTTL  time.Duration

	CORSOrigins      []string
	TraceServiceName string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:           envutil.String("PORT", "3000"),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", services.DefaultAccessTTL),

		DBDriver:   strings.ToLower(envutil.String("DB_DRIVER", "postgres")),
		SQLitePath: envutil.String("SQLITE_PATH", "zaryah.db"),

		ChatProvider:  strings.ToLower(envutil.String("CHAT_PROVIDER", "openai")),
		MaxToolRounds: envutil.Int("CHATBOT_MAX_TOOL_ROUNDS", 5),
		Resilience: llm.ResilienceConfig{
			MaxRetries:     envutil.Int("LLM_MAX_RETRIES", 2),
			InitialBackoff: 500 * time.Millisecond,
			MaxFailures:    envutil.Int("LLM_BREAKER_FAILURES", 5),
			ResetInterval:  60 * time.Second,
			CallTimeout:    envutil.Seconds("LLM_TIMEOUT_SECONDS", 60*time.Second),
		},
		EmbeddingsProvider: strings.ToLower(envutil.String("EMBEDDINGS_PROVIDER", "hash")),

		VectorProvider: strings.ToLower(envutil.String("VECTOR_PROVIDER", "pinecone")),
		PineconeAPIKey: envutil.String("PINECONE_API_KEY", ""),
		QdrantURL:      envutil.String("QDRANT_URL", ""),
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		RedisPassword:  envutil.String("REDIS_PASSWORD", ""),
		RedisDB:        envutil.Int("REDIS_DB", 0),
		StatsCacheTTL:  envutil.Seconds("STATS_CACHE_TTL", 60*time.Second),

		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
	}
	if envutil.Bool("OTEL_ENABLED", false) {
		cfg.TraceServiceName = envutil.String("OTEL_SERVICE_NAME", "zaryah-api")
	}

	if log != nil {
		if cfg.JWTSecretKey == defaultJWTSecret {
			log.Warn("JWT_SECRET_KEY not set; using the development default")
		}
		log.Info("Configuration loaded",
			"port", cfg.Port,
			"db_driver", cfg.DBDriver,
			"chat_provider", cfg.ChatProvider,
			"embeddings_provider", cfg.EmbeddingsProvider,
			"max_tool_rounds", cfg.MaxToolRounds,
			"vector_provider", cfg.VectorProvider,
			"stats_cache", cfg.RedisAddr != "",
		)
	}
	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", strings.TrimPrefix(c.Port, ":"))
}
