package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/zaryah/zaryah-backend/internal/http/handlers"
	httpMW "github.com/zaryah/zaryah-backend/internal/http/middleware"
	"github.com/zaryah/zaryah-backend/internal/observability"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// TraceServiceName enables otelgin spans when set.
	TraceServiceName string
	CORSOrigins      []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	ChatbotHandler *httpH.ChatbotHandler
	MessageHandler *httpH.MessageHandler
	VectorHandler  *httpH.VectorHandler
	StatsHandler   *httpH.StatsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceServiceName != "" {
		r.Use(otelgin.Middleware(cfg.TraceServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/signup", cfg.AuthHandler.Signup)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/users", cfg.UserHandler.ListUsers)
			protected.GET("/users/:identifier", cfg.UserHandler.GetUser)
		}

		// Chatbot
		if cfg.ChatbotHandler != nil {
			protected.POST("/chatbot", cfg.ChatbotHandler.Ask)
		}

		// Messages
		if cfg.MessageHandler != nil {
			protected.POST("/messages", cfg.MessageHandler.Send)
			protected.GET("/messages", cfg.MessageHandler.Inbox)
			protected.PATCH("/messages/:id/read", cfg.MessageHandler.MarkRead)
		}

		// Vector index
		if cfg.VectorHandler != nil {
			protected.POST("/sync-to-pinecone", cfg.VectorHandler.SyncAll)
			protected.GET("/search-users", cfg.VectorHandler.SearchUsers)
		}

		// Stats
		if cfg.StatsHandler != nil {
			protected.GET("/user-stats", cfg.StatsHandler.UserStats)
		}
	}

	return r
}
