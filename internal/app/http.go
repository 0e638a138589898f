package app

import (
	httpserver "github.com/zaryah/zaryah-backend/internal/http"
	httpH "github.com/zaryah/zaryah-backend/internal/http/handlers"
	httpMW "github.com/zaryah/zaryah-backend/internal/http/middleware"
	"github.com/zaryah/zaryah-backend/internal/observability"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type Handlers struct {
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Chatbot *httpH.ChatbotHandler
	Message *httpH.MessageHandler
	Vector  *httpH.VectorHandler
	Stats   *httpH.StatsHandler
	Health  *httpH.HealthHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:    httpH.NewAuthHandler(serviceset.Auth),
		User:    httpH.NewUserHandler(serviceset.User),
		Chatbot: httpH.NewChatbotHandler(serviceset.Chatbot),
		Message: httpH.NewMessageHandler(serviceset.Message),
		Vector:  httpH.NewVectorHandler(serviceset.ProfileIndex),
		Stats:   httpH.NewStatsHandler(serviceset.UserStats),
		Health:  httpH.NewHealthHandler(),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func routerConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) httpserver.RouterConfig {
	return httpserver.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		TraceServiceName: cfg.TraceServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		AuthHandler:      h.Auth,
		AuthMiddleware:   mw.Auth,
		UserHandler:      h.User,
		ChatbotHandler:   h.Chatbot,
		MessageHandler:   h.Message,
		VectorHandler:    h.Vector,
		StatsHandler:     h.Stats,
		HealthHandler:    h.Health,
	}
}
