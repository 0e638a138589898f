package app

import (
	"github.com/zaryah/zaryah-backend/internal/modules/chatbot"
	"github.com/zaryah/zaryah-backend/internal/modules/chatbot/steps"
	"github.com/zaryah/zaryah-backend/internal/observability"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
	"github.com/zaryah/zaryah-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Message      services.MessageService
	Chatbot      services.ChatbotService
	ProfileIndex services.ProfileIndexService
	UserStats    services.UserStatsService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	profileIndex := services.NewProfileIndexService(log, reposet.User, clients.Embedder, clients.VectorStore, metrics)

	// New profiles are only indexed when a vector store is configured.
	var indexer services.ProfileIndexer
	if clients.VectorStore != nil {
		indexer = profileIndex
	}

	var statsCache services.StatsCache
	if clients.Cache != nil {
		statsCache = clients.Cache
	}

	return Services{
		Auth:    services.NewAuthService(log, reposet.User, indexer, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:    services.NewUserService(log, reposet.User),
		Message: services.NewMessageService(log, reposet.User, reposet.Message),
		Chatbot: services.NewChatbotService(log, chatbot.UsecasesDeps{
			Provider:      clients.Provider,
			Users:         reposet.User,
			Messages:      reposet.Message,
			Mentions:      steps.SubstringMentionDetector{},
			MaxToolRounds: cfg.MaxToolRounds,
		}, metrics),
		ProfileIndex: profileIndex,
		UserStats:    services.NewUserStatsService(log, reposet.User, statsCache, cfg.StatsCacheTTL),
	}
}
