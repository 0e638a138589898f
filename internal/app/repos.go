package app

import (
	"gorm.io/gorm"

	"github.com/zaryah/zaryah-backend/internal/data/repos"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type Repos struct {
	User    repos.UserRepo
	Message repos.MessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:    repos.NewUserRepo(db, log),
		Message: repos.NewMessageRepo(db, log),
	}
}
