package repos

import (
	"gorm.io/gorm"

	"github.com/zaryah/zaryah-backend/internal/data/repos/message"
	"github.com/zaryah/zaryah-backend/internal/data/repos/user"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type MessageRepo = message.MessageRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return user.NewUserRepo(db, log)
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return message.NewMessageRepo(db, log)
}
