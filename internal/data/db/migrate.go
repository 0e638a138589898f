package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/zaryah/zaryah-backend/internal/domain"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureProfileIndexes adds the expression indexes gorm tags cannot express.
func EnsureProfileIndexes(db *gorm.DB) error {
	// Case-insensitive name lookups from the chatbot tools.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_profile_lower_name
		ON profile (lower(name));
	`).Error; err != nil {
		return fmt.Errorf("create idx_profile_lower_name: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_message_receiver_created_at
		ON message (receiver_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_message_receiver_created_at: %w", err)
	}

	return nil
}

// AutoMigrate runs table and index migrations against db.
func AutoMigrate(db *gorm.DB, log *logger.Logger) error {
	if log != nil {
		log.Info("Auto migrating tables...")
	}
	if err := AutoMigrateAll(db); err != nil {
		if log != nil {
			log.Error("Auto migration failed", "error", err)
		}
		return err
	}
	if err := EnsureProfileIndexes(db); err != nil {
		if log != nil {
			log.Error("Profile index migration failed", "error", err)
		}
		return err
	}
	return nil
}
