package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/domain"
)

// AutoMigrateAll creates missing tables, indexes and constraints. It never
// drops or rewrites existing columns.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
