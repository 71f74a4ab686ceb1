package database

import (
	"fmt"

	"github.com/KatanaSword/portfolio/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectImage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
