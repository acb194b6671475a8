package database

import (
	"fmt"

	"gorm.io/gorm"

	"tasknest/internal/infrastructure/database/entities"
)

// Migrate applies the schema for all entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Task{},
		&entities.Conversation{},
		&entities.Message{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
