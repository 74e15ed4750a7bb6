package database

import (
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// Migrator handles database migrations
type Migrator struct {
	db *Connection
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *Connection) *Migrator {
	return &Migrator{db: db}
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	return m.db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Department{},
		&models.Absence{},
		&models.Deviation{},
		&models.TimeEntry{},
		&models.Document{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Invitation{},
		&models.AuditLog{},
	)
}

// Down rolls back all migrations (for testing purposes)
func (m *Migrator) Down() error {
	return m.db.Migrator().DropTable(
		&models.AuditLog{},
		&models.Invitation{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.Document{},
		&models.TimeEntry{},
		&models.Deviation{},
		&models.Absence{},
		&models.Department{},
		&models.User{},
		&models.Company{},
	)
}
