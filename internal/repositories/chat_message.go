package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// chatMessageRepository implements ChatMessageRepository
type chatMessageRepository struct {
	db *database.Connection
}

// NewChatMessageRepository creates a new chat message repository
func NewChatMessageRepository(db *database.Connection) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Create persists a chat message
func (r *chatMessageRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetByCompany retrieves chat messages for a company, newest first
func (r *chatMessageRepository) GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&messages).Error
	return messages, err
}
