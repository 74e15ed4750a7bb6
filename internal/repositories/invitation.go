package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// invitationRepository implements InvitationRepository
type invitationRepository struct {
	db *database.Connection
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *database.Connection) InvitationRepository {
	return &invitationRepository{db: db}
}

// Create persists an invitation
func (r *invitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// GetByID retrieves an invitation by ID
func (r *invitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetUnsent retrieves invitations whose email has not been dispatched yet,
// oldest first so the dispatch worker drains the backlog in order
func (r *invitationRepository) GetUnsent(ctx context.Context, limit int) ([]*models.Invitation, error) {
	var invitations []*models.Invitation
	query := r.db.WithContext(ctx).
		Where("email_sent = ?", false).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&invitations).Error
	return invitations, err
}

// Update updates an existing invitation
func (r *invitationRepository) Update(ctx context.Context, invitation *models.Invitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}
