package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// deviationRepository implements DeviationRepository
type deviationRepository struct {
	db *database.Connection
}

// NewDeviationRepository creates a new deviation repository
func NewDeviationRepository(db *database.Connection) DeviationRepository {
	return &deviationRepository{db: db}
}

// Create creates a new deviation
func (r *deviationRepository) Create(ctx context.Context, deviation *models.Deviation) error {
	return r.db.WithContext(ctx).Create(deviation).Error
}

// GetByID retrieves a deviation by ID
func (r *deviationRepository) GetByID(ctx context.Context, id string) (*models.Deviation, error) {
	var deviation models.Deviation
	err := r.db.WithContext(ctx).First(&deviation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deviation, nil
}

// GetByCompany retrieves all deviations in a company, newest first
func (r *deviationRepository) GetByCompany(ctx context.Context, companyID string) ([]*models.Deviation, error) {
	var deviations []*models.Deviation
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&deviations).Error
	return deviations, err
}

// CountUnresolvedByCompany counts deviations that are open or in progress
func (r *deviationRepository) CountUnresolvedByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Deviation{}).
		Where("company_id = ? AND status IN ?", companyID,
			[]string{models.DeviationStatusOpen, models.DeviationStatusInProgress}).
		Count(&count).Error
	return count, err
}

// Update updates an existing deviation
func (r *deviationRepository) Update(ctx context.Context, deviation *models.Deviation) error {
	return r.db.WithContext(ctx).Save(deviation).Error
}

// Delete soft deletes a deviation
func (r *deviationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Deviation{}, "id = ?", id).Error
}
