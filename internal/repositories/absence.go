package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// absenceRepository implements AbsenceRepository
type absenceRepository struct {
	db *database.Connection
}

// NewAbsenceRepository creates a new absence repository
func NewAbsenceRepository(db *database.Connection) AbsenceRepository {
	return &absenceRepository{db: db}
}

// Create creates a new absence
func (r *absenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	return r.db.WithContext(ctx).Create(absence).Error
}

// GetByID retrieves an absence by ID
func (r *absenceRepository) GetByID(ctx context.Context, id string) (*models.Absence, error) {
	var absence models.Absence
	err := r.db.WithContext(ctx).First(&absence, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &absence, nil
}

// GetByCompany retrieves all absences in a company, newest first
func (r *absenceRepository) GetByCompany(ctx context.Context, companyID string) ([]*models.Absence, error) {
	var absences []*models.Absence
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&absences).Error
	return absences, err
}

// GetByEmployee retrieves absences for one employee within a company
func (r *absenceRepository) GetByEmployee(ctx context.Context, companyID, employeeID string) ([]*models.Absence, error) {
	var absences []*models.Absence
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("created_at DESC").
		Find(&absences).Error
	return absences, err
}

// CountPendingByCompany counts absences still awaiting a decision
func (r *absenceRepository) CountPendingByCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Absence{}).
		Where("company_id = ? AND status = ?", companyID, models.AbsenceStatusPending).
		Count(&count).Error
	return count, err
}

// Update updates an existing absence
func (r *absenceRepository) Update(ctx context.Context, absence *models.Absence) error {
	return r.db.WithContext(ctx).Save(absence).Error
}

// Delete soft deletes an absence
func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Absence{}, "id = ?", id).Error
}
