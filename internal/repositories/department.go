package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// departmentRepository implements DepartmentRepository
type departmentRepository struct {
	db *database.Connection
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *database.Connection) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create creates a new department
func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

// GetByID retrieves a department by ID
func (r *departmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// GetByCompany retrieves all departments in a company ordered by name
func (r *departmentRepository) GetByCompany(ctx context.Context, companyID string) ([]*models.Department, error) {
	var departments []*models.Department
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name").
		Find(&departments).Error
	return departments, err
}

// Update updates an existing department
func (r *departmentRepository) Update(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Save(department).Error
}

// Delete soft deletes a department
func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id).Error
}
