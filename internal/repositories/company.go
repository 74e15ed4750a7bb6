package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// companyRepository implements CompanyRepository
type companyRepository struct {
	db *database.Connection
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *database.Connection) CompanyRepository {
	return &companyRepository{db: db}
}

// Create creates a new company
func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID retrieves a company by ID
func (r *companyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	company.Decode()
	return &company, nil
}

// GetAll retrieves all companies ordered by name
func (r *companyRepository) GetAll(ctx context.Context) ([]*models.Company, error) {
	var companies []*models.Company
	err := r.db.WithContext(ctx).Order("name").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	for _, company := range companies {
		company.Decode()
	}
	return companies, nil
}

// GetByIndustry retrieves active companies within an industry
func (r *companyRepository) GetByIndustry(ctx context.Context, industry string) ([]*models.Company, error) {
	var companies []*models.Company
	err := r.db.WithContext(ctx).
		Where("industry = ? AND is_active = ?", industry, true).
		Order("name").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	for _, company := range companies {
		company.Decode()
	}
	return companies, nil
}

// Update updates an existing company
func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Delete soft deletes a company
func (r *companyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id).Error
}
