package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// documentRepository implements DocumentRepository
type documentRepository struct {
	db *database.Connection
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.Connection) DocumentRepository {
	return &documentRepository{db: db}
}

// Create creates a new document record
func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

// GetByID retrieves a document by ID
func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).First(&document, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// GetByCompany retrieves all documents in a company, newest first
func (r *documentRepository) GetByCompany(ctx context.Context, companyID string) ([]*models.Document, error) {
	var documents []*models.Document
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

// Delete soft deletes a document record
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}
