package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// documentService implements DocumentService
type documentService struct {
	logger       *logger.Logger
	documentRepo repositories.DocumentRepository
	companySvc   CompanyService
	storage      StorageService
	validation   *models.ValidationService
}

// NewDocumentService creates a new document service
func NewDocumentService(
	logger *logger.Logger,
	documentRepo repositories.DocumentRepository,
	companySvc CompanyService,
	storage StorageService,
	validation *models.ValidationService,
) DocumentService {
	return &documentService{
		logger:       logger,
		documentRepo: documentRepo,
		companySvc:   companySvc,
		storage:      storage,
		validation:   validation,
	}
}

// UploadDocument stores the file in object storage and records it in the
// archive. The company must have the archive enabled and the file must pass
// its type and size policy.
func (s *documentService) UploadDocument(ctx context.Context, companyID, name, uploadedBy, contentType string, content io.Reader) (*models.Document, error) {
	company, err := s.companySvc.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.Settings.EnableDocumentArchive {
		return nil, ErrFeatureDisabled
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if !extensionAllowed(ext, company.Settings.AllowedFileTypes) {
		return nil, NewValidationError("name", fmt.Sprintf("file type %q is not allowed", ext))
	}

	maxBytes := int64(company.Settings.MaxFileSizeMB) * 1024 * 1024
	limited := io.LimitReader(content, maxBytes+1)

	path := fmt.Sprintf("%s/%s-%s", companyID, uuid.NewString(), filepath.Base(name))
	url, size, err := s.storage.Upload(ctx, path, contentType, limited)
	if err != nil {
		return nil, err
	}

	if size > maxBytes {
		_ = s.storage.Delete(ctx, path)
		return nil, NewValidationError("content", fmt.Sprintf("file exceeds the %d MB limit", company.Settings.MaxFileSizeMB))
	}

	document := &models.Document{
		CompanyID:   companyID,
		Name:        name,
		Path:        path,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  uploadedBy,
	}

	if err := s.validation.ValidateStruct(document); err != nil {
		_ = s.storage.Delete(ctx, path)
		return nil, NewValidationError("", err.Error())
	}

	if err := s.documentRepo.Create(ctx, document); err != nil {
		_ = s.storage.Delete(ctx, path)
		return nil, NewTransportError("create document", err)
	}

	s.logger.WithCompany(companyID).
		WithField("document_id", document.ID).
		WithField("size_bytes", size).
		Info("Document uploaded")

	return document, nil
}

// GetDocument retrieves a document record by ID
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, NewTransportError("get document", err)
	}
	return document, nil
}

// GetDocumentsByCompany retrieves all documents in a company
func (s *documentService) GetDocumentsByCompany(ctx context.Context, companyID string) ([]*models.Document, error) {
	documents, err := s.documentRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, NewTransportError("list documents", err)
	}
	return documents, nil
}

// DeleteDocument removes the record and the stored file. Deleting a missing
// id succeeds.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete document", err)
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete document", err)
	}

	if err := s.storage.Delete(ctx, document.Path); err != nil {
		// Record is gone; an orphaned file is a cleanup concern, not a
		// failed delete
		s.logger.WithCompany(document.CompanyID).
			WithField("path", document.Path).
			WithError(err).Warn("Failed to remove stored file")
	}

	return nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
