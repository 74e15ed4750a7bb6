package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// companyService implements CompanyService
type companyService struct {
	logger         *logger.Logger
	companyRepo    repositories.CompanyRepository
	invitationRepo repositories.InvitationRepository
	validation     *models.ValidationService
	cache          *CacheService
}

// NewCompanyService creates a new company service
func NewCompanyService(
	logger *logger.Logger,
	companyRepo repositories.CompanyRepository,
	invitationRepo repositories.InvitationRepository,
	validation *models.ValidationService,
	cache *CacheService,
) CompanyService {
	return &companyService{
		logger:         logger,
		companyRepo:    companyRepo,
		invitationRepo: invitationRepo,
		validation:     validation,
		cache:          cache,
	}
}

// CreateCompany creates a tenant together with the invitation record for its
// first administrator. The invitation email is dispatched asynchronously by
// the invitation worker.
func (s *companyService) CreateCompany(ctx context.Context, company *models.Company, adminEmail, adminName string) error {
	s.logger.WithField("company_name", company.Name).Info("Creating company")

	if company.Settings.MaxFileSizeMB == 0 {
		company.Settings = models.DefaultCompanySettings()
	}
	if company.Industry == "" {
		company.Industry = "Generell"
	}

	if err := s.validation.ValidateStruct(company); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return NewTransportError("create company", err)
	}

	if adminEmail != "" {
		invitation := &models.Invitation{
			CompanyID:      company.ID,
			CompanyName:    company.Name,
			AdminEmail:     adminEmail,
			AdminName:      adminName,
			InvitationLink: fmt.Sprintf("https://admin.driftpro.no/invite/%s", company.ID),
			ExpiresAt:      time.Now().Add(7 * 24 * time.Hour),
		}
		if err := s.invitationRepo.Create(ctx, invitation); err != nil {
			// The company exists; a failed invitation only delays onboarding
			s.logger.WithCompany(company.ID).
				WithError(err).Warn("Failed to create admin invitation")
		}
	}

	s.logger.WithCompany(company.ID).Info("Company created")
	return nil
}

// GetCompany retrieves a company by ID, served from cache when possible
func (s *companyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	if s.cache.Enabled() {
		var cached models.Company
		if err := s.cache.Get(ctx, s.cache.BuildCompanyKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, NewTransportError("get company", err)
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, s.cache.BuildCompanyKey(id), company, s.cache.CompanyTTL())
	}

	return company, nil
}

// GetAllCompanies retrieves every tenant
func (s *companyService) GetAllCompanies(ctx context.Context) ([]*models.Company, error) {
	companies, err := s.companyRepo.GetAll(ctx)
	if err != nil {
		return nil, NewTransportError("list companies", err)
	}
	return companies, nil
}

// SearchCompanies filters companies by case-insensitive name substring and
// exact industry. Empty arguments match everything.
func (s *companyService) SearchCompanies(ctx context.Context, nameQuery, industry string) ([]*models.Company, error) {
	var companies []*models.Company
	var err error

	if industry != "" {
		companies, err = s.companyRepo.GetByIndustry(ctx, industry)
	} else {
		companies, err = s.companyRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, NewTransportError("search companies", err)
	}

	if nameQuery == "" {
		return companies, nil
	}

	needle := strings.ToLower(nameQuery)
	matched := make([]*models.Company, 0, len(companies))
	for _, company := range companies {
		if strings.Contains(strings.ToLower(company.Name), needle) {
			matched = append(matched, company)
		}
	}
	return matched, nil
}

// UpdateCompany updates a tenant record and invalidates its cache entry
func (s *companyService) UpdateCompany(ctx context.Context, company *models.Company) error {
	s.logger.WithCompany(company.ID).Info("Updating company")

	if err := s.validation.ValidateStruct(company); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return NewTransportError("update company", err)
	}

	s.invalidate(ctx, company.ID)
	return nil
}

// UpdateSettings replaces the feature toggles of a tenant
func (s *companyService) UpdateSettings(ctx context.Context, companyID string, settings models.CompanySettings) error {
	company, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}

	company.Settings = settings
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return NewTransportError("update company settings", err)
	}

	s.invalidate(ctx, companyID)
	return nil
}

// DeleteCompany soft deletes a tenant. Deleting a missing tenant succeeds so
// the operation can be retried safely.
func (s *companyService) DeleteCompany(ctx context.Context, id string) error {
	s.logger.WithCompany(id).Info("Deleting company")

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete company", err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *companyService) invalidate(ctx context.Context, companyID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BuildCompanyKey(companyID))
	_ = s.cache.Delete(ctx, s.cache.BuildDashboardKey(companyID))
}
