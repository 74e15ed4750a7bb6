package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// deviationService implements DeviationService
type deviationService struct {
	logger        *logger.Logger
	deviationRepo repositories.DeviationRepository
	companySvc    CompanyService
	validation    *models.ValidationService
	cache         *CacheService
}

// NewDeviationService creates a new deviation service
func NewDeviationService(
	logger *logger.Logger,
	deviationRepo repositories.DeviationRepository,
	companySvc CompanyService,
	validation *models.ValidationService,
	cache *CacheService,
) DeviationService {
	return &deviationService{
		logger:        logger,
		deviationRepo: deviationRepo,
		companySvc:    companySvc,
		validation:    validation,
		cache:         cache,
	}
}

// CreateDeviation creates a new deviation in open status. The company must
// have deviation reporting enabled.
func (s *deviationService) CreateDeviation(ctx context.Context, deviation *models.Deviation) error {
	s.logger.WithCompany(deviation.CompanyID).
		WithField("severity", deviation.Severity).
		Info("Creating deviation")

	company, err := s.companySvc.GetCompany(ctx, deviation.CompanyID)
	if err != nil {
		return err
	}
	if !company.Settings.EnableDeviationReporting {
		return ErrFeatureDisabled
	}

	deviation.Status = models.DeviationStatusOpen

	if err := s.validation.ValidateStruct(deviation); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.deviationRepo.Create(ctx, deviation); err != nil {
		return NewTransportError("create deviation", err)
	}

	s.invalidateDashboard(ctx, deviation.CompanyID)
	return nil
}

// GetDeviation retrieves a deviation by ID
func (s *deviationService) GetDeviation(ctx context.Context, id string) (*models.Deviation, error) {
	deviation, err := s.deviationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviationNotFound
		}
		return nil, NewTransportError("get deviation", err)
	}
	return deviation, nil
}

// GetDeviationsByCompany retrieves all deviations in a company
func (s *deviationService) GetDeviationsByCompany(ctx context.Context, companyID string) ([]*models.Deviation, error) {
	deviations, err := s.deviationRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, NewTransportError("list deviations", err)
	}
	return deviations, nil
}

// TransitionDeviation moves a deviation forward in its lifecycle. Moving
// backwards or re-opening a closed deviation is rejected.
func (s *deviationService) TransitionDeviation(ctx context.Context, id, status string) (*models.Deviation, error) {
	deviation, err := s.GetDeviation(ctx, id)
	if err != nil {
		return nil, err
	}

	if !deviation.CanTransitionTo(status) {
		s.logger.WithCompany(deviation.CompanyID).
			WithField("deviation_id", id).
			WithField("from", deviation.Status).
			WithField("to", status).
			Warn("Rejected deviation transition")
		return nil, ErrInvalidTransition
	}

	deviation.Status = status
	if err := s.deviationRepo.Update(ctx, deviation); err != nil {
		return nil, NewTransportError("transition deviation", err)
	}

	s.invalidateDashboard(ctx, deviation.CompanyID)
	return deviation, nil
}

// UpdateDeviation updates the descriptive fields of a deviation. Status
// changes go through TransitionDeviation.
func (s *deviationService) UpdateDeviation(ctx context.Context, deviation *models.Deviation) error {
	current, err := s.GetDeviation(ctx, deviation.ID)
	if err != nil {
		return err
	}
	deviation.Status = current.Status

	if err := s.validation.ValidateStruct(deviation); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.deviationRepo.Update(ctx, deviation); err != nil {
		return NewTransportError("update deviation", err)
	}
	return nil
}

// DeleteDeviation soft deletes a deviation. Deleting a missing id succeeds.
func (s *deviationService) DeleteDeviation(ctx context.Context, id string) error {
	deviation, err := s.deviationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete deviation", err)
	}

	if err := s.deviationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete deviation", err)
	}

	s.invalidateDashboard(ctx, deviation.CompanyID)
	return nil
}

func (s *deviationService) invalidateDashboard(ctx context.Context, companyID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BuildDashboardKey(companyID))
}
