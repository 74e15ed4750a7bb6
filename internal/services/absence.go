package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// absenceService implements AbsenceService
type absenceService struct {
	logger      *logger.Logger
	absenceRepo repositories.AbsenceRepository
	validation  *models.ValidationService
	cache       *CacheService
}

// NewAbsenceService creates a new absence service
func NewAbsenceService(
	logger *logger.Logger,
	absenceRepo repositories.AbsenceRepository,
	validation *models.ValidationService,
	cache *CacheService,
) AbsenceService {
	return &absenceService{
		logger:      logger,
		absenceRepo: absenceRepo,
		validation:  validation,
		cache:       cache,
	}
}

// CreateAbsence creates a new leave request in pending status
func (s *absenceService) CreateAbsence(ctx context.Context, absence *models.Absence) error {
	s.logger.WithCompany(absence.CompanyID).
		WithField("employee_id", absence.EmployeeID).
		Info("Creating absence")

	absence.Status = models.AbsenceStatusPending
	absence.ApprovedBy = ""
	absence.ApprovedAt = nil

	if err := s.validation.ValidateStruct(absence); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.absenceRepo.Create(ctx, absence); err != nil {
		return NewTransportError("create absence", err)
	}

	s.invalidateDashboard(ctx, absence.CompanyID)
	return nil
}

// GetAbsence retrieves an absence by ID
func (s *absenceService) GetAbsence(ctx context.Context, id string) (*models.Absence, error) {
	absence, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenceNotFound
		}
		return nil, NewTransportError("get absence", err)
	}
	return absence, nil
}

// GetAbsencesByCompany retrieves all absences in a company
func (s *absenceService) GetAbsencesByCompany(ctx context.Context, companyID string) ([]*models.Absence, error) {
	absences, err := s.absenceRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, NewTransportError("list absences", err)
	}
	return absences, nil
}

// GetAbsencesByEmployee retrieves the absences of a single employee
func (s *absenceService) GetAbsencesByEmployee(ctx context.Context, companyID, employeeID string) ([]*models.Absence, error) {
	absences, err := s.absenceRepo.GetByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, NewTransportError("list absences", err)
	}
	return absences, nil
}

// ApproveAbsence moves a pending absence to approved. The decision records
// who made it and when, and is terminal: a second decision is rejected.
func (s *absenceService) ApproveAbsence(ctx context.Context, id, approverID string) (*models.Absence, error) {
	return s.decide(ctx, id, approverID, models.AbsenceStatusApproved)
}

// RejectAbsence moves a pending absence to rejected. Terminal like approval.
func (s *absenceService) RejectAbsence(ctx context.Context, id, approverID string) (*models.Absence, error) {
	return s.decide(ctx, id, approverID, models.AbsenceStatusRejected)
}

func (s *absenceService) decide(ctx context.Context, id, approverID, status string) (*models.Absence, error) {
	absence, err := s.GetAbsence(ctx, id)
	if err != nil {
		return nil, err
	}

	if absence.IsTerminal() {
		s.logger.WithCompany(absence.CompanyID).
			WithField("absence_id", id).
			WithField("status", absence.Status).
			Warn("Decision on already decided absence rejected")
		return nil, ErrAbsenceDecided
	}

	now := time.Now()
	absence.Status = status
	absence.ApprovedBy = approverID
	absence.ApprovedAt = &now

	if err := s.absenceRepo.Update(ctx, absence); err != nil {
		return nil, NewTransportError("decide absence", err)
	}

	s.invalidateDashboard(ctx, absence.CompanyID)
	s.logger.WithCompany(absence.CompanyID).
		WithField("absence_id", id).
		WithField("status", status).
		Info("Absence decided")
	return absence, nil
}

// DeleteAbsence soft deletes an absence. Deleting a missing id succeeds.
func (s *absenceService) DeleteAbsence(ctx context.Context, id string) error {
	absence, err := s.absenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete absence", err)
	}

	if err := s.absenceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete absence", err)
	}

	s.invalidateDashboard(ctx, absence.CompanyID)
	return nil
}

func (s *absenceService) invalidateDashboard(ctx context.Context, companyID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BuildDashboardKey(companyID))
}
