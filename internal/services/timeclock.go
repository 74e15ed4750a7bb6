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

// timeClockService implements TimeClockService. The punch log is append-only:
// corrections are made by punching again, never by editing history.
type timeClockService struct {
	logger        *logger.Logger
	timeEntryRepo repositories.TimeEntryRepository
	userRepo      repositories.UserRepository
	cache         *CacheService
}

// NewTimeClockService creates a new time clock service
func NewTimeClockService(
	logger *logger.Logger,
	timeEntryRepo repositories.TimeEntryRepository,
	userRepo repositories.UserRepository,
	cache *CacheService,
) TimeClockService {
	return &timeClockService{
		logger:        logger,
		timeEntryRepo: timeEntryRepo,
		userRepo:      userRepo,
		cache:         cache,
	}
}

// ClockIn records a clock-in punch for an employee
func (s *timeClockService) ClockIn(ctx context.Context, companyID, employeeID, location, notes string) (*models.TimeEntry, error) {
	return s.punch(ctx, companyID, employeeID, models.TimeEntryClockIn, location, notes)
}

// ClockOut records a clock-out punch for an employee
func (s *timeClockService) ClockOut(ctx context.Context, companyID, employeeID, location, notes string) (*models.TimeEntry, error) {
	return s.punch(ctx, companyID, employeeID, models.TimeEntryClockOut, location, notes)
}

func (s *timeClockService) punch(ctx context.Context, companyID, employeeID, punchType, location, notes string) (*models.TimeEntry, error) {
	if companyID == "" {
		return nil, NewValidationError("company_id", "company is required")
	}
	if employeeID == "" {
		return nil, NewValidationError("employee_id", "employee is required")
	}

	employeeName := ""
	if user, err := s.userRepo.GetByID(ctx, employeeID); err == nil {
		if user.CompanyID != companyID {
			return nil, ErrUnauthorized
		}
		employeeName = user.FullName()
	}

	entry := &models.TimeEntry{
		CompanyID:    companyID,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Type:         punchType,
		Timestamp:    time.Now(),
		Location:     location,
		Notes:        notes,
	}

	if err := s.timeEntryRepo.Create(ctx, entry); err != nil {
		return nil, NewTransportError("record punch", err)
	}

	s.logger.WithCompany(companyID).
		WithField("employee_id", employeeID).
		WithField("punch_type", punchType).
		Info("Punch recorded")

	if s.cache.Enabled() {
		_ = s.cache.Delete(ctx, s.cache.BuildDashboardKey(companyID))
	}

	return entry, nil
}

// GetEntriesByCompany retrieves the punch log for a company, newest first
func (s *timeClockService) GetEntriesByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.TimeEntry, error) {
	entries, err := s.timeEntryRepo.GetByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, NewTransportError("list punches", err)
	}
	return entries, nil
}

// GetEntriesByEmployee retrieves the punch log for a single employee
func (s *timeClockService) GetEntriesByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]*models.TimeEntry, error) {
	entries, err := s.timeEntryRepo.GetByEmployee(ctx, companyID, employeeID, limit)
	if err != nil {
		return nil, NewTransportError("list punches", err)
	}
	return entries, nil
}

// IsClockedIn reports whether an employee's most recent punch is a clock-in.
// An employee with no punches at all is not clocked in.
func (s *timeClockService) IsClockedIn(ctx context.Context, companyID, employeeID string) (bool, error) {
	latest, err := s.timeEntryRepo.GetLatestByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewTransportError("clocked-in status", err)
	}
	return latest.IsClockIn(), nil
}
