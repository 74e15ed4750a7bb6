package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// departmentService implements DepartmentService
type departmentService struct {
	logger         *logger.Logger
	departmentRepo repositories.DepartmentRepository
	validation     *models.ValidationService
	cache          *CacheService
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	logger *logger.Logger,
	departmentRepo repositories.DepartmentRepository,
	validation *models.ValidationService,
	cache *CacheService,
) DepartmentService {
	return &departmentService{
		logger:         logger,
		departmentRepo: departmentRepo,
		validation:     validation,
		cache:          cache,
	}
}

// CreateDepartment creates a new department
func (s *departmentService) CreateDepartment(ctx context.Context, department *models.Department) error {
	s.logger.WithCompany(department.CompanyID).
		WithField("department_name", department.Name).
		Info("Creating department")

	if err := s.validation.ValidateStruct(department); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return NewTransportError("create department", err)
	}

	s.invalidateDashboard(ctx, department.CompanyID)
	return nil
}

// GetDepartment retrieves a department by ID
func (s *departmentService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, NewTransportError("get department", err)
	}
	return department, nil
}

// GetDepartmentsByCompany retrieves all departments in a company
func (s *departmentService) GetDepartmentsByCompany(ctx context.Context, companyID string) ([]*models.Department, error) {
	departments, err := s.departmentRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, NewTransportError("list departments", err)
	}
	return departments, nil
}

// UpdateDepartment updates an existing department
func (s *departmentService) UpdateDepartment(ctx context.Context, department *models.Department) error {
	s.logger.WithCompany(department.CompanyID).
		WithField("department_id", department.ID).
		Info("Updating department")

	if err := s.validation.ValidateStruct(department); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return NewTransportError("update department", err)
	}
	return nil
}

// DeleteDepartment soft deletes a department. Deleting a missing id succeeds.
func (s *departmentService) DeleteDepartment(ctx context.Context, id string) error {
	s.logger.WithField("department_id", id).Info("Deleting department")

	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete department", err)
	}

	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete department", err)
	}

	s.invalidateDashboard(ctx, department.CompanyID)
	return nil
}

func (s *departmentService) invalidateDashboard(ctx context.Context, companyID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BuildDashboardKey(companyID))
}
