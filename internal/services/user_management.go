package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
	"github.com/Hazher89/driftpro-admin-complete/internal/security"
)

// userManagementService implements UserManagementService
type userManagementService struct {
	logger      *logger.Logger
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	authSvc     AuthenticationService
	validation  *models.ValidationService
	passwords   *security.PasswordValidator
	cache       *CacheService
}

// NewUserManagementService creates a new user management service
func NewUserManagementService(
	logger *logger.Logger,
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	authSvc AuthenticationService,
	validation *models.ValidationService,
	passwords *security.PasswordValidator,
	cache *CacheService,
) UserManagementService {
	return &userManagementService{
		logger:      logger,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		authSvc:     authSvc,
		validation:  validation,
		passwords:   passwords,
		cache:       cache,
	}
}

// CreateUser creates a new user with the specified password
func (s *userManagementService) CreateUser(ctx context.Context, user *models.User, password string) error {
	s.logger.WithField("email", user.Email).
		WithField("company_id", user.CompanyID).
		Info("Creating user")

	if err := s.validation.ValidateStruct(user); err != nil {
		return NewValidationError("", err.Error())
	}
	if err := s.passwords.ValidatePassword(password); err != nil {
		return NewValidationError("password", err.Error())
	}

	// The tenant must exist before anyone can belong to it
	if _, err := s.companyRepo.GetByID(ctx, user.CompanyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return NewTransportError("create user", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return ErrUserAlreadyExists
	}

	hashed, err := s.authSvc.HashPassword(password)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		return err
	}
	user.PasswordHash = hashed
	user.IsActive = true

	if err := s.userRepo.Create(ctx, user); err != nil {
		return NewTransportError("create user", err)
	}

	s.invalidateDashboard(ctx, user.CompanyID)
	s.logger.WithUser(user.ID).Info("User created")
	return nil
}

// GetUser retrieves a user by ID
func (s *userManagementService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, NewTransportError("get user", err)
	}
	return user, nil
}

// GetUsersByCompany retrieves all users in a company
func (s *userManagementService) GetUsersByCompany(ctx context.Context, companyID string) ([]*models.User, error) {
	users, err := s.userRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, NewTransportError("list users", err)
	}
	return users, nil
}

// UpdateUser updates an existing user. Concurrency is last-write-wins.
func (s *userManagementService) UpdateUser(ctx context.Context, user *models.User) error {
	s.logger.WithUser(user.ID).Info("Updating user")

	if err := s.validation.ValidateStruct(user); err != nil {
		return NewValidationError("", err.Error())
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return NewTransportError("update user", err)
	}

	s.invalidateUser(ctx, user)
	return nil
}

// DeleteUser soft deletes a user. Deleting an id that is already gone
// succeeds, so a repeated delete never surfaces an error.
func (s *userManagementService) DeleteUser(ctx context.Context, id string) error {
	s.logger.WithUser(id).Info("Deleting user")

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete user", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewTransportError("delete user", err)
	}

	s.invalidateUser(ctx, user)
	return nil
}

// ChangePassword changes a user's password
func (s *userManagementService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	s.logger.WithUser(userID).Info("Changing user password")

	if err := s.passwords.ValidatePassword(newPassword); err != nil {
		return NewValidationError("password", err.Error())
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := s.authSvc.HashPassword(newPassword)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		return err
	}

	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return NewTransportError("change password", err)
	}
	return nil
}

// DeactivateUser deactivates a user account. Deactivated users cannot log in
// and existing sessions are rejected on the next request.
func (s *userManagementService) DeactivateUser(ctx context.Context, userID string) error {
	s.logger.WithUser(userID).Info("Deactivating user")

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return NewTransportError("deactivate user", err)
	}

	s.invalidateUser(ctx, user)
	return nil
}

func (s *userManagementService) invalidateUser(ctx context.Context, user *models.User) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BuildUserKey(user.ID))
	s.invalidateDashboard(ctx, user.CompanyID)
}

func (s *userManagementService) invalidateDashboard(ctx context.Context, companyID string) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.BuildDashboardKey(companyID))
}
