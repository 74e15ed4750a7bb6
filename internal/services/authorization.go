package services

import (
	"context"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// authorizationService implements AuthorizationService
type authorizationService struct {
	logger    *logger.Logger
	auditRepo repositories.AuditLogRepository
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(
	logger *logger.Logger,
	auditRepo repositories.AuditLogRepository,
) AuthorizationService {
	return &authorizationService{
		logger:    logger,
		auditRepo: auditRepo,
	}
}

// CanAccessCompany checks if a user can read data belonging to a company.
// Users only ever see their own tenant.
func (s *authorizationService) CanAccessCompany(user *models.User, companyID string) bool {
	if user == nil || !user.IsActive || companyID == "" {
		return false
	}
	return user.CompanyID == companyID
}

// CanManageCompany checks if a user can modify data belonging to a company.
// Admins manage everything in their tenant, managers manage everything but
// the tenant record itself.
func (s *authorizationService) CanManageCompany(user *models.User, companyID string) bool {
	if !s.CanAccessCompany(user, companyID) {
		return false
	}
	return user.IsAdmin() || user.IsManager()
}

// RequireCompanyAccess verifies the session may touch the given tenant and
// records the violation when it may not
func (s *authorizationService) RequireCompanyAccess(ctx context.Context, session *SessionContext, companyID string) error {
	if session == nil || !session.IsAuthenticated() {
		return ErrUnauthorized
	}
	if !s.CanAccessCompany(session.CurrentUser, companyID) {
		s.LogAccessDenied(ctx, session.CurrentUser, "access", "company", companyID)
		return ErrUnauthorized
	}
	return nil
}

// LogAccessDenied records a rejected access attempt in the audit log
func (s *authorizationService) LogAccessDenied(ctx context.Context, user *models.User, action, resourceType, resourceID string) {
	userID := "anonymous"
	companyID := ""
	if user != nil {
		userID = user.ID
		companyID = user.CompanyID
	}

	s.logger.WithField("user_id", userID).
		WithField("company_id", companyID).
		WithField("action", action).
		WithField("resource_type", resourceType).
		WithField("resource_id", resourceID).
		Warn("Access denied")

	entry := &models.AuditLog{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       models.AuditActionAccessDenied,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      action,
		Timestamp:    time.Now(),
	}

	// Audit writes never fail the request
	_ = s.auditRepo.Create(ctx, entry)
}
