package repositories

import (
	"context"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// CompanyRepository defines the interface for company (tenant) data operations
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetAll(ctx context.Context) ([]*models.Company, error)
	GetByIndustry(ctx context.Context, industry string) ([]*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCompany(ctx context.Context, companyID string) ([]*models.User, error)
	GetActiveByCompany(ctx context.Context, companyID string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// DepartmentRepository defines the interface for department data operations
type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id string) (*models.Department, error)
	GetByCompany(ctx context.Context, companyID string) ([]*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id string) error
}

// AbsenceRepository defines the interface for absence data operations
type AbsenceRepository interface {
	Create(ctx context.Context, absence *models.Absence) error
	GetByID(ctx context.Context, id string) (*models.Absence, error)
	GetByCompany(ctx context.Context, companyID string) ([]*models.Absence, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) ([]*models.Absence, error)
	CountPendingByCompany(ctx context.Context, companyID string) (int64, error)
	Update(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) error
}

// DeviationRepository defines the interface for deviation data operations
type DeviationRepository interface {
	Create(ctx context.Context, deviation *models.Deviation) error
	GetByID(ctx context.Context, id string) (*models.Deviation, error)
	GetByCompany(ctx context.Context, companyID string) ([]*models.Deviation, error)
	CountUnresolvedByCompany(ctx context.Context, companyID string) (int64, error)
	Update(ctx context.Context, deviation *models.Deviation) error
	Delete(ctx context.Context, id string) error
}

// TimeEntryRepository defines the interface for time-clock data operations.
// The log is append-only, so there are no update or delete methods.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.TimeEntry, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]*models.TimeEntry, error)
	GetSince(ctx context.Context, companyID string, since time.Time) ([]*models.TimeEntry, error)
	GetLatestByEmployee(ctx context.Context, companyID, employeeID string) (*models.TimeEntry, error)
}

// DocumentRepository defines the interface for document archive data operations
type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetByCompany(ctx context.Context, companyID string) ([]*models.Document, error)
	Delete(ctx context.Context, id string) error
}

// ChatMessageRepository defines the interface for chat message data operations
type ChatMessageRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.ChatMessage, error)
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	GetByUser(ctx context.Context, companyID, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// InvitationRepository defines the interface for invitation data operations
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	GetUnsent(ctx context.Context, limit int) ([]*models.Invitation, error)
	Update(ctx context.Context, invitation *models.Invitation) error
}

// AuditLogRepository defines the interface for audit log data operations
type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.AuditLog, error)
	GetByResource(ctx context.Context, resourceType, resourceID string, limit, offset int) ([]*models.AuditLog, error)
}
