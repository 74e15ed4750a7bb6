package services

import (
	"context"
	"io"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// AuthenticationService handles login, logout and password flows
type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*SessionContext, error)
	Logout(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, email string) error
	SessionFromToken(ctx context.Context, token string) (*SessionContext, error)
	GenerateJWT(ctx context.Context, user *models.User) (string, time.Time, error)
	HashPassword(password string) (string, error)
}

// AuthorizationService decides what a user may do within a tenant
type AuthorizationService interface {
	CanAccessCompany(user *models.User, companyID string) bool
	CanManageCompany(user *models.User, companyID string) bool
	RequireCompanyAccess(ctx context.Context, session *SessionContext, companyID string) error
	LogAccessDenied(ctx context.Context, user *models.User, action, resourceType, resourceID string)
}

// CompanyService manages tenant records
type CompanyService interface {
	CreateCompany(ctx context.Context, company *models.Company, adminEmail, adminName string) error
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	GetAllCompanies(ctx context.Context) ([]*models.Company, error)
	SearchCompanies(ctx context.Context, nameQuery, industry string) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	UpdateSettings(ctx context.Context, companyID string, settings models.CompanySettings) error
	DeleteCompany(ctx context.Context, id string) error
}

// UserManagementService manages user records within a tenant
type UserManagementService interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsersByCompany(ctx context.Context, companyID string) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, userID, newPassword string) error
	DeactivateUser(ctx context.Context, userID string) error
}

// DepartmentService manages departments within a tenant
type DepartmentService interface {
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	GetDepartmentsByCompany(ctx context.Context, companyID string) ([]*models.Department, error)
	UpdateDepartment(ctx context.Context, department *models.Department) error
	DeleteDepartment(ctx context.Context, id string) error
}

// AbsenceService manages leave requests and their approval lifecycle
type AbsenceService interface {
	CreateAbsence(ctx context.Context, absence *models.Absence) error
	GetAbsence(ctx context.Context, id string) (*models.Absence, error)
	GetAbsencesByCompany(ctx context.Context, companyID string) ([]*models.Absence, error)
	GetAbsencesByEmployee(ctx context.Context, companyID, employeeID string) ([]*models.Absence, error)
	ApproveAbsence(ctx context.Context, id, approverID string) (*models.Absence, error)
	RejectAbsence(ctx context.Context, id, approverID string) (*models.Absence, error)
	DeleteAbsence(ctx context.Context, id string) error
}

// DeviationService manages reported irregularities
type DeviationService interface {
	CreateDeviation(ctx context.Context, deviation *models.Deviation) error
	GetDeviation(ctx context.Context, id string) (*models.Deviation, error)
	GetDeviationsByCompany(ctx context.Context, companyID string) ([]*models.Deviation, error)
	TransitionDeviation(ctx context.Context, id, status string) (*models.Deviation, error)
	UpdateDeviation(ctx context.Context, deviation *models.Deviation) error
	DeleteDeviation(ctx context.Context, id string) error
}

// TimeClockService manages the append-only punch log
type TimeClockService interface {
	ClockIn(ctx context.Context, companyID, employeeID, location, notes string) (*models.TimeEntry, error)
	ClockOut(ctx context.Context, companyID, employeeID, location, notes string) (*models.TimeEntry, error)
	GetEntriesByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.TimeEntry, error)
	GetEntriesByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]*models.TimeEntry, error)
	IsClockedIn(ctx context.Context, companyID, employeeID string) (bool, error)
}

// DashboardService aggregates per-tenant statistics
type DashboardService interface {
	GetSummary(ctx context.Context, companyID string) (*DashboardSummary, error)
}

// NotificationService delivers per-user notifications with live push
type NotificationService interface {
	Notify(ctx context.Context, notification *models.Notification) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	GetNotifications(ctx context.Context, companyID, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	Subscribe(ctx context.Context, companyID, userID string) (*Subscription, error)
}

// ChatService manages the per-company chat channel
type ChatService interface {
	SendMessage(ctx context.Context, message *models.ChatMessage) error
	GetHistory(ctx context.Context, companyID string, limit, offset int) ([]*models.ChatMessage, error)
	Subscribe(ctx context.Context, companyID string) (*Subscription, error)
}

// DocumentService manages the archive of uploaded files
type DocumentService interface {
	UploadDocument(ctx context.Context, companyID, name, uploadedBy, contentType string, content io.Reader) (*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocumentsByCompany(ctx context.Context, companyID string) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// StorageService abstracts the object store backing the document archive
type StorageService interface {
	Upload(ctx context.Context, path, contentType string, content io.Reader) (string, int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// EmailSender dispatches a single invitation email
type EmailSender interface {
	SendInvitation(ctx context.Context, invitation *models.Invitation) error
}
