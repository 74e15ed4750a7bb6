package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

func createTestLogger() *logger.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &logger.Logger{Logger: log}
}

// testSession builds a session for the given user and wires an auth
// middleware whose token "test-token" resolves to it.
func testAuthMiddleware(user *models.User, authzSvc services.AuthorizationService) (*middleware.AuthenticationMiddleware, *MockAuthenticationService) {
	session := &services.SessionContext{
		CurrentUser: user,
		Token:       "test-token",
		IssuedAt:    time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	authSvc := new(MockAuthenticationService)
	authSvc.On("SessionFromToken", mock.Anything, "test-token").Return(session, nil).Maybe()

	return middleware.NewAuthenticationMiddleware(createTestLogger(), authSvc, authzSvc), authSvc
}

func authorize(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

// MockAuthenticationService mocks services.AuthenticationService

type MockAuthenticationService struct {
	mock.Mock
}

func (m *MockAuthenticationService) Login(ctx context.Context, email, password string) (*services.SessionContext, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SessionContext), args.Error(1)
}

func (m *MockAuthenticationService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthenticationService) ResetPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthenticationService) SessionFromToken(ctx context.Context, token string) (*services.SessionContext, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SessionContext), args.Error(1)
}

func (m *MockAuthenticationService) GenerateJWT(ctx context.Context, user *models.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAuthenticationService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// MockAuthorizationService mocks services.AuthorizationService

type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) CanAccessCompany(user *models.User, companyID string) bool {
	args := m.Called(user, companyID)
	return args.Bool(0)
}

func (m *MockAuthorizationService) CanManageCompany(user *models.User, companyID string) bool {
	args := m.Called(user, companyID)
	return args.Bool(0)
}

func (m *MockAuthorizationService) RequireCompanyAccess(ctx context.Context, session *services.SessionContext, companyID string) error {
	args := m.Called(ctx, session, companyID)
	return args.Error(0)
}

func (m *MockAuthorizationService) LogAccessDenied(ctx context.Context, user *models.User, action, resourceType, resourceID string) {
	m.Called(ctx, user, action, resourceType, resourceID)
}

// allowAllAuthz builds an authorization mock that permits everything
func allowAllAuthz() *MockAuthorizationService {
	authz := new(MockAuthorizationService)
	authz.On("CanAccessCompany", mock.Anything, mock.Anything).Return(true).Maybe()
	authz.On("CanManageCompany", mock.Anything, mock.Anything).Return(true).Maybe()
	authz.On("RequireCompanyAccess", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	authz.On("LogAccessDenied", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return authz
}

// MockCompanyService mocks services.CompanyService

type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, company *models.Company, adminEmail, adminName string) error {
	args := m.Called(ctx, company, adminEmail, adminName)
	return args.Error(0)
}

func (m *MockCompanyService) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyService) GetAllCompanies(ctx context.Context) ([]*models.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyService) SearchCompanies(ctx context.Context, nameQuery, industry string) ([]*models.Company, error) {
	args := m.Called(ctx, nameQuery, industry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyService) UpdateCompany(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyService) UpdateSettings(ctx context.Context, companyID string, settings models.CompanySettings) error {
	args := m.Called(ctx, companyID, settings)
	return args.Error(0)
}

func (m *MockCompanyService) DeleteCompany(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserManagementService mocks services.UserManagementService

type MockUserManagementService struct {
	mock.Mock
}

func (m *MockUserManagementService) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserManagementService) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserManagementService) GetUsersByCompany(ctx context.Context, companyID string) ([]*models.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserManagementService) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserManagementService) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserManagementService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockUserManagementService) DeactivateUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockDepartmentService mocks services.DepartmentService

type MockDepartmentService struct {
	mock.Mock
}

func (m *MockDepartmentService) CreateDepartment(ctx context.Context, department *models.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockDepartmentService) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockDepartmentService) GetDepartmentsByCompany(ctx context.Context, companyID string) ([]*models.Department, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Department), args.Error(1)
}

func (m *MockDepartmentService) UpdateDepartment(ctx context.Context, department *models.Department) error {
	args := m.Called(ctx, department)
	return args.Error(0)
}

func (m *MockDepartmentService) DeleteDepartment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAbsenceService mocks services.AbsenceService

type MockAbsenceService struct {
	mock.Mock
}

func (m *MockAbsenceService) CreateAbsence(ctx context.Context, absence *models.Absence) error {
	args := m.Called(ctx, absence)
	return args.Error(0)
}

func (m *MockAbsenceService) GetAbsence(ctx context.Context, id string) (*models.Absence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Absence), args.Error(1)
}

func (m *MockAbsenceService) GetAbsencesByCompany(ctx context.Context, companyID string) ([]*models.Absence, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Absence), args.Error(1)
}

func (m *MockAbsenceService) GetAbsencesByEmployee(ctx context.Context, companyID, employeeID string) ([]*models.Absence, error) {
	args := m.Called(ctx, companyID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Absence), args.Error(1)
}

func (m *MockAbsenceService) ApproveAbsence(ctx context.Context, id, approverID string) (*models.Absence, error) {
	args := m.Called(ctx, id, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Absence), args.Error(1)
}

func (m *MockAbsenceService) RejectAbsence(ctx context.Context, id, approverID string) (*models.Absence, error) {
	args := m.Called(ctx, id, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Absence), args.Error(1)
}

func (m *MockAbsenceService) DeleteAbsence(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDeviationService mocks services.DeviationService

type MockDeviationService struct {
	mock.Mock
}

func (m *MockDeviationService) CreateDeviation(ctx context.Context, deviation *models.Deviation) error {
	args := m.Called(ctx, deviation)
	return args.Error(0)
}

func (m *MockDeviationService) GetDeviation(ctx context.Context, id string) (*models.Deviation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deviation), args.Error(1)
}

func (m *MockDeviationService) GetDeviationsByCompany(ctx context.Context, companyID string) ([]*models.Deviation, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deviation), args.Error(1)
}

func (m *MockDeviationService) TransitionDeviation(ctx context.Context, id, status string) (*models.Deviation, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deviation), args.Error(1)
}

func (m *MockDeviationService) UpdateDeviation(ctx context.Context, deviation *models.Deviation) error {
	args := m.Called(ctx, deviation)
	return args.Error(0)
}

func (m *MockDeviationService) DeleteDeviation(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTimeClockService mocks services.TimeClockService

type MockTimeClockService struct {
	mock.Mock
}

func (m *MockTimeClockService) ClockIn(ctx context.Context, companyID, employeeID, location, notes string) (*models.TimeEntry, error) {
	args := m.Called(ctx, companyID, employeeID, location, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeClockService) ClockOut(ctx context.Context, companyID, employeeID, location, notes string) (*models.TimeEntry, error) {
	args := m.Called(ctx, companyID, employeeID, location, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeClockService) GetEntriesByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.TimeEntry, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimeEntry), args.Error(1)
}

func (m *MockTimeClockService) GetEntriesByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]*models.TimeEntry, error) {
	args := m.Called(ctx, companyID, employeeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimeEntry), args.Error(1)
}

func (m *MockTimeClockService) IsClockedIn(ctx context.Context, companyID, employeeID string) (bool, error) {
	args := m.Called(ctx, companyID, employeeID)
	return args.Bool(0), args.Error(1)
}

// MockDashboardService mocks services.DashboardService

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetSummary(ctx context.Context, companyID string) (*services.DashboardSummary, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DashboardSummary), args.Error(1)
}

// MockDocumentService mocks services.DocumentService

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) UploadDocument(ctx context.Context, companyID, name, uploadedBy, contentType string, content io.Reader) (*models.Document, error) {
	args := m.Called(ctx, companyID, name, uploadedBy, contentType, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocumentsByCompany(ctx context.Context, companyID string) ([]*models.Document, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStorageService mocks services.StorageService

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, path, contentType string, content io.Reader) (string, int64, error) {
	args := m.Called(ctx, path, contentType, content)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorageService) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockNotificationService mocks services.NotificationService

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationService) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, companyID, userID string, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, companyID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationService) DeleteNotification(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationService) Subscribe(ctx context.Context, companyID, userID string) (*services.Subscription, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Subscription), args.Error(1)
}

// MockChatService mocks services.ChatService

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) SendMessage(ctx context.Context, message *models.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatService) GetHistory(ctx context.Context, companyID string, limit, offset int) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) Subscribe(ctx context.Context, companyID string) (*services.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Subscription), args.Error(1)
}
