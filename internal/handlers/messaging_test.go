package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

type messagingFixture struct {
	router          *mux.Router
	notificationSvc *MockNotificationService
	chatSvc         *MockChatService
}

func newMessagingFixture(user *models.User) *messagingFixture {
	authMw, _ := testAuthMiddleware(user, allowAllAuthz())

	f := &messagingFixture{
		notificationSvc: new(MockNotificationService),
		chatSvc:         new(MockChatService),
	}

	handler := NewMessagingHandler(createTestLogger(), f.notificationSvc, f.chatSvc, authMw)
	f.router = mux.NewRouter()
	handler.RegisterRoutes(f.router)
	return f
}

func TestSendNotificationBindsCompanyFromPath(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.notificationSvc.On("Notify", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.CompanyID == "c1" && n.Title == "Nytt avvik"
	})).Return(nil)

	body := `{"company_id":"evil","title":"Nytt avvik","user_id":"u2"}`
	req := authorize(httptest.NewRequest(http.MethodPost, "/companies/c1/notifications", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListNotificationsUsesSessionUser(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.notificationSvc.On("GetNotifications", mock.Anything, "c1", "u1", 50).
		Return([]*models.Notification{{ID: "n1", Title: "Fravaer godkjent"}}, nil)

	req := authorize(httptest.NewRequest(http.MethodGet, "/companies/c1/notifications", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fravaer godkjent")
}

func TestMarkNotificationRead(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.notificationSvc.On("GetNotification", mock.Anything, "n1").
		Return(&models.Notification{ID: "n1", CompanyID: "c1", UserID: "u1"}, nil)
	f.notificationSvc.On("MarkRead", mock.Anything, "n1").Return(nil)

	req := authorize(httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.notificationSvc.AssertCalled(t, "MarkRead", mock.Anything, "n1")
}

func TestMarkNotificationReadCrossTenantDenied(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.notificationSvc.On("GetNotification", mock.Anything, "n2").
		Return(&models.Notification{ID: "n2", CompanyID: "c2", UserID: "victim"}, nil)

	req := authorize(httptest.NewRequest(http.MethodPost, "/notifications/n2/read", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.notificationSvc.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestDeleteNotificationOfOtherUserDenied(t *testing.T) {
	f := newMessagingFixture(adminUser())

	// Same tenant, different recipient: still off limits
	f.notificationSvc.On("GetNotification", mock.Anything, "n3").
		Return(&models.Notification{ID: "n3", CompanyID: "c1", UserID: "u2"}, nil)

	req := authorize(httptest.NewRequest(http.MethodDelete, "/notifications/n3", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.notificationSvc.AssertNotCalled(t, "DeleteNotification", mock.Anything, mock.Anything)
}

func TestDeleteNotificationIsIdempotent(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.notificationSvc.On("GetNotification", mock.Anything, "gone").
		Return(nil, services.ErrNotificationNotFound)

	req := authorize(httptest.NewRequest(http.MethodDelete, "/notifications/gone", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.notificationSvc.AssertNotCalled(t, "DeleteNotification", mock.Anything, mock.Anything)
}

func TestSendChatMessageBindsSenderFromSession(t *testing.T) {
	user := adminUser()
	user.FirstName = "Kari"
	user.LastName = "Nordmann"
	f := newMessagingFixture(user)

	f.chatSvc.On("SendMessage", mock.Anything, mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.CompanyID == "c1" && m.SenderID == "u1" && m.SenderName == "Kari Nordmann"
	})).Return(nil)

	body := `{"sender_id":"spoofed","content":"Hei alle sammen"}`
	req := authorize(httptest.NewRequest(http.MethodPost, "/companies/c1/chat/messages", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSendChatMessageFeatureDisabled(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.chatSvc.On("SendMessage", mock.Anything, mock.Anything).
		Return(services.ErrFeatureDisabled)

	body := `{"content":"Hei"}`
	req := authorize(httptest.NewRequest(http.MethodPost, "/companies/c1/chat/messages", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetChatHistory(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.chatSvc.On("GetHistory", mock.Anything, "c1", 50, 0).
		Return([]*models.ChatMessage{{ID: "m1", Content: "Hei alle sammen"}}, nil)

	req := authorize(httptest.NewRequest(http.MethodGet, "/companies/c1/chat/messages", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hei alle sammen")
}

func TestStreamChatSubscribeFailure(t *testing.T) {
	f := newMessagingFixture(adminUser())

	f.chatSvc.On("Subscribe", mock.Anything, "c1").
		Return(nil, services.NewTransportError("subscribe", assert.AnError))

	req := authorize(httptest.NewRequest(http.MethodGet, "/companies/c1/chat/stream", nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMessagingRequiresSession(t *testing.T) {
	f := newMessagingFixture(adminUser())

	req := httptest.NewRequest(http.MethodGet, "/companies/c1/notifications", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
