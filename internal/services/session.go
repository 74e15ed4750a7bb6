package services

import (
	"sync"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// SessionContext carries the authenticated user and the tenant they are
// operating on. It is created at login, threaded through every tenant-scoped
// operation, and cleared at logout. Tenant selection is never implicit.
type SessionContext struct {
	CurrentUser     *models.User
	SelectedCompany *models.Company
	Token           string
	IssuedAt        time.Time
	ExpiresAt       time.Time
}

// CompanyID returns the selected tenant id, or empty when no tenant is
// selected yet
func (s *SessionContext) CompanyID() string {
	if s == nil || s.SelectedCompany == nil {
		return ""
	}
	return s.SelectedCompany.ID
}

// UserID returns the authenticated user id, or empty for an anonymous session
func (s *SessionContext) UserID() string {
	if s == nil || s.CurrentUser == nil {
		return ""
	}
	return s.CurrentUser.ID
}

// IsAuthenticated reports whether a user is bound to this session
func (s *SessionContext) IsAuthenticated() bool {
	return s != nil && s.CurrentUser != nil
}

// SessionStore tracks live sessions by token so logout can invalidate them
// before their JWT expiry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionContext
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*SessionContext),
	}
}

// Put registers a session under its token
func (st *SessionStore) Put(session *SessionContext) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session.Token] = session
}

// Get returns the session for a token, or nil when the token is unknown or
// the session has expired. The returned context is a snapshot owned by the
// caller: concurrent requests with the same token each get their own copy,
// so per-request writes never race with SelectCompany on the stored one.
func (st *SessionStore) Get(token string) *SessionContext {
	st.mu.RLock()
	session, ok := st.sessions[token]
	var snapshot SessionContext
	if ok {
		snapshot = *session
	}
	st.mu.RUnlock()

	if !ok {
		return nil
	}
	if time.Now().After(snapshot.ExpiresAt) {
		st.Remove(token)
		return nil
	}
	return &snapshot
}

// Remove clears the session for a token. Removing an unknown token is a no-op.
func (st *SessionStore) Remove(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, token)
}

// SelectCompany binds a tenant to the session
func (st *SessionStore) SelectCompany(token string, company *models.Company) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if session, ok := st.sessions[token]; ok {
		session.SelectedCompany = company
	}
}

// Count returns the number of live sessions
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
