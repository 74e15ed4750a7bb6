package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// DashboardSummary is the aggregated per-tenant statistics block shown on
// the admin landing page.
type DashboardSummary struct {
	CompanyID            string    `json:"company_id"`
	CompanyName          string    `json:"company_name"`
	TotalEmployees       int       `json:"total_employees"`
	TotalDepartments     int       `json:"total_departments"`
	PendingAbsences      int       `json:"pending_absences"`
	UnresolvedDeviations int       `json:"unresolved_deviations"`
	ActiveToday          int       `json:"active_today"`
	RecentActivity       int       `json:"recent_activity"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// dashboardService implements DashboardService
type dashboardService struct {
	logger         *logger.Logger
	companyRepo    repositories.CompanyRepository
	userRepo       repositories.UserRepository
	departmentRepo repositories.DepartmentRepository
	absenceRepo    repositories.AbsenceRepository
	deviationRepo  repositories.DeviationRepository
	timeEntryRepo  repositories.TimeEntryRepository
	cache          *CacheService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	logger *logger.Logger,
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	departmentRepo repositories.DepartmentRepository,
	absenceRepo repositories.AbsenceRepository,
	deviationRepo repositories.DeviationRepository,
	timeEntryRepo repositories.TimeEntryRepository,
	cache *CacheService,
) DashboardService {
	return &dashboardService{
		logger:         logger,
		companyRepo:    companyRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		absenceRepo:    absenceRepo,
		deviationRepo:  deviationRepo,
		timeEntryRepo:  timeEntryRepo,
		cache:          cache,
	}
}

// GetSummary aggregates the statistics for a tenant. An empty or unknown
// company id yields a zeroed summary with the placeholder name, never an
// error. Each statistic is fetched independently: when one backend read
// fails that count degrades to zero with a warning while the rest of the
// summary stays intact.
func (s *dashboardService) GetSummary(ctx context.Context, companyID string) (*DashboardSummary, error) {
	if companyID == "" {
		return s.zeroSummary(""), nil
	}

	if s.cache.Enabled() {
		var cached DashboardSummary
		if err := s.cache.Get(ctx, s.cache.BuildDashboardKey(companyID), &cached); err == nil {
			return &cached, nil
		}
	}

	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.zeroSummary(companyID), nil
		}
		s.logger.WithCompany(companyID).
			WithError(err).Warn("Company fetch failed, serving zeroed summary")
		return s.zeroSummary(companyID), nil
	}

	summary := &DashboardSummary{
		CompanyID:   companyID,
		CompanyName: company.Name,
		GeneratedAt: time.Now(),
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	activityCutoff := now.Add(-7 * 24 * time.Hour)

	var wg sync.WaitGroup

	var users []*models.User
	var usersOK bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetched, err := s.userRepo.GetByCompany(ctx, companyID)
		if err != nil {
			s.warnDegraded(companyID, "users", err)
			return
		}
		users = fetched
		usersOK = true
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		departments, err := s.departmentRepo.GetByCompany(ctx, companyID)
		if err != nil {
			s.warnDegraded(companyID, "departments", err)
			return
		}
		summary.TotalDepartments = len(departments)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		count, err := s.absenceRepo.CountPendingByCompany(ctx, companyID)
		if err != nil {
			s.warnDegraded(companyID, "absences", err)
			return
		}
		summary.PendingAbsences = int(count)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		count, err := s.deviationRepo.CountUnresolvedByCompany(ctx, companyID)
		if err != nil {
			s.warnDegraded(companyID, "deviations", err)
			return
		}
		summary.UnresolvedDeviations = int(count)
	}()

	var todayEntries []*models.TimeEntry
	var entriesOK bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		fetched, err := s.timeEntryRepo.GetSince(ctx, companyID, midnight)
		if err != nil {
			s.warnDegraded(companyID, "time_entries", err)
			return
		}
		todayEntries = fetched
		entriesOK = true
	}()

	wg.Wait()

	if usersOK {
		summary.TotalEmployees = len(users)
		summary.RecentActivity = countRecentActivity(users, activityCutoff)
	}
	if entriesOK {
		summary.ActiveToday = countActiveToday(todayEntries)
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, s.cache.BuildDashboardKey(companyID), summary, s.cache.DashboardTTL())
	}

	return summary, nil
}

// countActiveToday counts distinct employees with at least one clock-in
// among today's punches. A clock-out after the clock-in does not remove the
// employee from the count; the rule looks at clock-ins only.
func countActiveToday(entries []*models.TimeEntry) int {
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsClockIn() {
			seen[entry.EmployeeID] = struct{}{}
		}
	}
	return len(seen)
}

// countRecentActivity counts users who logged in strictly after the cutoff.
// Users that never logged in are never counted.
func countRecentActivity(users []*models.User, cutoff time.Time) int {
	count := 0
	for _, user := range users {
		if user.LoggedInSince(cutoff) {
			count++
		}
	}
	return count
}

func (s *dashboardService) zeroSummary(companyID string) *DashboardSummary {
	return &DashboardSummary{
		CompanyID:   companyID,
		CompanyName: models.PlaceholderCompanyName,
		GeneratedAt: time.Now(),
	}
}

func (s *dashboardService) warnDegraded(companyID, collection string, err error) {
	s.logger.WithCompany(companyID).
		WithField("collection", collection).
		WithError(err).
		Warn("Dashboard fetch failed, count degraded to zero")
}
