package repositories

import (
	"context"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// timeEntryRepository implements TimeEntryRepository.
// Time entries are append-only: there are no update or delete operations.
type timeEntryRepository struct {
	db *database.Connection
}

// NewTimeEntryRepository creates a new time entry repository
func NewTimeEntryRepository(db *database.Connection) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

// Create records a new clock event
func (r *timeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByCompany retrieves clock events for a company, newest first
func (r *timeEntryRepository) GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// GetByEmployee retrieves clock events for a single employee, newest first
func (r *timeEntryRepository) GetByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	query := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// GetSince retrieves all clock events in a company at or after the given time
func (r *timeEntryRepository) GetSince(ctx context.Context, companyID string, since time.Time) ([]*models.TimeEntry, error) {
	var entries []*models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND timestamp >= ?", companyID, since).
		Order("timestamp DESC").
		Find(&entries).Error
	return entries, err
}

// GetLatestByEmployee retrieves the most recent clock event for an employee
func (r *timeEntryRepository) GetLatestByEmployee(ctx context.Context, companyID, employeeID string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("timestamp DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
