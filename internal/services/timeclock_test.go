package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

func newTimeClockFixture() (TimeClockService, *MockTimeEntryRepository, *MockUserRepository) {
	timeEntryRepo := new(MockTimeEntryRepository)
	userRepo := new(MockUserRepository)
	svc := NewTimeClockService(createTestLogger(), timeEntryRepo, userRepo, createTestCache())
	return svc, timeEntryRepo, userRepo
}

func TestClockInRecordsEntry(t *testing.T) {
	svc, timeEntryRepo, userRepo := newTimeClockFixture()

	userRepo.On("GetByID", context.Background(), "u1").
		Return(&models.User{ID: "u1", CompanyID: "c1", FirstName: "Ola", LastName: "Nordmann"}, nil)
	timeEntryRepo.On("Create", context.Background(), mock.AnythingOfType("*models.TimeEntry")).
		Return(nil)

	entry, err := svc.ClockIn(context.Background(), "c1", "u1", "Oslo", "")

	require.NoError(t, err)
	assert.Equal(t, models.TimeEntryClockIn, entry.Type)
	assert.Equal(t, "Ola Nordmann", entry.EmployeeName)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestClockInRejectsCrossTenantEmployee(t *testing.T) {
	svc, _, userRepo := newTimeClockFixture()

	userRepo.On("GetByID", context.Background(), "u1").
		Return(&models.User{ID: "u1", CompanyID: "other-company"}, nil)

	_, err := svc.ClockIn(context.Background(), "c1", "u1", "", "")

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClockInRequiresIdentifiers(t *testing.T) {
	svc, _, _ := newTimeClockFixture()

	_, err := svc.ClockIn(context.Background(), "", "u1", "", "")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.ClockOut(context.Background(), "c1", "", "", "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestIsClockedInFollowsLatestPunch(t *testing.T) {
	svc, timeEntryRepo, _ := newTimeClockFixture()

	timeEntryRepo.On("GetLatestByEmployee", context.Background(), "c1", "u1").
		Return(&models.TimeEntry{EmployeeID: "u1", Type: models.TimeEntryClockIn}, nil).Once()

	clockedIn, err := svc.IsClockedIn(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.True(t, clockedIn)

	timeEntryRepo.On("GetLatestByEmployee", context.Background(), "c1", "u1").
		Return(&models.TimeEntry{EmployeeID: "u1", Type: models.TimeEntryClockOut}, nil).Once()

	clockedIn, err = svc.IsClockedIn(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.False(t, clockedIn)
}

func TestIsClockedInNoPunches(t *testing.T) {
	svc, timeEntryRepo, _ := newTimeClockFixture()

	timeEntryRepo.On("GetLatestByEmployee", context.Background(), "c1", "u1").
		Return(nil, gorm.ErrRecordNotFound)

	clockedIn, err := svc.IsClockedIn(context.Background(), "c1", "u1")

	require.NoError(t, err)
	assert.False(t, clockedIn)
}
