package services

import (
	"strings"

	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// Filtering is pure and synchronous: it never touches the database and has
// no side effects, so it can run on every keystroke. All criteria combine
// with AND; empty criteria match everything.

// UserFilter holds the user list search criteria
type UserFilter struct {
	Query      string // case-insensitive substring on name and email
	Role       string // exact match
	Department string // exact match
	ActiveOnly bool
}

// FilterUsers returns the users matching every criterion
func FilterUsers(users []*models.User, filter UserFilter) []*models.User {
	needle := strings.ToLower(filter.Query)
	matched := make([]*models.User, 0, len(users))

	for _, user := range users {
		if filter.ActiveOnly && !user.IsActive {
			continue
		}
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Department != "" && user.Department != filter.Department {
			continue
		}
		if needle != "" && !userMatchesQuery(user, needle) {
			continue
		}
		matched = append(matched, user)
	}
	return matched
}

func userMatchesQuery(user *models.User, needle string) bool {
	return strings.Contains(strings.ToLower(user.FullName()), needle) ||
		strings.Contains(strings.ToLower(user.Email), needle)
}

// AbsenceFilter holds the absence list search criteria
type AbsenceFilter struct {
	Query  string // case-insensitive substring on employee name and description
	Type   string // exact match
	Status string // exact match
}

// FilterAbsences returns the absences matching every criterion
func FilterAbsences(absences []*models.Absence, filter AbsenceFilter) []*models.Absence {
	needle := strings.ToLower(filter.Query)
	matched := make([]*models.Absence, 0, len(absences))

	for _, absence := range absences {
		if filter.Type != "" && absence.Type != filter.Type {
			continue
		}
		if filter.Status != "" && absence.Status != filter.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(absence.EmployeeName), needle) &&
			!strings.Contains(strings.ToLower(absence.Description), needle) {
			continue
		}
		matched = append(matched, absence)
	}
	return matched
}

// DeviationFilter holds the deviation list search criteria
type DeviationFilter struct {
	Query    string // case-insensitive substring on title and description
	Severity string // exact match
	Status   string // exact match
}

// FilterDeviations returns the deviations matching every criterion
func FilterDeviations(deviations []*models.Deviation, filter DeviationFilter) []*models.Deviation {
	needle := strings.ToLower(filter.Query)
	matched := make([]*models.Deviation, 0, len(deviations))

	for _, deviation := range deviations {
		if filter.Severity != "" && deviation.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && deviation.Status != filter.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(deviation.Title), needle) &&
			!strings.Contains(strings.ToLower(deviation.Description), needle) {
			continue
		}
		matched = append(matched, deviation)
	}
	return matched
}

// DepartmentFilter holds the department list search criteria
type DepartmentFilter struct {
	Query      string // case-insensitive substring on name and manager
	ActiveOnly bool
}

// FilterDepartments returns the departments matching every criterion
func FilterDepartments(departments []*models.Department, filter DepartmentFilter) []*models.Department {
	needle := strings.ToLower(filter.Query)
	matched := make([]*models.Department, 0, len(departments))

	for _, department := range departments {
		if filter.ActiveOnly && !department.IsActive {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(department.Name), needle) &&
			!strings.Contains(strings.ToLower(department.Manager), needle) {
			continue
		}
		matched = append(matched, department)
	}
	return matched
}
