package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// Seeds a demo tenant with users, departments and sample HR data so a fresh
// environment has something to look at.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.NewMigrator(db).Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	companyRepo := repositories.NewCompanyRepository(db)
	userRepo := repositories.NewUserRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)
	absenceRepo := repositories.NewAbsenceRepository(db)
	deviationRepo := repositories.NewDeviationRepository(db)
	timeEntryRepo := repositories.NewTimeEntryRepository(db)

	company := &models.Company{
		Name:      "DriftPro AS",
		Industry:  "Bygg og anlegg",
		Employees: 25,
		Address:   "Storgata 1, 0155 Oslo",
		Phone:     "+47 22 00 00 00",
		Email:     "post@driftpro.no",
		Website:   "https://driftpro.no",
		IsActive:  true,
		Settings:  models.DefaultCompanySettings(),
	}
	if err := companyRepo.Create(ctx, company); err != nil {
		log.Fatalf("Failed to create demo company: %v", err)
	}
	fmt.Printf("Created company %s (%s)\n", company.Name, company.ID)

	departments := []*models.Department{
		{CompanyID: company.ID, Name: "Administrasjon", Description: "Ledelse og stab", Manager: "Kari Nordmann", EmployeeCount: 4, IsActive: true},
		{CompanyID: company.ID, Name: "Produksjon", Description: "Produksjon og montasje", Manager: "Per Hansen", EmployeeCount: 15, IsActive: true},
		{CompanyID: company.ID, Name: "Lager", Description: "Lager og logistikk", Manager: "Ola Nordmann", EmployeeCount: 6, IsActive: true},
	}
	for _, department := range departments {
		if err := departmentRepo.Create(ctx, department); err != nil {
			log.Fatalf("Failed to create department %s: %v", department.Name, err)
		}
	}

	users := []struct {
		email      string
		first      string
		last       string
		role       string
		department string
		employeeID string
	}{
		{"kari@driftpro.no", "Kari", "Nordmann", models.RoleAdmin, "Administrasjon", "DP-001"},
		{"per@driftpro.no", "Per", "Hansen", models.RoleManager, "Produksjon", "DP-002"},
		{"ola@driftpro.no", "Ola", "Nordmann", models.RoleEmployee, "Lager", "DP-003"},
		{"ingrid@driftpro.no", "Ingrid", "Berg", models.RoleEmployee, "Produksjon", "DP-004"},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Velkommen2026x"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	var employeeIDs []string
	for _, u := range users {
		user := &models.User{
			CompanyID:    company.ID,
			Email:        u.email,
			FirstName:    u.first,
			LastName:     u.last,
			Role:         u.role,
			Department:   u.department,
			EmployeeID:   u.employeeID,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}
		employeeIDs = append(employeeIDs, user.ID)
		fmt.Printf("Created user %s (%s)\n", user.Email, user.Role)
	}

	absence := &models.Absence{
		CompanyID:    company.ID,
		EmployeeID:   employeeIDs[2],
		EmployeeName: "Ola Nordmann",
		Type:         models.AbsenceTypeFerie,
		StartDate:    "2026-09-14",
		EndDate:      "2026-09-18",
		Status:       models.AbsenceStatusPending,
		Description:  "Hostferie",
	}
	if err := absenceRepo.Create(ctx, absence); err != nil {
		log.Fatalf("Failed to create demo absence: %v", err)
	}

	deviation := &models.Deviation{
		CompanyID:   company.ID,
		Title:       "Manglende verneutstyr pa lageret",
		Description: "Hjelmer mangler ved port 3",
		Severity:    "high",
		Status:      models.DeviationStatusOpen,
		ReportedBy:  employeeIDs[3],
	}
	if err := deviationRepo.Create(ctx, deviation); err != nil {
		log.Fatalf("Failed to create demo deviation: %v", err)
	}

	entry := &models.TimeEntry{
		CompanyID:    company.ID,
		EmployeeID:   employeeIDs[2],
		EmployeeName: "Ola Nordmann",
		Type:         models.TimeEntryClockIn,
		Timestamp:    time.Now(),
		Location:     "Hovedkontor",
	}
	if err := timeEntryRepo.Create(ctx, entry); err != nil {
		log.Fatalf("Failed to create demo time entry: %v", err)
	}

	fmt.Println("Seed data created. Demo login: kari@driftpro.no / Velkommen2026x")
}
