package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Company represents a tenant entity in the system. All other entities are
// partitioned by CompanyID and must never be visible across tenants.
type Company struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex" validate:"required,min=1,max=255"`
	Industry  string         `json:"industry" gorm:"not null"`
	Employees int            `json:"employees" gorm:"default:0"`
	Address   string         `json:"address"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email" validate:"omitempty,email"`
	Website   string         `json:"website"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	Settings  CompanySettings `json:"settings" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Users       []User       `json:"users,omitempty" gorm:"foreignKey:CompanyID"`
	Departments []Department `json:"departments,omitempty" gorm:"foreignKey:CompanyID"`
	Absences    []Absence    `json:"absences,omitempty" gorm:"foreignKey:CompanyID"`
	Deviations  []Deviation  `json:"deviations,omitempty" gorm:"foreignKey:CompanyID"`
}

// TableName returns the table name for Company
func (Company) TableName() string {
	return "companies"
}

// PlaceholderCompanyName is substituted when a tenant record cannot be found.
const PlaceholderCompanyName = "Unknown Company"

// CompanySettings holds per-tenant feature toggles and upload policy.
type CompanySettings struct {
	EnableDeviationReporting bool     `json:"enable_deviation_reporting"`
	EnableRiskAnalysis       bool     `json:"enable_risk_analysis"`
	EnableDocumentArchive    bool     `json:"enable_document_archive"`
	EnableInternalControl    bool     `json:"enable_internal_control"`
	EnableChat               bool     `json:"enable_chat"`
	EnableBirthdayCalendar   bool     `json:"enable_birthday_calendar"`
	MaxFileSizeMB            int      `json:"max_file_size_mb"`
	AllowedFileTypes         []string `json:"allowed_file_types"`
}

// DefaultCompanySettings returns the settings applied to companies that have
// never been configured.
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		EnableDeviationReporting: true,
		EnableRiskAnalysis:       true,
		EnableDocumentArchive:    true,
		EnableInternalControl:    true,
		EnableChat:               true,
		EnableBirthdayCalendar:   true,
		MaxFileSizeMB:            10,
		AllowedFileTypes:         []string{"pdf", "doc", "docx", "jpg", "png"},
	}
}

// Value implements driver.Valuer for JSONB storage
func (s CompanySettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage
func (s *CompanySettings) Scan(value interface{}) error {
	if value == nil {
		*s = DefaultCompanySettings()
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("failed to scan CompanySettings: unexpected type %T", value)
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, s)
}

// Decode applies the defaulting rules for a company loaded from the store.
// This is the single place where missing fields pick up their defaults.
func (c *Company) Decode() {
	if c.Name == "" {
		c.Name = PlaceholderCompanyName
	}
	if c.Industry == "" {
		c.Industry = "Generell"
	}
	if c.Settings.MaxFileSizeMB == 0 {
		c.Settings = DefaultCompanySettings()
	}
}
