package models

import (
	"time"
)

// Invitation represents an administrator onboarding record created together
// with a company. A background worker picks it up and dispatches the
// invitation email.
type Invitation struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID      string     `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	CompanyName    string     `json:"company_name" gorm:"not null"`
	AdminEmail     string     `json:"admin_email" gorm:"not null" validate:"required,email"`
	AdminName      string     `json:"admin_name" gorm:"not null" validate:"required"`
	InvitationLink string     `json:"invitation_link" gorm:"not null"`
	EmailSent      bool       `json:"email_sent" gorm:"default:false"`
	EmailSentAt    *time.Time `json:"email_sent_at"`
	EmailError     string     `json:"email_error"`
	ExpiresAt      time.Time  `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the table name for Invitation
func (Invitation) TableName() string {
	return "invitations"
}
