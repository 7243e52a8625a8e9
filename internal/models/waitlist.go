package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signup types
const (
	SignupTypeRegular = "regular"
	SignupTypeAngel   = "angel"
)

// Signup sources, derived from the signup type. Never client-supplied.
const (
	SourceLandingPage = "landing_page"
	SourceAngelPage   = "angel_page"
)

// WaitlistEntry is insert-only: entries are never updated or deleted.
// The composite unique index is the authoritative duplicate-signup signal.
type WaitlistEntry struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	Email      string    `gorm:"not null;uniqueIndex:idx_waitlist_email_type" json:"email"`
	SignupType string    `gorm:"not null;default:regular;uniqueIndex:idx_waitlist_email_type" json:"signup_type"`
	Source     string    `gorm:"not null" json:"source"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// SourceForType maps a signup type to its source tag.
func SourceForType(signupType string) string {
	if signupType == SignupTypeAngel {
		return SourceAngelPage
	}
	return SourceLandingPage
}
