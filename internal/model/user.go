// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleAccountManager creates job postings and owns them while in draft
	RoleAccountManager = "account_manager"
	// RoleHR reviews applications and approves/publishes job postings
	RoleHR = "hr"
	// RoleAdmin has unrestricted access to every resource
	RoleAdmin = "admin"
)

// User is gorm model for storing platform actors
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"type:text" json:"full_name"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"type:text;not null" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CompanyID *uint     `gorm:"index" json:"company_id,omitempty"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"-"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}
