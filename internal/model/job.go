package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// JobStatusDraft indicates the posting is being worked on by its creator
	JobStatusDraft = "draft"
	// JobStatusPendingApproval indicates the posting awaits HR review
	JobStatusPendingApproval = "pending_approval"
	// JobStatusApproved indicates HR signed off but the posting is not yet public
	JobStatusApproved = "approved"
	// JobStatusPublished indicates the posting is visible on the careers page
	JobStatusPublished = "published"
)

// EditableJobInfo is part of a job posting that can be edited
type EditableJobInfo struct {
	Title                  string         `gorm:"type:text" json:"title"`
	Description            string         `gorm:"type:text" json:"description"`
	ShortDescription       string         `gorm:"type:text" json:"short_description"`
	Department             string         `gorm:"type:text" json:"department"`
	Location               string         `gorm:"type:text" json:"location"`
	JobType                string         `gorm:"type:text" json:"job_type"`
	ExperienceLevel        string         `gorm:"type:text" json:"experience_level"`
	SalaryMin              *int           `json:"salary_min,omitempty"`
	SalaryMax              *int           `json:"salary_max,omitempty"`
	KeySkills              pq.StringArray `gorm:"type:text[]" json:"key_skills"`
	RequiredExperience     string         `gorm:"type:text" json:"required_experience"`
	Certifications         pq.StringArray `gorm:"type:text[]" json:"certifications"`
	AdditionalRequirements pq.StringArray `gorm:"type:text[]" json:"additional_requirements"`
	Deadline               *time.Time     `gorm:"type:timestamp" json:"deadline,omitempty"`
}

// Validate checks field-level constraints before the record touches the database.
func (e *EditableJobInfo) Validate() error {
	if e.SalaryMin != nil && e.SalaryMax != nil && *e.SalaryMin > *e.SalaryMax {
		return fmt.Errorf("salary_min (%d) must not exceed salary_max (%d)", *e.SalaryMin, *e.SalaryMax)
	}
	return nil
}

// Job is gorm model for store job posting data in DB
type Job struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EditableJobInfo
	Status string `gorm:"type:text;default:draft" json:"status"`

	CompanyID uint    `gorm:"not null;index;<-:create" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null;index;<-:create" json:"created_by"`
	Creator    User       `gorm:"foreignKey:CreatedBy" json:"-"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`

	CreatedAt   time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"type:timestamp" json:"updated_at"`
	ApprovedAt  *time.Time `gorm:"type:timestamp" json:"approved_at,omitempty"`
	PublishedAt *time.Time `gorm:"type:timestamp" json:"published_at,omitempty"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}
