package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

var (
	// ApplicationStatusPending indicates the application awaits first review
	ApplicationStatusPending = "pending"
	// ApplicationStatusShortlisted indicates the candidate passed the first review
	ApplicationStatusShortlisted = "shortlisted"
	// ApplicationStatusInterviewScheduled indicates an interview has been arranged
	ApplicationStatusInterviewScheduled = "interview_scheduled"
	// ApplicationStatusHired is terminal, the candidate got the job
	ApplicationStatusHired = "hired"
	// ApplicationStatusRejected is terminal, reachable from any non-terminal status
	ApplicationStatusRejected = "rejected"
)

// SkillMatch records whether one required skill was found in the resume
type SkillMatch struct {
	Skill string `json:"skill"`
	Match bool   `json:"match"`
}

// SkillMatchList is stored as a jsonb column
type SkillMatchList []SkillMatch

// Value implements driver.Valuer
func (s SkillMatchList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *SkillMatchList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into SkillMatchList", value)
	}
}

// Application represents a candidate submission against exactly one job
type Application struct {
	ID              uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ReferenceNumber string `gorm:"uniqueIndex;not null;<-:create" json:"reference_number"`

	CandidateName  string  `gorm:"type:text;not null" json:"candidate_name"`
	CandidateEmail string  `gorm:"type:text;not null;index" json:"candidate_email"`
	CandidatePhone *string `gorm:"type:text" json:"candidate_phone,omitempty"`

	LinkedinURL  *string `gorm:"type:text" json:"linkedin_url,omitempty"`
	GithubURL    *string `gorm:"type:text" json:"github_url,omitempty"`
	PortfolioURL *string `gorm:"type:text" json:"portfolio_url,omitempty"`

	CoverLetter    string `gorm:"type:text" json:"cover_letter"`
	AdditionalInfo string `gorm:"type:text" json:"additional_info"`
	ResumeFilename string `gorm:"type:text" json:"resume_filename"`
	ResumeID       *int   `json:"resume_id,omitempty"`
	Resume         File   `gorm:"foreignKey:ResumeID;references:ID" json:"-"`

	JobID uint `gorm:"not null;index;<-:create" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	Status string `gorm:"type:text;default:pending" json:"status"`

	// Evaluation attached by the external scoring pipeline, consumed as-is.
	AIScore     *int           `json:"ai_score,omitempty"`
	MatchScore  *int           `json:"match_score,omitempty"`
	ATSScore    *int           `json:"ats_score,omitempty"`
	AISummary   string         `gorm:"type:text" json:"ai_summary,omitempty"`
	SkillsMatch SkillMatchList `gorm:"type:jsonb" json:"skills_match"`

	CreatedAt   time.Time  `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"type:timestamp" json:"updated_at"`
	ProcessedAt *time.Time `gorm:"type:timestamp" json:"processed_at,omitempty"`
}

// ApplicationResponse is the review-facing shape with the job title denormalized
type ApplicationResponse struct {
	Application
	JobTitle string `json:"job_title"`
}

// ToResponse denormalizes the preloaded job title for list and detail views
func (a *Application) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		Application: *a,
		JobTitle:    a.Job.Title,
	}
}
