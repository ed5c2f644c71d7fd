package model

import "time"

// EditableCompanyInfo is part of company profile that can be edited
type EditableCompanyInfo struct {
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Industry    string `gorm:"type:text" json:"industry"`
	Website     string `gorm:"type:text" json:"website"`
}

// Company is gorm model for the organization a user and its job postings belong to
type Company struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EditableCompanyInfo
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`

	Jobs []Job `gorm:"foreignKey:CompanyID" json:"-"`
}
