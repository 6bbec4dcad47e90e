package models

import (
	"time"
)

// SubjectType identifies the kind of rateable subject.
type SubjectType string

const (
	// SubjectTypeClinic marks a veterinary clinic profile.
	SubjectTypeClinic SubjectType = "clinic"
	// SubjectTypePractitioner marks an individual practitioner profile.
	SubjectTypePractitioner SubjectType = "practitioner"
)

// Valid reports whether the subject type is one of the known kinds.
func (t SubjectType) Valid() bool {
	return t == SubjectTypeClinic || t == SubjectTypePractitioner
}

// SubjectStatus is the moderation state of a submitted clinic or practitioner profile.
type SubjectStatus string

const (
	// SubjectStatusPending indicates a profile is awaiting admin approval.
	SubjectStatusPending SubjectStatus = "pending"
	// SubjectStatusApproved indicates a profile is approved and discoverable.
	SubjectStatusApproved SubjectStatus = "approved"
	// SubjectStatusRejected indicates a profile submission was declined.
	SubjectStatusRejected SubjectStatus = "rejected"
)

// Clinic represents a veterinary clinic profile.
// Profiles are submitted by users, approved by admins, and never hard-deleted;
// IsActive is the soft "visible" switch after approval.
type Clinic struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	Name              string        `gorm:"size:160;not null" json:"name"`
	Description       string        `gorm:"type:text" json:"description"`
	Address           string        `json:"address"`
	Phone             string        `json:"phone"`
	Website           string        `json:"website"`
	PhotoURL          string        `json:"photo_url"`
	Status            SubjectStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsActive          bool          `gorm:"default:true" json:"is_active"`
	SubmittedByUserID uint          `gorm:"not null" json:"submitted_by_user_id"`
	SubmittedBy       *User         `gorm:"foreignKey:SubmittedByUserID" json:"submitted_by,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	// Summary is computed per request, never stored.
	Summary *RatingSummary `gorm:"-" json:"summary,omitempty"`
}

// TableName specifies the table name for GORM.
func (Clinic) TableName() string {
	return "clinics"
}

// Practitioner represents an individual veterinary practitioner profile.
type Practitioner struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	FullName          string        `gorm:"size:160;not null" json:"full_name"`
	Specialty         string        `gorm:"size:120" json:"specialty"`
	Bio               string        `gorm:"type:text" json:"bio"`
	YearsExperience   int           `json:"years_experience"`
	PhotoURL          string        `json:"photo_url"`
	ClinicID          *uint         `gorm:"index" json:"clinic_id,omitempty"`
	Clinic            *Clinic       `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Status            SubjectStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	IsActive          bool          `gorm:"default:true" json:"is_active"`
	SubmittedByUserID uint          `gorm:"not null" json:"submitted_by_user_id"`
	SubmittedBy       *User         `gorm:"foreignKey:SubmittedByUserID" json:"submitted_by,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	Summary *RatingSummary `gorm:"-" json:"summary,omitempty"`
}

// TableName specifies the table name for GORM.
func (Practitioner) TableName() string {
	return "practitioners"
}

// SubjectRef is a lightweight display projection of a rateable subject,
// attached to ratings so clients can render author/subject lines without
// extra round trips.
type SubjectRef struct {
	Type SubjectType `json:"type"`
	ID   uint        `json:"id"`
	Name string      `json:"name"`
}

// ClinicDimensions are the allowed dimensional sub-rating labels for clinics.
var ClinicDimensions = []string{
	"cleanliness",
	"staff_friendliness",
	"wait_time",
	"value_for_money",
	"facility_quality",
}

// PractitionerDimensions are the allowed dimensional sub-rating labels for practitioners.
var PractitionerDimensions = []string{
	"communication_skills",
	"expertise",
	"punctuality",
	"empathy",
	"value_for_money",
}

// DimensionsFor returns the allowed dimension labels for a subject type.
func DimensionsFor(t SubjectType) []string {
	switch t {
	case SubjectTypeClinic:
		return ClinicDimensions
	case SubjectTypePractitioner:
		return PractitionerDimensions
	}
	return nil
}
