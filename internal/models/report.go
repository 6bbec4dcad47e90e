package models

import "time"

// ReportReason is the enumerated category for a rating report.
type ReportReason string

const (
	// ReportReasonSpam flags advertising or repeated junk content.
	ReportReasonSpam ReportReason = "spam"
	// ReportReasonInappropriate flags content unsuitable for the platform.
	ReportReasonInappropriate ReportReason = "inappropriate"
	// ReportReasonOffensive flags abusive or hateful content.
	ReportReasonOffensive ReportReason = "offensive"
	// ReportReasonIrrelevant flags off-topic or fake reviews.
	ReportReasonIrrelevant ReportReason = "irrelevant"
	// ReportReasonHarassment flags targeted harassment.
	ReportReasonHarassment ReportReason = "harassment"
	// ReportReasonOther is the catch-all category.
	ReportReasonOther ReportReason = "other"
)

// Valid reports whether the reason is one of the enumerated categories.
func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonInappropriate, ReportReasonOffensive,
		ReportReasonIrrelevant, ReportReasonHarassment, ReportReasonOther:
		return true
	}
	return false
}

// Report statuses. Pending is the only non-terminal state; there is no path
// back to pending once an admin has acted.
const (
	ReportStatusPending     = "pending"
	ReportStatusReviewed    = "reviewed"
	ReportStatusDismissed   = "dismissed"
	ReportStatusActionTaken = "action_taken"
)

// RatingReport is a user-submitted moderation report against a rating.
// The combination of RatingID and ReporterID must be unique.
type RatingReport struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	RatingID   uint         `gorm:"not null;uniqueIndex:idx_report_rating_reporter" json:"rating_id"`
	Rating     *Rating      `gorm:"foreignKey:RatingID" json:"rating,omitempty"`
	ReporterID uint         `gorm:"not null;uniqueIndex:idx_report_rating_reporter" json:"reporter_id"`
	Reporter   *User        `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Reason     ReportReason `gorm:"type:varchar(20);not null" json:"reason"`
	Details    string       `gorm:"type:text" json:"details,omitempty"`

	Status           string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedByUserID *uint      `json:"reviewed_by_user_id,omitempty"`
	ReviewedBy       *User      `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	AdminNotes       string     `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RatingReport) TableName() string {
	return "rating_reports"
}
