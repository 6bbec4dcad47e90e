package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxRatingEdits caps how many times a rating may be edited after creation.
const MaxRatingEdits = 3

// Rating is a user's review of a clinic or practitioner.
// At most one non-deleted rating may exist per (subject, user); the partial
// unique index enforcing this is created in database.Connect since GORM tags
// cannot express the deleted_at IS NULL predicate.
type Rating struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	SubjectType SubjectType `gorm:"type:varchar(20);not null;index:idx_ratings_subject" json:"subject_type"`
	SubjectID   uint        `gorm:"not null;index:idx_ratings_subject" json:"subject_id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"user"`

	Overall   int        `gorm:"not null" json:"overall"`
	Title     string     `gorm:"size:200" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`

	Dimensions []RatingDimension `gorm:"foreignKey:RatingID" json:"dimensions,omitempty"`

	HelpfulCount    int `gorm:"not null;default:0" json:"helpful_count"`
	NotHelpfulCount int `gorm:"not null;default:0" json:"not_helpful_count"`

	EditCount    int        `gorm:"not null;default:0" json:"edit_count"`
	IsEdited     bool       `gorm:"default:false" json:"is_edited"`
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`
	EditReason   string     `json:"edit_reason,omitempty"`

	IsFlagged       bool       `gorm:"default:false;index" json:"is_flagged"`
	FlagReason      string     `json:"flag_reason,omitempty"`
	FlaggedByUserID *uint      `json:"flagged_by_user_id,omitempty"`
	FlaggedAt       *time.Time `json:"flagged_at,omitempty"`

	// Subject is not persisted; populated at query time for display.
	Subject *SubjectRef `gorm:"-" json:"subject,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Rating) TableName() string {
	return "ratings"
}

// RatingDimension is a named sub-score (1-5) attached to a rating.
// The allowed label set depends on the rating's subject type.
type RatingDimension struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	RatingID uint   `gorm:"not null;uniqueIndex:idx_rating_dimension" json:"-"`
	Name     string `gorm:"size:40;not null;uniqueIndex:idx_rating_dimension" json:"name"`
	Score    int    `gorm:"not null" json:"score"`
}

// TableName specifies the table name for GORM.
func (RatingDimension) TableName() string {
	return "rating_dimensions"
}

// RatingVote is a per-user helpfulness judgment on a rating.
// The combination of RatingID and UserID must be unique; repeat votes either
// toggle the row off or flip is_helpful in place.
type RatingVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RatingID  uint      `gorm:"not null;uniqueIndex:idx_rating_vote_user" json:"rating_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_vote_user" json:"user_id"`
	IsHelpful bool      `gorm:"not null" json:"is_helpful"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RatingVote) TableName() string {
	return "rating_votes"
}

// VoteAction describes what a vote request did, so clients can adjust
// locally cached counts without a refetch.
type VoteAction string

const (
	// VoteActionCreated means a new vote row was inserted.
	VoteActionCreated VoteAction = "created"
	// VoteActionUpdated means an existing vote flipped sides.
	VoteActionUpdated VoteAction = "updated"
	// VoteActionRemoved means a same-side repeat vote toggled the row off.
	VoteActionRemoved VoteAction = "removed"
)

// RatingSummary is the computed aggregate for a subject's ratings.
type RatingSummary struct {
	SubjectType       SubjectType        `json:"subject_type"`
	SubjectID         uint               `json:"subject_id"`
	Total             int                `json:"total"`
	Average           float64            `json:"average"`
	Distribution      map[int]int        `json:"distribution,omitempty"`
	DimensionAverages map[string]float64 `json:"dimension_averages,omitempty"`
}
