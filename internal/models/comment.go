package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentDepth bounds threaded replies. Top-level comments have depth 1.
const MaxCommentDepth = 3

// Comment represents a comment on a post, optionally a reply to another comment.
type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Content  string   `gorm:"not null" json:"content"`
	UserID   uint     `gorm:"not null" json:"user_id"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	ParentID *uint    `gorm:"index" json:"parent_id,omitempty"`
	Depth    int      `gorm:"not null;default:1" json:"depth"`
	User     User     `gorm:"foreignKey:UserID" json:"user"`
	Post     Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Parent   *Comment `gorm:"foreignKey:ParentID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
