package models

import (
	"time"
)

// Comment belongs to exactly one post. Comments are immutable once written
// and are always displayed ascending by creation time.
type Comment struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PostID         string    `json:"post_id" gorm:"not null;index:idx_comments_post_created"`
	AuthorName     string    `json:"author_name" gorm:"not null"`
	AuthorImageURL string    `json:"author_image_url"`
	Text           string    `json:"text" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_comments_post_created"`
}
