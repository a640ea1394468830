package models

import (
	"time"
)

// User is the local record created the first time a Google identity signs
// in. The identity provider stays authoritative; this row only pins the
// author snapshot used on posts and comments.
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	GoogleID    string    `json:"google_id" gorm:"uniqueIndex;not null"`
	DisplayName string    `json:"display_name" gorm:"not null"`
	Email       string    `json:"email" gorm:"index;not null"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
