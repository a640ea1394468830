package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaGallery MediaType = "gallery"
	MediaVideo   MediaType = "video"
)

// Media describes what a post carries: a single image or video URL, or an
// ordered gallery of at least two URLs.
type Media struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url,omitempty"`
	URLs []string  `json:"urls,omitempty"`
}

func (m Media) Validate() error {
	switch m.Type {
	case MediaImage, MediaVideo:
		if m.URL == "" || len(m.URLs) > 0 {
			return fmt.Errorf("%s media must carry exactly one url", m.Type)
		}
	case MediaGallery:
		if m.URL != "" || len(m.URLs) < 2 {
			return errors.New("gallery media must carry at least two urls")
		}
	default:
		return fmt.Errorf("unknown media type %q", m.Type)
	}
	return nil
}

// Stored as a jsonb column.
func (m Media) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Media) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = Media{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Media", value)
}

var Categories = []string{"Travel", "Adventure", "Food", "Nature", "Culture", "Photography"}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Post struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title          string    `json:"title" gorm:"not null"`
	Slug           string    `json:"slug" gorm:"not null"`
	Excerpt        string    `json:"excerpt" gorm:"not null"`
	AuthorName     string    `json:"author_name" gorm:"not null"`
	AuthorImageURL string    `json:"author_image_url"`
	AuthorID       string    `json:"author_id" gorm:"not null"`
	Category       string    `json:"category" gorm:"not null"`
	Media          Media     `json:"media" gorm:"type:jsonb"`
	PublishedAt    time.Time `json:"published_at"`
	LikeCount      int       `json:"like_count" gorm:"default:0"`
}

// Slugify derives a post slug the same way the create form does: lowercase
// the title and collapse whitespace runs into single hyphens.
func Slugify(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}
