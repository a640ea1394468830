package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/imvicky69/wandermore/internal/models"
)

// Open connects to Postgres and migrates the schema. DSN pieces come from
// the environment with local-dev fallbacks.
func Open() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "wandermore"),
			envOr("DB_PORT", "5432"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Indexes backing the two ordered reads: the feed (published_at desc)
	// and per-post comment threads (post_id, created_at asc).
	db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id)")

	log.Println("Database connected and migrated")
	return db, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
