package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/imvicky69/wandermore/internal/blob"
	"github.com/imvicky69/wandermore/internal/cache"
	"github.com/imvicky69/wandermore/internal/composer"
	"github.com/imvicky69/wandermore/internal/database"
	"github.com/imvicky69/wandermore/internal/feed"
	"github.com/imvicky69/wandermore/internal/handlers"
	"github.com/imvicky69/wandermore/internal/identity"
	"github.com/imvicky69/wandermore/internal/messaging"
	"github.com/imvicky69/wandermore/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	db, err := database.Open()
	if err != nil {
		log.Fatal(err)
	}

	hub, err := messaging.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer hub.Close()

	// Redis is optional; without it every feed load hits Postgres.
	feedCache, err := cache.New()
	if err != nil {
		log.Printf("Redis unavailable, feed caching disabled: %v", err)
		feedCache = nil
	}

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	mediaRoot := os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "./data/media"
	}
	blobs, err := blob.NewDisk(mediaRoot, siteURL+"/media")
	if err != nil {
		log.Fatal(err)
	}

	docs := store.New(db, hub)
	idp := identity.NewGoogle(db)

	h := handlers.New(
		docs,
		feed.New(docs, feedCache),
		composer.New(docs, blobs),
		feedCache,
		idp,
	)

	r := gin.Default()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	r.Use(sessions.Sessions("wandermore_session", cookie.NewStore([]byte(secret))))
	r.Static("/media", blobs.Root())

	h.Register(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Wandermore server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
