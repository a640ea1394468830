// Package handlers is the HTTP surface: the page routes the app always had
// (/, /create, /profile, /login, /signup) plus the JSON and SSE endpoints
// that back likes and live comment threads.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imvicky69/wandermore/internal/cache"
	"github.com/imvicky69/wandermore/internal/composer"
	"github.com/imvicky69/wandermore/internal/feed"
	"github.com/imvicky69/wandermore/internal/models"
	"github.com/imvicky69/wandermore/internal/store"
)

// DocStore is the document store surface the handlers consume. Both the
// Postgres/NATS store and the in-memory store satisfy it.
type DocStore interface {
	PostsByPublishedAtDesc(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	AddPost(ctx context.Context, post *models.Post) error
	IncrementLikeCount(ctx context.Context, postID string, delta int) error
	CommentsByTimestampAsc(ctx context.Context, postID string) ([]models.Comment, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	SubscribePost(postID string) (*store.PostSubscription, error)
	SubscribeComments(postID string) (*store.CommentSubscription, error)
}

// IdentityService is the OAuth glue the auth handlers consume.
type IdentityService interface {
	AuthURL(state string) string
	SignIn(ctx context.Context, code string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	store    DocStore
	feed     *feed.Assembler
	composer *composer.Composer
	cache    *cache.Cache
	idp      IdentityService
}

func New(docs DocStore, f *feed.Assembler, cmp *composer.Composer, c *cache.Cache, idp IdentityService) *Handler {
	return &Handler{store: docs, feed: f, composer: cmp, cache: c, idp: idp}
}

func (h *Handler) Register(r *gin.Engine) {
	r.Use(h.LoadUser())

	r.GET("/", h.Feed)
	r.GET("/login", h.StartGoogleLogin)
	r.GET("/signup", h.StartGoogleLogin)
	r.GET("/auth/google/callback", h.GoogleCallback)
	r.GET("/logout", h.Logout)

	r.GET("/posts/:id", h.GetPost)
	r.GET("/posts/:id/stream", h.StreamPost)
	r.POST("/posts/:id/like", h.Like)
	r.POST("/posts/:id/unlike", h.Unlike)
	r.GET("/posts/:id/comments", h.ListComments)
	r.POST("/posts/:id/comments", h.CreateComment)
	r.GET("/posts/:id/comments/stream", h.StreamComments)

	authorized := r.Group("/")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/profile", h.Profile)
		authorized.POST("/create", h.CreatePost)
	}
}

// validationError renders the inline-banner shape used by the forms.
func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// authError renders the blocking-alert shape used for auth-gated actions.
func authError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message, "alert": true})
}
