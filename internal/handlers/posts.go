package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imvicky69/wandermore/internal/auth"
	"github.com/imvicky69/wandermore/internal/composer"
	"github.com/imvicky69/wandermore/internal/models"
)

// Feed is the home page: every post, newest first. Zero posts is a valid
// empty state, not an error.
func (h *Handler) Feed(c *gin.Context) {
	posts, err := h.feed.Posts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.store.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Profile returns the signed-in user's identity, their posts and a bearer
// token for the JSON API.
func (h *Handler) Profile(c *gin.Context) {
	ident := currentIdentity(c)

	posts, err := h.store.PostsByAuthor(c.Request.Context(), ident.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	token, err := auth.GenerateToken(ident.UID, ident.DisplayName, ident.PhotoURL)
	if err != nil {
		log.Printf("profile: token generation failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"identity":  ident,
		"posts":     posts,
		"api_token": token,
	})
}

// CreatePost handles the multipart create form and redirects home on
// success, mirroring the page flow.
func (h *Handler) CreatePost(c *gin.Context) {
	ident := currentIdentity(c)

	form, err := c.MultipartForm()
	if err != nil {
		validationError(c, errors.New("invalid form submission"))
		return
	}

	draft := composer.Draft{
		Title:    c.PostForm("title"),
		Excerpt:  c.PostForm("excerpt"),
		Category: c.PostForm("category"),
	}

	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			validationError(c, errors.New("could not read uploaded file"))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			validationError(c, errors.New("could not read uploaded file"))
			return
		}
		draft.Files = append(draft.Files, composer.File{Name: fh.Filename, Data: data})
	}

	post, err := h.composer.Create(c.Request.Context(), ident, draft)
	switch {
	case err == nil:
	case errors.Is(err, composer.ErrSignInRequired):
		authError(c, err.Error())
		return
	case errors.Is(err, composer.ErrMissingFields),
		errors.Is(err, composer.ErrNoFiles),
		errors.Is(err, composer.ErrBadCategory):
		validationError(c, err)
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": composer.ErrUploadFailed.Error()})
		return
	}

	// The feed changed; drop the cached snapshot.
	if err := h.cache.InvalidateFeed(c.Request.Context()); err != nil {
		log.Printf("create post: cache invalidation failed: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{"post": post, "redirect": "/"})
}
