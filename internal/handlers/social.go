package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imvicky69/wandermore/internal/comments"
	"github.com/imvicky69/wandermore/internal/models"
)

// Like applies a +1 delta to the post's like counter. The client decides
// whether it is liking or unliking; the server applies the blind delta.
func (h *Handler) Like(c *gin.Context) {
	h.applyLikeDelta(c, +1)
}

// Unlike applies a -1 delta.
func (h *Handler) Unlike(c *gin.Context) {
	h.applyLikeDelta(c, -1)
}

func (h *Handler) applyLikeDelta(c *gin.Context, delta int) {
	postID := c.Param("id")
	if err := h.store.IncrementLikeCount(c.Request.Context(), postID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update like count"})
		return
	}

	if err := h.cache.InvalidateFeed(c.Request.Context()); err != nil {
		log.Printf("like: cache invalidation failed: %v", err)
	}

	post, err := h.store.GetPost(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"like_count": post.LikeCount})
}

// ListComments is the one-shot read of a post's thread, oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	list, err := h.store.CommentsByTimestampAsc(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}
	if list == nil {
		list = []models.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

// CreateComment writes one comment. Blank text is accepted and dropped
// silently; the client treats it as a no-op.
func (h *Handler) CreateComment(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, errors.New("invalid comment payload"))
		return
	}

	err := comments.Submit(c.Request.Context(), h.store, c.Param("id"), currentIdentity(c), body.Text)
	if errors.Is(err, comments.ErrSignInRequired) {
		authError(c, err.Error())
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post comment"})
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamComments pushes the full ordered thread over SSE on every change
// until the client disconnects.
func (h *Handler) StreamComments(c *gin.Context) {
	sub, err := h.store.SubscribeComments(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe"})
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return false
			}
			c.SSEvent("comments", snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// StreamPost pushes the post document over SSE whenever its like counter
// changes.
func (h *Handler) StreamPost(c *gin.Context) {
	sub, err := h.store.SubscribePost(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe"})
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case post, ok := <-sub.Updates():
			if !ok {
				return false
			}
			c.SSEvent("post", post)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
