package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/imvicky69/wandermore/internal/models"
)

// Subjects carrying store change notifications. Per-post subjects keep a
// subscription scoped to exactly one document or one comment collection.
const (
	SubjectPostCreated = "post.created"
)

func SubjectPostLiked(postID string) string {
	return fmt.Sprintf("post.%s.liked", postID)
}

func SubjectPostComments(postID string) string {
	return fmt.Sprintf("post.%s.comments", postID)
}

// Hub wraps the NATS connection used as the subscribe-for-changes primitive:
// every store write publishes, every live binder subscribes.
type Hub struct {
	conn *nats.Conn
}

func Connect() (*Hub, error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = fmt.Sprintf("nats://%s:%s", envOr("NATS_HOST", "localhost"), envOr("NATS_PORT", "4222"))
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	log.Println("NATS connected")
	return &Hub{conn: conn}, nil
}

// Event payloads.

type PostCreatedEvent struct {
	PostID     string    `json:"post_id"`
	Title      string    `json:"title"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Timestamp  time.Time `json:"timestamp"`
}

type PostLikedEvent struct {
	PostID    string    `json:"post_id"`
	LikeCount int       `json:"like_count"`
	Timestamp time.Time `json:"timestamp"`
}

type CommentAddedEvent struct {
	PostID     string    `json:"post_id"`
	CommentID  string    `json:"comment_id"`
	AuthorName string    `json:"author_name"`
	Timestamp  time.Time `json:"timestamp"`
}

func (h *Hub) PublishPostCreated(post models.Post) error {
	return h.publish(SubjectPostCreated, PostCreatedEvent{
		PostID:     post.ID,
		Title:      post.Title,
		AuthorID:   post.AuthorID,
		AuthorName: post.AuthorName,
		Timestamp:  post.PublishedAt,
	})
}

func (h *Hub) PublishPostLiked(postID string, likeCount int) error {
	return h.publish(SubjectPostLiked(postID), PostLikedEvent{
		PostID:    postID,
		LikeCount: likeCount,
		Timestamp: time.Now(),
	})
}

func (h *Hub) PublishCommentAdded(comment models.Comment) error {
	return h.publish(SubjectPostComments(comment.PostID), CommentAddedEvent{
		PostID:     comment.PostID,
		CommentID:  comment.ID,
		AuthorName: comment.AuthorName,
		Timestamp:  comment.CreatedAt,
	})
}

func (h *Hub) publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.conn.Publish(subject, data)
}

// Subscribe delivers every message on subject to handler until the returned
// subscription is unsubscribed.
func (h *Hub) Subscribe(subject string, handler func([]byte)) (*nats.Subscription, error) {
	return h.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

func (h *Hub) Close() {
	h.conn.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
