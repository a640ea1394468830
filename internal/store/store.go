// Package store is the remote document store boundary: Postgres holds the
// documents, NATS carries the change pushes that drive live subscriptions.
// Writers never read-modify-write the like counter; the increment is a blind
// atomic delta applied by the database.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/imvicky69/wandermore/internal/messaging"
	"github.com/imvicky69/wandermore/internal/models"
)

type Store struct {
	db  *gorm.DB
	hub *messaging.Hub
}

func New(db *gorm.DB, hub *messaging.Hub) *Store {
	return &Store{db: db, hub: hub}
}

// PostsByPublishedAtDesc is the one-shot feed snapshot: every post, newest
// first. No pagination.
func (s *Store) PostsByPublishedAtDesc(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Order("published_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("fetch author posts: %w", err)
	}
	return posts, nil
}

// AddPost assigns the server timestamp, persists the document and announces
// it. The store hands out the document id.
func (s *Store) AddPost(ctx context.Context, post *models.Post) error {
	post.PublishedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	s.hub.PublishPostCreated(*post)
	return nil
}

// IncrementLikeCount applies a signed delta to the post's like counter
// without reading it first, then pushes the new value to subscribers. The
// counter is an aggregate, not a membership set: concurrent deltas from
// different clients simply add up.
func (s *Store) IncrementLikeCount(ctx context.Context, postID string, delta int) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update like count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	s.hub.PublishPostLiked(postID, post.LikeCount)
	return nil
}

// CommentsByTimestampAsc returns the full comment thread, oldest first.
func (s *Store) CommentsByTimestampAsc(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	return comments, nil
}

// AddComment persists the comment with a server-assigned timestamp and
// notifies the post's comment subscribers.
func (s *Store) AddComment(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	s.hub.PublishCommentAdded(*comment)
	return nil
}

// SubscribePost delivers the post document now and again after every like
// counter change, until the subscription is closed.
func (s *Store) SubscribePost(postID string) (*PostSubscription, error) {
	fetch := func() (*models.Post, error) {
		return s.GetPost(context.Background(), postID)
	}
	watch := func(notify func()) (func(), error) {
		sub, err := s.hub.Subscribe(messaging.SubjectPostLiked(postID), func([]byte) { notify() })
		if err != nil {
			return nil, err
		}
		return func() { sub.Unsubscribe() }, nil
	}
	return newPostSubscription(fetch, watch)
}

// SubscribeComments delivers the whole ordered comment list now and again
// after every insert. Snapshots replace local state wholesale; there is no
// diffing at this layer.
func (s *Store) SubscribeComments(postID string) (*CommentSubscription, error) {
	fetch := func() ([]models.Comment, error) {
		return s.CommentsByTimestampAsc(context.Background(), postID)
	}
	watch := func(notify func()) (func(), error) {
		sub, err := s.hub.Subscribe(messaging.SubjectPostComments(postID), func([]byte) { notify() })
		if err != nil {
			return nil, err
		}
		return func() { sub.Unsubscribe() }, nil
	}
	return newCommentSubscription(fetch, watch)
}
