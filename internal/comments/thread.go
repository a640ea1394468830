// Package comments binds a live comment thread: subscribe on open, replace
// the local list wholesale on every pushed snapshot, cancel on close.
package comments

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/imvicky69/wandermore/internal/identity"
	"github.com/imvicky69/wandermore/internal/models"
)

// ErrSignInRequired is returned when an unauthenticated submit is attempted.
// Callers surface it as a blocking alert; nothing is written.
var ErrSignInRequired = errors.New("sign in to leave a comment")

// Store is the slice of the document store the thread writes through.
type Store interface {
	AddComment(ctx context.Context, comment *models.Comment) error
}

// Feed delivers the full ordered comment list on every change.
type Feed interface {
	Updates() <-chan []models.Comment
	Close()
}

// SubscribeFunc opens the live view of a post's comment collection.
type SubscribeFunc func(postID string) (Feed, error)

// Thread is the live comment list for one post, ascending by timestamp.
type Thread struct {
	postID string
	store  Store
	feed   Feed

	mu       sync.Mutex
	comments []models.Comment

	drained sync.WaitGroup
	once    sync.Once
}

func Open(postID string, store Store, subscribe SubscribeFunc) (*Thread, error) {
	feed, err := subscribe(postID)
	if err != nil {
		return nil, err
	}

	t := &Thread{postID: postID, store: store, feed: feed}
	t.drained.Add(1)
	go func() {
		defer t.drained.Done()
		for snapshot := range feed.Updates() {
			t.mu.Lock()
			t.comments = snapshot
			t.mu.Unlock()
		}
	}()
	return t, nil
}

// Comments returns the thread as of the last delivered snapshot.
func (t *Thread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Comment(nil), t.comments...)
}

// Submit writes one comment. Whitespace-only text is a silent no-op; a
// missing identity aborts with ErrSignInRequired. The written comment shows
// up only when the subscription pushes it back; there is no local
// optimistic insert.
func (t *Thread) Submit(ctx context.Context, ident *identity.Identity, text string) error {
	return Submit(ctx, t.store, t.postID, ident, text)
}

// Submit is the write path shared by the thread binder and the HTTP
// surface.
func Submit(ctx context.Context, store Store, postID string, ident *identity.Identity, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if ident == nil {
		return ErrSignInRequired
	}

	authorName := ident.DisplayName
	if authorName == "" {
		authorName = "Anonymous"
	}

	return store.AddComment(ctx, &models.Comment{
		PostID:         postID,
		AuthorName:     authorName,
		AuthorImageURL: ident.PhotoURL,
		Text:           text,
	})
}

// Close cancels the subscription and waits for delivery to stop.
func (t *Thread) Close() {
	t.once.Do(func() {
		t.feed.Close()
		t.drained.Wait()
	})
}
