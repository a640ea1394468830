// Package likes implements the optimistic like toggle: flip the local state
// first, persist the client-side liked set, then send the atomic delta, and
// roll everything back if the remote write fails.
package likes

import (
	"context"
	"log"
	"sync"

	"github.com/imvicky69/wandermore/internal/models"
)

// Store is the slice of the document store the controller writes through.
type Store interface {
	IncrementLikeCount(ctx context.Context, postID string, delta int) error
}

// PostFeed delivers the watched post document on every server-side change.
type PostFeed interface {
	Updates() <-chan models.Post
	Close()
}

// SubscribeFunc opens the live view of a single post.
type SubscribeFunc func(postID string) (PostFeed, error)

// LikedSet is the client-local record of which posts this client has liked.
// It only gates whether the next toggle increments or decrements; the
// authoritative aggregate lives on the post document.
type LikedSet interface {
	List() []string
	Contains(postID string) bool
	Add(postID string)
	Remove(postID string)
	Replace(ids []string)
}

// Controller drives one like button. The displayed count tracks the
// server-pushed value except during the optimistic window between a toggle
// and its remote confirmation.
type Controller struct {
	postID string
	store  Store
	set    LikedSet
	feed   PostFeed

	mu    sync.Mutex
	count int
	liked bool

	closed  chan struct{}
	drained sync.WaitGroup
}

// NewController seeds the displayed count, derives the liked flag from the
// persisted set and opens the live subscription on the post document.
func NewController(postID string, initialCount int, store Store, subscribe SubscribeFunc, set LikedSet) (*Controller, error) {
	feed, err := subscribe(postID)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		postID: postID,
		store:  store,
		set:    set,
		feed:   feed,
		count:  initialCount,
		liked:  set.Contains(postID),
		closed: make(chan struct{}),
	}

	c.drained.Add(1)
	go func() {
		defer c.drained.Done()
		for post := range feed.Updates() {
			c.mu.Lock()
			c.count = post.LikeCount
			c.mu.Unlock()
		}
	}()
	return c, nil
}

// Toggle flips the like. The local count, flag and persisted set change
// before the network round-trip; a failed remote write reverts all three.
// Rapid toggles are deliberately not serialized; the subscription push
// corrects any transient skew.
func (c *Controller) Toggle(ctx context.Context) error {
	prevSet := c.set.List()

	c.mu.Lock()
	wasLiked := c.liked
	prevCount := c.count
	if wasLiked {
		c.count--
		c.liked = false
	} else {
		c.count++
		c.liked = true
	}
	c.mu.Unlock()

	if wasLiked {
		c.set.Remove(c.postID)
	} else {
		c.set.Add(c.postID)
	}

	delta := 1
	if wasLiked {
		delta = -1
	}
	if err := c.store.IncrementLikeCount(ctx, c.postID, delta); err != nil {
		c.mu.Lock()
		c.count = prevCount
		c.liked = wasLiked
		c.mu.Unlock()
		c.set.Replace(prevSet)
		log.Printf("like toggle on post %s rolled back: %v", c.postID, err)
		return err
	}
	return nil
}

// Count is the currently displayed like count.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Liked reports whether this client currently shows the post as liked.
func (c *Controller) Liked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liked
}

// Close cancels the live subscription and waits for delivery to stop.
func (c *Controller) Close() {
	select {
	case <-c.closed:
		return
	default:
	}
	close(c.closed)
	c.feed.Close()
	c.drained.Wait()
}
