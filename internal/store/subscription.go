package store

import (
	"log"
	"sync"

	"github.com/imvicky69/wandermore/internal/models"
)

// Subscriptions deliver server-ordered snapshots over a channel until Close
// is called. Deliveries are serialized: a snapshot is fully handed to the
// consumer before the next one is fetched, and change notifications that
// arrive mid-delivery coalesce into a single refetch.

// PostSubscription watches a single post document.
type PostSubscription struct {
	updates chan models.Post
	notify  chan struct{}
	done    chan struct{}
	cancel  func()
	once    sync.Once
}

// watchFunc registers notify with a change source and returns the
// deregistration hook.
type watchFunc func(notify func()) (cancel func(), err error)

func newPostSubscription(fetch func() (*models.Post, error), watch watchFunc) (*PostSubscription, error) {
	ps := &PostSubscription{
		updates: make(chan models.Post, 1),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	cancel, err := watch(ps.wake)
	if err != nil {
		return nil, err
	}
	ps.cancel = cancel

	go func() {
		defer close(ps.updates)
		for first := true; ; first = false {
			if !first {
				select {
				case <-ps.done:
					return
				case <-ps.notify:
				}
			}
			post, err := fetch()
			if err != nil {
				log.Printf("post subscription: fetch failed: %v", err)
				if first {
					return
				}
				continue
			}
			select {
			case <-ps.done:
				return
			case ps.updates <- *post:
			}
		}
	}()
	return ps, nil
}

// Updates yields the latest post document. The channel is closed after
// Close or if the initial fetch fails.
func (ps *PostSubscription) Updates() <-chan models.Post {
	return ps.updates
}

// Close cancels the subscription. Safe to call more than once.
func (ps *PostSubscription) Close() {
	ps.once.Do(func() {
		ps.cancel()
		close(ps.done)
	})
}

func (ps *PostSubscription) wake() {
	select {
	case ps.notify <- struct{}{}:
	default:
	}
}

// CommentSubscription watches a post's comment collection.
type CommentSubscription struct {
	updates chan []models.Comment
	notify  chan struct{}
	done    chan struct{}
	cancel  func()
	once    sync.Once
}

func newCommentSubscription(fetch func() ([]models.Comment, error), watch watchFunc) (*CommentSubscription, error) {
	cs := &CommentSubscription{
		updates: make(chan []models.Comment, 1),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	cancel, err := watch(cs.wake)
	if err != nil {
		return nil, err
	}
	cs.cancel = cancel

	go func() {
		defer close(cs.updates)
		for first := true; ; first = false {
			if !first {
				select {
				case <-cs.done:
					return
				case <-cs.notify:
				}
			}
			comments, err := fetch()
			if err != nil {
				log.Printf("comment subscription: fetch failed: %v", err)
				if first {
					return
				}
				continue
			}
			select {
			case <-cs.done:
				return
			case cs.updates <- comments:
			}
		}
	}()
	return cs, nil
}

// Updates yields the full ordered comment list on every change.
func (cs *CommentSubscription) Updates() <-chan []models.Comment {
	return cs.updates
}

// Close cancels the subscription. Safe to call more than once.
func (cs *CommentSubscription) Close() {
	cs.once.Do(func() {
		cs.cancel()
		close(cs.done)
	})
}

func (cs *CommentSubscription) wake() {
	select {
	case cs.notify <- struct{}{}:
	default:
	}
}
