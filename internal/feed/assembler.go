// Package feed assembles the home feed: one-shot fetch of every post,
// newest first. Not a live view; the page refetches on load.
package feed

import (
	"context"
	"log"

	"github.com/imvicky69/wandermore/internal/cache"
	"github.com/imvicky69/wandermore/internal/models"
)

type Store interface {
	PostsByPublishedAtDesc(ctx context.Context) ([]models.Post, error)
}

type Assembler struct {
	store Store
	cache *cache.Cache
}

// New builds the assembler. cache may be nil to skip the Redis layer.
func New(store Store, c *cache.Cache) *Assembler {
	return &Assembler{store: store, cache: c}
}

// Posts returns the full feed snapshot. A cache hit short-circuits the
// store; a store failure propagates to the caller unrecovered.
func (a *Assembler) Posts(ctx context.Context) ([]models.Post, error) {
	if posts, err := a.cache.Feed(ctx); err == nil && len(posts) > 0 {
		return posts, nil
	}

	posts, err := a.store.PostsByPublishedAtDesc(ctx)
	if err != nil {
		return nil, err
	}

	if len(posts) > 0 {
		if err := a.cache.SetFeed(ctx, posts); err != nil {
			log.Printf("feed: cache write failed: %v", err)
		}
	}
	return posts, nil
}
