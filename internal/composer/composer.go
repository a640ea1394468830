// Package composer validates the create-post form, uploads the selected
// files and writes the post document.
package composer

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/imvicky69/wandermore/internal/blob"
	"github.com/imvicky69/wandermore/internal/identity"
	"github.com/imvicky69/wandermore/internal/models"
)

var (
	ErrSignInRequired = errors.New("you must be signed in to create a post")
	ErrMissingFields  = errors.New("please fill in all required fields")
	ErrNoFiles        = errors.New("please select at least one image or video")
	ErrBadCategory    = errors.New("unknown category")

	// ErrUploadFailed is the single generic error reported when any upload
	// rejects. Already-uploaded blobs are not cleaned up.
	ErrUploadFailed = errors.New("failed to create post, please try again")
)

// File is one selected upload, in selection order.
type File struct {
	Name string
	Data []byte
}

type Draft struct {
	Title    string
	Excerpt  string
	Category string
	Files    []File
}

type Store interface {
	AddPost(ctx context.Context, post *models.Post) error
}

type Composer struct {
	store Store
	blobs blob.Store
}

func New(store Store, blobs blob.Store) *Composer {
	return &Composer{store: store, blobs: blobs}
}

// Create validates the draft, uploads every file concurrently, derives the
// media descriptor from the resolved URLs (gallery when more than one,
// image otherwise) and writes one post with a zero like count.
func (c *Composer) Create(ctx context.Context, ident *identity.Identity, draft Draft) (*models.Post, error) {
	if ident == nil {
		return nil, ErrSignInRequired
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Excerpt) == "" {
		return nil, ErrMissingFields
	}
	if len(draft.Files) == 0 {
		return nil, ErrNoFiles
	}

	category := draft.Category
	if category == "" {
		category = "Travel"
	}
	if !models.ValidCategory(category) {
		return nil, ErrBadCategory
	}

	urls, err := c.uploadAll(ctx, ident.UID, draft.Files)
	if err != nil {
		log.Printf("composer: upload failed: %v", err)
		return nil, ErrUploadFailed
	}

	media := models.Media{Type: models.MediaImage, URL: urls[0]}
	if len(urls) > 1 {
		media = models.Media{Type: models.MediaGallery, URLs: urls}
	}

	authorName := ident.DisplayName
	if authorName == "" {
		authorName = "Anonymous"
	}

	post := &models.Post{
		Title:          draft.Title,
		Slug:           models.Slugify(draft.Title),
		Excerpt:        draft.Excerpt,
		AuthorName:     authorName,
		AuthorImageURL: ident.PhotoURL,
		AuthorID:       ident.UID,
		Category:       category,
		Media:          media,
		LikeCount:      0,
	}
	if err := c.store.AddPost(ctx, post); err != nil {
		return nil, ErrUploadFailed
	}
	return post, nil
}

// uploadAll pushes every file concurrently and returns the resolved URLs in
// selection order. Any single failure fails the batch; completed uploads
// are left behind.
func (c *Composer) uploadAll(ctx context.Context, uid string, files []File) ([]string, error) {
	urls := make([]string, len(files))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()

			key := blob.ObjectKey(uid, f.Name)
			handle, err := c.blobs.Upload(ctx, key, f.Data)
			if err == nil {
				urls[i], err = c.blobs.ResolveURL(ctx, handle)
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(i, f)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return urls, nil
}
