package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imvicky69/wandermore/internal/blob"
	"github.com/imvicky69/wandermore/internal/identity"
	"github.com/imvicky69/wandermore/internal/models"
	"github.com/imvicky69/wandermore/internal/store"
)

// fakeBlobs records uploads and can fail a specific filename.
type fakeBlobs struct {
	mu       sync.Mutex
	uploads  int
	failName string
}

func (f *fakeBlobs) Upload(ctx context.Context, key string, data []byte) (blob.Handle, error) {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	if f.failName != "" && strings.Contains(key, f.failName) {
		return "", errors.New("upload rejected")
	}
	return blob.Handle(key), nil
}

func (f *fakeBlobs) ResolveURL(ctx context.Context, h blob.Handle) (string, error) {
	return "https://cdn.test/" + string(h), nil
}

func (f *fakeBlobs) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads
}

var ada = &identity.Identity{UID: "u1", DisplayName: "Ada", PhotoURL: "https://img.test/ada.png"}

func draftWithFiles(names ...string) Draft {
	d := Draft{Title: "Trip to the Alps", Excerpt: "So many peaks", Category: "Travel"}
	for _, n := range names {
		d.Files = append(d.Files, File{Name: n, Data: []byte("bytes")})
	}
	return d
}

func TestCreateRejectsMissingFields(t *testing.T) {
	c := New(store.NewMemory(), &fakeBlobs{})

	_, err := c.Create(context.Background(), ada, Draft{Title: " ", Excerpt: "x", Files: []File{{Name: "a.jpg", Data: []byte("x")}}})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = c.Create(context.Background(), ada, Draft{Title: "x", Excerpt: "\t", Files: []File{{Name: "a.jpg", Data: []byte("x")}}})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestCreateRejectsZeroFilesBeforeUploading(t *testing.T) {
	blobs := &fakeBlobs{}
	c := New(store.NewMemory(), blobs)

	_, err := c.Create(context.Background(), ada, draftWithFiles())
	require.ErrorIs(t, err, ErrNoFiles)
	assert.Zero(t, blobs.uploadCount())
}

func TestCreateRequiresIdentity(t *testing.T) {
	c := New(store.NewMemory(), &fakeBlobs{})
	_, err := c.Create(context.Background(), nil, draftWithFiles("a.jpg"))
	assert.ErrorIs(t, err, ErrSignInRequired)
}

func TestCreateSingleFileIsImage(t *testing.T) {
	mem := store.NewMemory()
	c := New(mem, &fakeBlobs{})

	post, err := c.Create(context.Background(), ada, draftWithFiles("peak.jpg"))
	require.NoError(t, err)

	assert.Equal(t, models.MediaImage, post.Media.Type)
	assert.Contains(t, post.Media.URL, "peak.jpg")
	assert.Nil(t, post.Media.URLs)
	assert.NoError(t, post.Media.Validate())
	assert.Equal(t, 0, post.LikeCount)
	assert.Equal(t, "trip-to-the-alps", post.Slug)
	assert.Equal(t, "Ada", post.AuthorName)
	assert.False(t, post.PublishedAt.IsZero())
}

func TestCreateManyFilesIsGalleryInSelectionOrder(t *testing.T) {
	mem := store.NewMemory()
	c := New(mem, &fakeBlobs{})

	names := []string{"one.jpg", "two.jpg", "three.jpg", "four.jpg"}
	post, err := c.Create(context.Background(), ada, draftWithFiles(names...))
	require.NoError(t, err)

	require.Equal(t, models.MediaGallery, post.Media.Type)
	require.Len(t, post.Media.URLs, len(names))
	for i, name := range names {
		assert.Contains(t, post.Media.URLs[i], name, fmt.Sprintf("url %d out of order", i))
	}
	assert.NoError(t, post.Media.Validate())
}

func TestCreateFailedUploadIsGenericWithNoPost(t *testing.T) {
	mem := store.NewMemory()
	c := New(mem, &fakeBlobs{failName: "two.jpg"})

	_, err := c.Create(context.Background(), ada, draftWithFiles("one.jpg", "two.jpg", "three.jpg"))
	require.ErrorIs(t, err, ErrUploadFailed)

	posts, err := mem.PostsByPublishedAtDesc(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreateDefaultsCategory(t *testing.T) {
	c := New(store.NewMemory(), &fakeBlobs{})

	d := draftWithFiles("a.jpg")
	d.Category = ""
	post, err := c.Create(context.Background(), ada, d)
	require.NoError(t, err)
	assert.Equal(t, "Travel", post.Category)

	d.Category = "Skydiving"
	_, err = c.Create(context.Background(), ada, d)
	assert.ErrorIs(t, err, ErrBadCategory)
}

func TestCreateAnonymousAuthorFallback(t *testing.T) {
	c := New(store.NewMemory(), &fakeBlobs{})

	post, err := c.Create(context.Background(), &identity.Identity{UID: "u2"}, draftWithFiles("a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", post.AuthorName)
}
