package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskUploadResolveRoundTrip(t *testing.T) {
	d, err := NewDisk(t.TempDir(), "http://localhost:8080/media/")
	require.NoError(t, err)

	key := ObjectKey("u1", "peak.jpg")
	h, err := d.Upload(context.Background(), key, []byte("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, Handle(key), h)

	url, err := d.ResolveURL(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/"+key, url)

	data, err := os.ReadFile(filepath.Join(d.Root(), filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestDiskRejectsEmptyUpload(t *testing.T) {
	d, err := NewDisk(t.TempDir(), "http://localhost:8080/media")
	require.NoError(t, err)

	_, err = d.Upload(context.Background(), "posts/u1/x.jpg", nil)
	assert.Error(t, err)
}

func TestDiskResolveMissingObject(t *testing.T) {
	d, err := NewDisk(t.TempDir(), "http://localhost:8080/media")
	require.NoError(t, err)

	_, err = d.ResolveURL(context.Background(), "posts/u1/never-uploaded.jpg")
	assert.Error(t, err)
}

func TestObjectKeyShape(t *testing.T) {
	key := ObjectKey("user-9", "sub/dir/My Photo.JPG")

	assert.True(t, strings.HasPrefix(key, "posts/user-9/"))
	assert.True(t, strings.HasSuffix(key, "_My Photo.JPG"))
	assert.NotContains(t, strings.TrimPrefix(key, "posts/user-9/"), "/")

	// Two keys for the same file still differ.
	assert.NotEqual(t, key, ObjectKey("user-9", "sub/dir/My Photo.JPG"))
}
