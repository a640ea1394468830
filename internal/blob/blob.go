// Package blob is the file store boundary: upload bytes under a key, get
// back an opaque handle, resolve the handle to a durable URL.
package blob

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Handle identifies an uploaded object. Opaque to callers.
type Handle string

type Store interface {
	Upload(ctx context.Context, key string, data []byte) (Handle, error)
	ResolveURL(ctx context.Context, h Handle) (string, error)
}

// ObjectKey builds the storage key for a post upload: namespaced by the
// author, stamped with upload time, keeping the original filename visible.
// The random infix avoids collisions between same-named files uploaded in
// the same millisecond.
func ObjectKey(authorUID, filename string) string {
	return fmt.Sprintf("posts/%s/%d_%s_%s",
		authorUID,
		time.Now().UnixMilli(),
		uuid.NewString()[:8],
		filepath.Base(filename),
	)
}
