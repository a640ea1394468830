package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const resolveCacheSize = 500

type cachedURL struct {
	url       string
	expiresAt time.Time
}

// Disk stores objects under a root directory and serves them from a public
// base URL (the server mounts the root as static). Resolved URLs are
// memoized in a small LRU with a TTL so hot gallery posts do not stat the
// filesystem on every render.
type Disk struct {
	root    string
	baseURL string
	ttl     time.Duration
	urls    *lru.Cache[Handle, cachedURL]
}

func NewDisk(root, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	cache, err := lru.New[Handle, cachedURL](resolveCacheSize)
	if err != nil {
		return nil, err
	}
	return &Disk{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ttl:     10 * time.Minute,
		urls:    cache,
	}, nil
}

func (d *Disk) Upload(ctx context.Context, key string, data []byte) (Handle, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("upload %s: empty file", key)
	}

	path := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return Handle(key), nil
}

func (d *Disk) ResolveURL(ctx context.Context, h Handle) (string, error) {
	if cached, ok := d.urls.Get(h); ok && time.Now().Before(cached.expiresAt) {
		return cached.url, nil
	}

	path := filepath.Join(d.root, filepath.FromSlash(string(h)))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resolve %s: %w", h, err)
	}

	url := d.baseURL + "/" + string(h)
	d.urls.Add(h, cachedURL{url: url, expiresAt: time.Now().Add(d.ttl)})
	return url, nil
}

// Root is the directory the server mounts as static media.
func (d *Disk) Root() string {
	return d.root
}
