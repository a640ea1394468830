package likes

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// FileSet persists the liked-post ids as a JSON-encoded list in a single
// file, the same shape the browser kept under its "likedPosts" key. Reads
// are best-effort: a missing or corrupt file means nothing is liked.
type FileSet struct {
	mu   sync.Mutex
	path string
}

func NewFileSet(path string) *FileSet {
	return &FileSet{path: path}
}

func (f *FileSet) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileSet) Contains(postID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.load() {
		if id == postID {
			return true
		}
	}
	return false
}

func (f *FileSet) Add(postID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.load()
	for _, id := range ids {
		if id == postID {
			return
		}
	}
	f.save(append(ids, postID))
}

func (f *FileSet) Remove(postID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.load()
	kept := ids[:0]
	for _, id := range ids {
		if id != postID {
			kept = append(kept, id)
		}
	}
	f.save(kept)
}

func (f *FileSet) Replace(ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.save(ids)
}

func (f *FileSet) load() []string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil
	}
	return ids
}

func (f *FileSet) save(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		log.Printf("liked set: persist failed: %v", err)
	}
}
