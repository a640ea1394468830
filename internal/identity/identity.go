// Package identity is the identity provider boundary. Google owns the
// accounts; this package only exchanges OAuth codes for a profile snapshot
// and hands out change notifications to whoever asks for them.
package identity

import (
	"sync"
)

// Identity is the profile snapshot stamped onto posts and comments at write
// time. The provider stays authoritative; nothing here is re-synced later.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
	Email       string `json:"email"`
}

// Watcher is an explicit subscribe/unsubscribe capability for identity
// changes, passed to components that need the current identity instead of a
// process-global auth context. Set(nil) means signed out.
type Watcher struct {
	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextID  int
}

func NewWatcher() *Watcher {
	return &Watcher{subs: make(map[int]func(*Identity))}
}

// Current returns the identity as of the last Set, or nil when signed out.
func (w *Watcher) Current() *Identity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Set records the new identity and notifies every subscriber.
func (w *Watcher) Set(ident *Identity) {
	w.mu.Lock()
	w.current = ident
	subs := make([]func(*Identity), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn(ident)
	}
}

// OnChange registers fn for future identity changes and returns the
// unsubscribe hook. fn is not called with the current value.
func (w *Watcher) OnChange(fn func(*Identity)) (cancel func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}
