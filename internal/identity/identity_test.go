package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatcherCurrentStartsSignedOut(t *testing.T) {
	w := NewWatcher()
	assert.Nil(t, w.Current())
}

func TestWatcherNotifiesSubscribers(t *testing.T) {
	w := NewWatcher()

	var seen []*Identity
	w.OnChange(func(ident *Identity) {
		seen = append(seen, ident)
	})

	ada := &Identity{UID: "u1", DisplayName: "Ada"}
	w.Set(ada)
	w.Set(nil) // sign out

	assert.Equal(t, []*Identity{ada, nil}, seen)
	assert.Nil(t, w.Current())
}

func TestWatcherCancelStopsNotifications(t *testing.T) {
	w := NewWatcher()

	calls := 0
	cancel := w.OnChange(func(*Identity) { calls++ })

	w.Set(&Identity{UID: "u1"})
	cancel()
	w.Set(&Identity{UID: "u2"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, "u2", w.Current().UID)
}

func TestWatcherSubscribeDoesNotReplayCurrent(t *testing.T) {
	w := NewWatcher()
	w.Set(&Identity{UID: "u1"})

	called := false
	w.OnChange(func(*Identity) { called = true })

	assert.False(t, called)
}
