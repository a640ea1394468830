package comments

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imvicky69/wandermore/internal/identity"
	"github.com/imvicky69/wandermore/internal/models"
	"github.com/imvicky69/wandermore/internal/store"
)

func openThread(t *testing.T, mem *store.Memory, postID string) *Thread {
	t.Helper()
	thread, err := Open(postID, mem, func(id string) (Feed, error) {
		return mem.SubscribeComments(id)
	})
	require.NoError(t, err)
	t.Cleanup(thread.Close)
	return thread
}

func waitForComments(t *testing.T, thread *Thread, n int) []models.Comment {
	t.Helper()
	var got []models.Comment
	require.Eventually(t, func() bool {
		got = thread.Comments()
		return len(got) == n
	}, time.Second, 5*time.Millisecond)
	return got
}

func TestThreadReceivesInsertsInTimestampOrder(t *testing.T) {
	mem := store.NewMemory()
	thread := openThread(t, mem, "post-1")

	ident := &identity.Identity{UID: "u1", DisplayName: "Ada"}
	require.NoError(t, thread.Submit(context.Background(), ident, "first"))
	require.NoError(t, thread.Submit(context.Background(), ident, "second"))
	require.NoError(t, thread.Submit(context.Background(), ident, "third"))

	got := waitForComments(t, thread, 3)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].CreatedAt.Before(got[j].CreatedAt)
	}))
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestSubmitBlankTextIsNoOp(t *testing.T) {
	mem := store.NewMemory()
	thread := openThread(t, mem, "post-1")

	require.NoError(t, thread.Submit(context.Background(), &identity.Identity{UID: "u1"}, "   \t  "))

	list, err := mem.CommentsByTimestampAsc(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmitWithoutIdentity(t *testing.T) {
	mem := store.NewMemory()
	thread := openThread(t, mem, "post-1")

	err := thread.Submit(context.Background(), nil, "hello")
	require.ErrorIs(t, err, ErrSignInRequired)

	list, err := mem.CommentsByTimestampAsc(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmitFallsBackToAnonymous(t *testing.T) {
	mem := store.NewMemory()
	thread := openThread(t, mem, "post-1")

	require.NoError(t, thread.Submit(context.Background(), &identity.Identity{UID: "u1"}, "hi"))

	got := waitForComments(t, thread, 1)
	assert.Equal(t, "Anonymous", got[0].AuthorName)
	assert.Empty(t, got[0].AuthorImageURL)
}

func TestThreadScopedToItsPost(t *testing.T) {
	mem := store.NewMemory()
	thread := openThread(t, mem, "post-1")

	other := &models.Comment{PostID: "post-2", AuthorName: "Eve", Text: "elsewhere"}
	require.NoError(t, mem.AddComment(context.Background(), other))

	ident := &identity.Identity{UID: "u1", DisplayName: "Ada"}
	require.NoError(t, thread.Submit(context.Background(), ident, "mine"))

	got := waitForComments(t, thread, 1)
	assert.Equal(t, "mine", got[0].Text)
}

func TestCloseStopsDelivery(t *testing.T) {
	mem := store.NewMemory()
	thread := openThread(t, mem, "post-1")

	ident := &identity.Identity{UID: "u1", DisplayName: "Ada"}
	require.NoError(t, thread.Submit(context.Background(), ident, "before close"))
	waitForComments(t, thread, 1)

	thread.Close()
	require.NoError(t, Submit(context.Background(), mem, "post-1", ident, "after close"))

	// Give a would-be delivery time to land; the list must not grow.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, thread.Comments(), 1)
}
