package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imvicky69/wandermore/internal/database"
	"github.com/imvicky69/wandermore/internal/messaging"
	"github.com/imvicky69/wandermore/internal/models"
)

// These tests need real Postgres and NATS instances and are skipped when the
// environment does not point at them.

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("Skipping test - no database connection configured")
	}
	if os.Getenv("NATS_HOST") == "" && os.Getenv("NATS_URL") == "" {
		t.Skip("Skipping test - no NATS connection configured")
	}

	db, err := database.Open()
	require.NoError(t, err)

	hub, err := messaging.Connect()
	require.NoError(t, err)
	t.Cleanup(hub.Close)

	return New(db, hub)
}

func integrationPost(title string) *models.Post {
	return &models.Post{
		Title:      title,
		Slug:       models.Slugify(title),
		Excerpt:    "integration excerpt",
		AuthorID:   "test-user-123",
		AuthorName: "Test User",
		Category:   "Travel",
		Media:      models.Media{Type: models.MediaImage, URL: "https://example.com/a.jpg"},
	}
}

func TestStore_AddAndFetchPost(t *testing.T) {
	st := newIntegrationStore(t)
	ctx := context.Background()

	post := integrationPost("Integration add post")
	require.NoError(t, st.AddPost(ctx, post))
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.PublishedAt.IsZero())

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, 0, got.LikeCount)

	feed, err := st.PostsByPublishedAtDesc(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(feed), 1)
	assert.Equal(t, post.ID, feed[0].ID)
}

func TestStore_IncrementLikeCount(t *testing.T) {
	st := newIntegrationStore(t)
	ctx := context.Background()

	post := integrationPost("Integration like post")
	require.NoError(t, st.AddPost(ctx, post))

	require.NoError(t, st.IncrementLikeCount(ctx, post.ID, 1))
	require.NoError(t, st.IncrementLikeCount(ctx, post.ID, 1))
	require.NoError(t, st.IncrementLikeCount(ctx, post.ID, -1))

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

func TestStore_CommentThreadOrdering(t *testing.T) {
	st := newIntegrationStore(t)
	ctx := context.Background()

	post := integrationPost("Integration comment post")
	require.NoError(t, st.AddPost(ctx, post))

	for _, text := range []string{"first", "second"} {
		require.NoError(t, st.AddComment(ctx, &models.Comment{
			PostID:     post.ID,
			AuthorName: "Test User",
			Text:       text,
		}))
	}

	comments, err := st.CommentsByTimestampAsc(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestStore_SubscribePostPushesLikeChanges(t *testing.T) {
	st := newIntegrationStore(t)
	ctx := context.Background()

	post := integrationPost("Integration subscribe post")
	require.NoError(t, st.AddPost(ctx, post))

	sub, err := st.SubscribePost(post.ID)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case got := <-sub.Updates():
		assert.Equal(t, post.ID, got.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for initial snapshot")
	}

	require.NoError(t, st.IncrementLikeCount(ctx, post.ID, 1))

	select {
	case got := <-sub.Updates():
		assert.Equal(t, 1, got.LikeCount)
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for like push")
	}
}
