package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imvicky69/wandermore/internal/models"
)

// Memory is an in-process document store with the same surface as Store.
// It backs the test suite and local development without Postgres or NATS.
type Memory struct {
	mu          sync.Mutex
	posts       map[string]models.Post
	comments    map[string][]models.Comment
	likeSubs    map[string]map[int]func()
	commentSubs map[string]map[int]func()
	nextSubID   int
}

func NewMemory() *Memory {
	return &Memory{
		posts:       make(map[string]models.Post),
		comments:    make(map[string][]models.Comment),
		likeSubs:    make(map[string]map[int]func()),
		commentSubs: make(map[string]map[int]func()),
	}
}

func (m *Memory) PostsByPublishedAtDesc(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	return posts, nil
}

func (m *Memory) GetPost(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &post, nil
}

func (m *Memory) PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var posts []models.Post
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	return posts, nil
}

func (m *Memory) AddPost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.PublishedAt = time.Now().UTC()
	m.posts[post.ID] = *post
	m.mu.Unlock()
	return nil
}

func (m *Memory) IncrementLikeCount(ctx context.Context, postID string, delta int) error {
	m.mu.Lock()
	post, ok := m.posts[postID]
	if !ok {
		m.mu.Unlock()
		return gorm.ErrRecordNotFound
	}
	post.LikeCount += delta
	m.posts[postID] = post
	notify := collectNotifiers(m.likeSubs[postID])
	m.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return nil
}

func (m *Memory) CommentsByTimestampAsc(ctx context.Context, postID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := append([]models.Comment(nil), m.comments[postID]...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (m *Memory) AddComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now().UTC()
	m.comments[comment.PostID] = append(m.comments[comment.PostID], *comment)
	notify := collectNotifiers(m.commentSubs[comment.PostID])
	m.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return nil
}

func (m *Memory) SubscribePost(postID string) (*PostSubscription, error) {
	fetch := func() (*models.Post, error) {
		return m.GetPost(context.Background(), postID)
	}
	return newPostSubscription(fetch, m.watch(m.likeSubs, postID))
}

func (m *Memory) SubscribeComments(postID string) (*CommentSubscription, error) {
	fetch := func() ([]models.Comment, error) {
		return m.CommentsByTimestampAsc(context.Background(), postID)
	}
	return newCommentSubscription(fetch, m.watch(m.commentSubs, postID))
}

func (m *Memory) watch(subs map[string]map[int]func(), postID string) watchFunc {
	return func(notify func()) (func(), error) {
		m.mu.Lock()
		if subs[postID] == nil {
			subs[postID] = make(map[int]func())
		}
		id := m.nextSubID
		m.nextSubID++
		subs[postID][id] = notify
		m.mu.Unlock()

		return func() {
			m.mu.Lock()
			delete(subs[postID], id)
			m.mu.Unlock()
		}, nil
	}
}

func collectNotifiers(subs map[int]func()) []func() {
	out := make([]func(), 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}
