package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/models"
)

// MockPostStorage — ручная заглушка post.PostStorage для тестов.
// AppendErr позволяет форсировать отказ привязки комментария.
type MockPostStorage struct {
	mu       sync.Mutex
	posts    map[uint]*models.Post
	comments map[uint][]uint
	nextID   uint

	AppendErr error
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint][]uint),
		nextID:   1,
	}
}

func (m *MockPostStorage) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	authorID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	post := &models.Post{UserID: authorID, Content: content}
	post.ID = id
	m.posts[id] = post
	m.comments[id] = []uint{}
	return post, nil
}

func (m *MockPostStorage) GetPostByID(id uint) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with id %d: %w", id, apperr.ErrNotFound)
	}
	return post, nil
}

func (m *MockPostStorage) GetAllPosts() ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

func (m *MockPostStorage) DeletePostByID(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("post with id %d: %w", id, apperr.ErrNotFound)
	}
	delete(m.posts, id)
	delete(m.comments, id)
	return nil
}

func (m *MockPostStorage) CommentIDs(postID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[postID]; !ok {
		return nil, fmt.Errorf("post with id %d: %w", postID, apperr.ErrNotFound)
	}
	ids := make([]uint, len(m.comments[postID]))
	copy(ids, m.comments[postID])
	return ids, nil
}

func (m *MockPostStorage) AppendCommentID(postID, commentID uint) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[postID]; !ok {
		return fmt.Errorf("post with id %d: %w", postID, apperr.ErrNotFound)
	}
	m.comments[postID] = append(m.comments[postID], commentID)
	return nil
}
