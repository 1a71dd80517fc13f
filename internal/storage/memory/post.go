package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/models"
)

type PostMemoryStorage struct {
	mu       sync.Mutex
	posts    map[uint]*models.Post
	comments map[uint][]uint // упорядоченные списки ID комментариев по постам
	nextID   uint
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint][]uint),
		nextID:   1,
	}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	authorID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	post := &models.Post{
		UserID:  authorID,
		Content: content,
	}
	post.ID = id

	s.posts[id] = post
	s.comments[id] = []uint{}

	return post, nil
}

func (s *PostMemoryStorage) GetPostByID(id uint) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with id %d: %w", id, apperr.ErrNotFound)
	}
	return post, nil
}

func (s *PostMemoryStorage) GetAllPosts() ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })

	return posts, nil
}

func (s *PostMemoryStorage) DeletePostByID(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post with id %d: %w", id, apperr.ErrNotFound)
	}

	delete(s.posts, id)
	delete(s.comments, id)
	return nil
}

func (s *PostMemoryStorage) CommentIDs(postID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, fmt.Errorf("post with id %d: %w", postID, apperr.ErrNotFound)
	}

	ids := make([]uint, len(s.comments[postID]))
	copy(ids, s.comments[postID])
	return ids, nil
}

// AppendCommentID дописывает ID комментария в конец списка под мьютексом —
// параллельные вызовы по одному посту не теряют записи
func (s *PostMemoryStorage) AppendCommentID(postID, commentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return fmt.Errorf("post with id %d: %w", postID, apperr.ErrNotFound)
	}

	s.comments[postID] = append(s.comments[postID], commentID)
	return nil
}
