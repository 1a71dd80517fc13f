package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/comment"
	"github.com/postwall/postwall/internal/post"
	"github.com/postwall/postwall/models"
)

type CommentMemoryStorage struct {
	mu          sync.Mutex
	comments    map[uint]*models.Comment
	nextID      uint
	postStorage post.PostStorage // хранилище постов (внедрение зависимости)
}

func NewCommentMemoryStorage(postStore post.PostStorage) *CommentMemoryStorage {
	return &CommentMemoryStorage{
		comments:    make(map[uint]*models.Comment),
		nextID:      1,
		postStorage: postStore,
	}
}

// AddComment создает комментарий и привязывает его к посту как одно логическое
// целое. Привязка идет через атомарный AppendCommentID; если привязать не
// удалось — созданный комментарий удаляется (компенсация), сирот не оставляем.
func (s *CommentMemoryStorage) AddComment(postID, authorID uint, text string, replyOf *uint) (*models.Comment, error) {
	if err := comment.ValidateText(text); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}

	if _, err := s.postStorage.GetPostByID(postID); err != nil {
		return nil, fmt.Errorf("post with id %d: %w", postID, apperr.ErrNotFound)
	}

	s.mu.Lock()
	if replyOf != nil {
		// родительский комментарий должен существовать и принадлежать тому же посту
		parent, ok := s.comments[*replyOf]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("parent comment with id %d: %w", *replyOf, apperr.ErrNotFound)
		}
		if parent.PostID != postID {
			s.mu.Unlock()
			return nil, fmt.Errorf("parent comment belongs to a different post: %w", apperr.ErrValidation)
		}
	}

	id := s.nextID
	s.nextID++

	c := &models.Comment{
		PostID:  postID,
		UserID:  authorID,
		ReplyOf: replyOf,
		Text:    text,
	}
	c.ID = id
	s.comments[id] = c
	s.mu.Unlock()

	var linkErr error
	for attempt := 0; attempt < comment.LinkRetries; attempt++ {
		linkErr = s.postStorage.AppendCommentID(postID, id)
		if linkErr == nil || errors.Is(linkErr, apperr.ErrNotFound) {
			break
		}
	}

	if linkErr != nil {
		// компенсирующее удаление: комментарий без привязки к посту жить не должен
		s.mu.Lock()
		delete(s.comments, id)
		s.mu.Unlock()

		if errors.Is(linkErr, apperr.ErrNotFound) {
			return nil, linkErr
		}
		return nil, fmt.Errorf("could not link comment %d to post %d: %w", id, postID, apperr.ErrConsistency)
	}

	return c, nil
}
