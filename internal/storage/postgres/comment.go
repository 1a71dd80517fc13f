package postgres

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/comment"
	"github.com/postwall/postwall/models"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

// AddComment создает комментарий и строку привязки к посту в одной транзакции:
// либо фиксируются обе записи, либо ни одной. Привязка — insert-only,
// позиция назначается внутри INSERT (см. appendCommentSQL).
func (s *CommentPostgresStorage) AddComment(postID, authorID uint, text string, replyOf *uint) (*models.Comment, error) {
	if err := comment.ValidateText(text); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}

	tx := DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	var post models.Post
	err := tx.First(&post, postID).Error
	if err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("post with id %d: %w", postID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get post: %w", err)
	}

	if replyOf != nil {
		// родительский комментарий должен существовать и принадлежать тому же посту
		var parent models.Comment
		err := tx.First(&parent, *replyOf).Error
		if err != nil {
			tx.Rollback()
			if gorm.IsRecordNotFoundError(err) {
				return nil, fmt.Errorf("parent comment with id %d: %w", *replyOf, apperr.ErrNotFound)
			}
			return nil, fmt.Errorf("could not get parent comment: %w", err)
		}
		if parent.PostID != postID {
			tx.Rollback()
			return nil, fmt.Errorf("parent comment belongs to a different post: %w", apperr.ErrValidation)
		}
	}

	c := &models.Comment{
		PostID:  postID,
		UserID:  authorID,
		ReplyOf: replyOf,
		Text:    text,
	}

	err = tx.Create(c).Error
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	var linkErr error
	for attempt := 0; attempt < comment.LinkRetries; attempt++ {
		linkErr = tx.Exec(appendCommentSQL, postID, c.ID, postID).Error
		if linkErr == nil {
			break
		}
	}
	if linkErr != nil {
		// откат убирает и комментарий — сирот не оставляем
		tx.Rollback()
		return nil, fmt.Errorf("could not link comment %d to post %d: %w", c.ID, postID, apperr.ErrConsistency)
	}

	err = tx.Commit().Error
	if err != nil {
		return nil, fmt.Errorf("could not commit comment %d for post %d: %w", c.ID, postID, apperr.ErrConsistency)
	}

	return c, nil
}
