package postgres

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/models"
)

// appendCommentSQL — атомарное «добавить в коллекцию»: позиция вычисляется
// внутри INSERT, без чтения-изменения-записи списка на стороне приложения
const appendCommentSQL = `
INSERT INTO post_comments (post_id, comment_id, position)
SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM post_comments WHERE post_id = ?`

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	authorID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	post := &models.Post{
		UserID:  authorID,
		Content: content,
	}

	err = DB.Create(post).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return post, nil
}

func (s *PostPostgresStorage) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := DB.First(&post, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("post with id %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}
	return &post, nil
}

func (s *PostPostgresStorage) GetAllPosts() ([]*models.Post, error) {
	var posts []models.Post
	err := DB.Order("id").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	results := make([]*models.Post, 0, len(posts))
	for i := range posts {
		results = append(results, &posts[i])
	}
	return results, nil
}

func (s *PostPostgresStorage) DeletePostByID(id uint) error {
	_, err := s.GetPostByID(id)
	if err != nil {
		return err
	}

	err = DB.Where("post_id = ?", id).Delete(&models.PostComment{}).Error
	if err != nil {
		return fmt.Errorf("could not delete post comment links: %w", err)
	}

	err = DB.Delete(&models.Post{}, id).Error
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	return nil
}

func (s *PostPostgresStorage) CommentIDs(postID uint) ([]uint, error) {
	_, err := s.GetPostByID(postID)
	if err != nil {
		return nil, err
	}

	var links []models.PostComment
	err = DB.Where("post_id = ?", postID).Order("position").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comment list: %w", err)
	}

	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.CommentID)
	}
	return ids, nil
}

func (s *PostPostgresStorage) AppendCommentID(postID, commentID uint) error {
	_, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}

	err = DB.Exec(appendCommentSQL, postID, commentID, postID).Error
	if err != nil {
		return fmt.Errorf("could not append comment %d to post %d: %w", commentID, postID, err)
	}
	return nil
}
