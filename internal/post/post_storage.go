package post

import (
	"context"

	"github.com/postwall/postwall/models"
)

type PostStorage interface {
	CreatePost(ctx context.Context, content string) (*models.Post, error)
	GetPostByID(id uint) (*models.Post, error)
	GetAllPosts() ([]*models.Post, error)
	DeletePostByID(id uint) error

	// CommentIDs возвращает список ID комментариев поста в порядке вставки
	CommentIDs(postID uint) ([]uint, error)
	// AppendCommentID атомарно дописывает ID комментария в конец списка поста.
	// Именно «добавить в коллекцию», а не читать-изменить-записать — параллельные
	// вызовы по одному посту не должны терять записи.
	AppendCommentID(postID, commentID uint) error
}
