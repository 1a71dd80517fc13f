package comment

import (
	"fmt"

	"github.com/postwall/postwall/models"
)

// MaxTextLen — предел длины текста комментария
const MaxTextLen = 500

// LinkRetries — сколько раз пробуем привязать комментарий к посту,
// прежде чем откатиться с ошибкой консистентности
const LinkRetries = 3

type CommentStorage interface {
	AddComment(postID, authorID uint, text string, replyOf *uint) (*models.Comment, error)
}

// ValidateText проверяет границы текста комментария
func ValidateText(text string) error {
	if len(text) == 0 {
		return fmt.Errorf("comment text is empty")
	}
	if len(text) > MaxTextLen {
		return fmt.Errorf("comment text exceeds %d characters", MaxTextLen)
	}
	return nil
}
