package models

import "github.com/jinzhu/gorm"

// Role — роль пользователя (enum: user, admin)
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid проверяет, что роль входит в enum
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	gorm.Model
	Name     string
	Email    string `gorm:"unique_index"`
	Role     Role   `gorm:"default:'user'"`
	Password string // bcrypt-хеш, наружу не отдается
}

type Post struct {
	gorm.Model
	UserID  uint
	Content string
}

type Comment struct {
	gorm.Model
	PostID  uint
	UserID  uint
	ReplyOf *uint // необязательная ссылка на родительский комментарий
	Text    string
}

// PostComment — строка упорядоченного списка комментариев поста.
// Наличие строки означает, что комментарий привязан к посту; Position задает порядок вставки.
type PostComment struct {
	PostID    uint `gorm:"primary_key;auto_increment:false"`
	CommentID uint `gorm:"primary_key;auto_increment:false"`
	Position  int
}
