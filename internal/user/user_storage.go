package user

import (
	"github.com/postwall/postwall/models"
)

// Update — частичное обновление пользователя (nil = поле не трогаем)
type Update struct {
	Name     *string
	Email    *string
	Password *string
}

type UserStorage interface {
	Register(name, email, password string, role models.Role) (*models.User, error)
	Login(email, password string) (string, error) // подписанный токен сессии
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	GetAllUsers() ([]*models.User, error)
	UpdateUser(id uint, upd Update) (*models.User, error)
	DeleteUser(id uint) error
}
