package postgres

import (
	"fmt"

	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/user"
	"github.com/postwall/postwall/models"
)

type UserPostgresStorage struct {
	tokens *auth.TokenManager
}

func NewUserPostgresStorage(tokens *auth.TokenManager) *UserPostgresStorage {
	return &UserPostgresStorage{tokens: tokens}
}

func (s *UserPostgresStorage) Register(name, email, password string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperr.ErrValidation)
	}

	// проверка - существует ли пользователь с таким email
	var existUser models.User
	err := DB.Where("email = ?", email).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: string(hashedPassword),
	}

	err = DB.Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserPostgresStorage) Login(email, password string) (string, error) {
	u, err := s.FindByEmail(email)
	if err != nil {
		return "", err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		return "", fmt.Errorf("wrong password for %s: %w", email, apperr.ErrInvalidCredentials)
	}

	return s.tokens.Issue(u)
}

func (s *UserPostgresStorage) FindByEmail(email string) (*models.User, error) {
	var u models.User
	// точное совпадение, с учетом регистра
	err := DB.Where("email = ?", email).First(&u).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user with email %s: %w", email, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	return &u, nil
}

func (s *UserPostgresStorage) FindByID(id uint) (*models.User, error) {
	var u models.User
	err := DB.First(&u, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user with id %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return &u, nil
}

func (s *UserPostgresStorage) GetAllUsers() ([]*models.User, error) {
	var users []models.User
	err := DB.Order("id").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("could not get users: %w", err)
	}

	results := make([]*models.User, 0, len(users))
	for i := range users {
		results = append(results, &users[i])
	}
	return results, nil
}

func (s *UserPostgresStorage) UpdateUser(id uint, upd user.Update) (*models.User, error) {
	u, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != u.Email {
		var existUser models.User
		err := DB.Where("email = ?", *upd.Email).First(&existUser).Error
		if err == nil {
			return nil, fmt.Errorf("user with email %s already exists", *upd.Email)
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = string(hashedPassword)
	}

	err = DB.Save(u).Error
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}

	return u, nil
}

func (s *UserPostgresStorage) DeleteUser(id uint) error {
	_, err := s.FindByID(id)
	if err != nil {
		return err
	}

	err = DB.Delete(&models.User{}, id).Error
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	return nil
}
