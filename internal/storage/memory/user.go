package memory

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/user"
	"github.com/postwall/postwall/models"
)

type UserMemoryStorage struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	emails map[string]uint // индекс email -> ID (уникальность email)
	nextID uint
	tokens *auth.TokenManager
}

func NewUserMemoryStorage(tokens *auth.TokenManager) *UserMemoryStorage {
	return &UserMemoryStorage{
		users:  make(map[uint]*models.User),
		emails: make(map[string]uint),
		nextID: 1,
		tokens: tokens,
	}
}

func (s *UserMemoryStorage) Register(name, email, password string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, apperr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[email]; exists {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := s.nextID
	s.nextID++

	user := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: string(hashedPassword),
	}
	user.ID = id

	s.users[id] = user
	s.emails[email] = id

	return user, nil
}

func (s *UserMemoryStorage) Login(email, password string) (string, error) {
	s.mu.Lock()
	id, ok := s.emails[email]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("user with email %s: %w", email, apperr.ErrNotFound)
	}
	user := s.users[id]
	s.mu.Unlock()

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return "", fmt.Errorf("wrong password for %s: %w", email, apperr.ErrInvalidCredentials)
	}

	return s.tokens.Issue(user)
}

func (s *UserMemoryStorage) FindByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// точное совпадение, с учетом регистра
	id, ok := s.emails[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, apperr.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *UserMemoryStorage) FindByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d: %w", id, apperr.ErrNotFound)
	}
	return user, nil
}

func (s *UserMemoryStorage) GetAllUsers() ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (s *UserMemoryStorage) UpdateUser(id uint, upd user.Update) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d: %w", id, apperr.ErrNotFound)
	}

	if upd.Email != nil && *upd.Email != u.Email {
		if _, exists := s.emails[*upd.Email]; exists {
			return nil, fmt.Errorf("user with email %s already exists", *upd.Email)
		}
		delete(s.emails, u.Email)
		s.emails[*upd.Email] = id
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

	return u, nil
}

func (s *UserMemoryStorage) DeleteUser(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user with id %d: %w", id, apperr.ErrNotFound)
	}

	delete(s.emails, u.Email)
	delete(s.users, id)
	return nil
}
