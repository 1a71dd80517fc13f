// Package httpapi — тонкий REST-слой поверх ядра: таблица маршрутов с
// дескрипторами доступа, JSON-обработчики и отображение ошибок ядра в статусы.
package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/comment"
	"github.com/postwall/postwall/internal/post"
	"github.com/postwall/postwall/internal/user"
	"github.com/postwall/postwall/models"
)

type Server struct {
	users    user.UserStorage
	posts    post.PostStorage
	comments comment.CommentStorage
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewServer(users user.UserStorage, posts post.PostStorage, comments comment.CommentStorage, tokens *auth.TokenManager) *Server {
	return &Server{
		users:    users,
		posts:    posts,
		comments: comments,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Handler собирает таблицу маршрутов. Маршрут без явного Public: true закрыт —
// умолчание частное, двухступенчатый контроль (аутентификация, затем роль)
// живет в auth.Middleware.
func (s *Server) Handler() http.Handler {
	routes := []struct {
		pattern string
		route   auth.Route
		handler http.HandlerFunc
	}{
		{"GET /{$}", auth.Route{Public: true}, s.handleRoot},
		{"POST /auth/login", auth.Route{Public: true}, s.handleLogin},
		{"GET /auth/profile", auth.Route{}, s.handleProfile},
		{"POST /users", auth.Route{Public: true}, s.handleRegister},
		{"GET /users", auth.Route{Public: true}, s.handleListUsers},
		{"GET /users/{id}", auth.Route{}, s.handleGetUser},
		{"PATCH /users/{id}", auth.Route{}, s.handleUpdateUser},
		{"DELETE /users/{id}", auth.Route{}, s.handleDeleteUser},
		{"GET /post", auth.Route{}, s.handleListPosts},
		{"POST /post", auth.Route{}, s.handleCreatePost},
		{"GET /post/{id}", auth.Route{}, s.handleGetPost},
		{"DELETE /post/{id}", auth.Route{Roles: []models.Role{models.RoleAdmin}}, s.handleDeletePost},
		{"POST /comments/create", auth.Route{}, s.handleAddComment},
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.Handle(rt.pattern, auth.Middleware(s.tokens, rt.route, rt.handler))
	}

	return RequestLogger(mux)
}
