package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/user"
	"github.com/postwall/postwall/models"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=3,max=20"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=3,max=20"`
}

type createPostRequest struct {
	Content string `json:"content" validate:"required"`
}

type createCommentRequest struct {
	PostID   uint   `json:"postId" validate:"required"`
	AuthorID uint   `json:"authorId" validate:"required"`
	Text     string `json:"text" validate:"required,max=500"`
	ReplyOf  *uint  `json:"replyOf"`
}

// userResponse — проекция пользователя без секретных полей
type userResponse struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type postResponse struct {
	ID       uint   `json:"id"`
	AuthorID uint   `json:"authorId"`
	Content  string `json:"content"`
	Comments []uint `json:"comments"`
}

type commentResponse struct {
	ID       uint   `json:"id"`
	PostID   uint   `json:"postId"`
	AuthorID uint   `json:"authorId"`
	ReplyOf  *uint  `json:"replyOf,omitempty"`
	Text     string `json:"text"`
}

func (s *Server) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", apperr.ErrValidation)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError отображает вид ошибки ядра в код ответа.
// Каждый вид остается наблюдаемо различим.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsAuth(err), errors.Is(err, apperr.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, apperr.ErrValidation)
	}
	return uint(id), nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.users.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		writeError(w, apperr.Auth("no token provided"))
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.users.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAllUsers()
	if err != nil {
		writeError(w, err)
		return
	}

	results := make([]userResponse, 0, len(users))
	for _, u := range users {
		results = append(results, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	u, err := s.users.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := s.users.UpdateUser(id, user.Update{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	u, err := s.users.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.users.DeleteUser(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User (%s) deleted successfully.", u.Email),
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.GetAllPosts()
	if err != nil {
		writeError(w, err)
		return
	}

	results := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		ids, err := s.posts.CommentIDs(p.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		results = append(results, postResponse{ID: p.ID, AuthorID: p.UserID, Content: p.Content, Comments: ids})
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := s.posts.CreatePost(r.Context(), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, postResponse{ID: p.ID, AuthorID: p.UserID, Content: p.Content, Comments: []uint{}})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.posts.GetPostByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	ids, err := s.posts.CommentIDs(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{ID: p.ID, AuthorID: p.UserID, Content: p.Content, Comments: ids})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.posts.DeletePostByID(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Deleted %d", id),
	})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := s.comments.AddComment(req.PostID, req.AuthorID, req.Text, req.ReplyOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{
		ID:       c.ID,
		PostID:   c.PostID,
		AuthorID: c.UserID,
		ReplyOf:  c.ReplyOf,
		Text:     c.Text,
	})
}
