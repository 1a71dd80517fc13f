package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/storage/memory"
)

func newTestHandler() http.Handler {
	tokens := auth.NewTokenManager("test_secret_key_for_jwt", time.Hour)
	postStore := memory.NewPostMemoryStorage()
	commentStore := memory.NewCommentMemoryStorage(postStore)
	userStore := memory.NewUserMemoryStorage(tokens)

	return NewServer(userStore, postStore, commentStore, tokens).Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestEndToEndScenario(t *testing.T) {
	handler := newTestHandler()

	// регистрация пользователя A
	rec := doRequest(t, handler, http.MethodPost, "/users", "", map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	userID := decodeBody(t, rec)["id"].(float64)

	// неверный пароль — 401, но не «не найден»
	rec = doRequest(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// неизвестный email — 404
	rec = doRequest(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "b@x.com",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// успешный вход
	rec = doRequest(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeBody(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)

	// профиль требует токен
	rec = doRequest(t, handler, http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no token provided")

	rec = doRequest(t, handler, http.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", decodeBody(t, rec)["email"])

	// создание поста от имени A
	rec = doRequest(t, handler, http.MethodPost, "/post", token, map[string]string{
		"content": "hello world",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postBody := decodeBody(t, rec)
	postID := postBody["id"].(float64)
	assert.Equal(t, userID, postBody["authorId"])

	// комментарий к посту
	rec = doRequest(t, handler, http.MethodPost, "/comments/create", token, map[string]interface{}{
		"postId":   postID,
		"authorId": userID,
		"text":     "first!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commentBody := decodeBody(t, rec)
	assert.Equal(t, postID, commentBody["postId"])

	// перечитываем пост: список комментариев содержит ровно эту ссылку
	rec = doRequest(t, handler, http.MethodGet, "/post/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decodeBody(t, rec)["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, commentBody["id"], comments[0])

	// комментарий к несуществующему посту — 404
	rec = doRequest(t, handler, http.MethodPost, "/comments/create", token, map[string]interface{}{
		"postId":   9999,
		"authorId": userID,
		"text":     "lost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleEnforcement(t *testing.T) {
	handler := newTestHandler()

	register := func(name, email, role string) {
		rec := doRequest(t, handler, http.MethodPost, "/users", "", map[string]string{
			"name":     name,
			"email":    email,
			"password": "password",
			"role":     role,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	login := func(email string) string {
		rec := doRequest(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    email,
			"password": "password",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeBody(t, rec)["access_token"].(string)
	}

	register("User", "user@x.com", "user")
	register("Admin", "admin@x.com", "admin")

	userToken := login("user@x.com")
	adminToken := login("admin@x.com")

	rec := doRequest(t, handler, http.MethodPost, "/post", userToken, map[string]string{"content": "post"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// удаление поста — только для админа
	rec = doRequest(t, handler, http.MethodDelete, "/post/1", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodDelete, "/post/1", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/post/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicAndPrivateRoutes(t *testing.T) {
	handler := newTestHandler()

	t.Run("Public routes work without credentials", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/users", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Private route rejects missing and malformed credentials", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/post", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "no token provided")

		req := httptest.NewRequest(http.MethodGet, "/post", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token format")
	})

	t.Run("User listing never exposes password hashes", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/users", "", map[string]string{
			"name":     "Leak Check",
			"email":    "leak@x.com",
			"password": "supersecret",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/users", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "leak@x.com")
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "supersecret")
	})

	t.Run("Request body validation", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "not-an-email",
			"password": "pw",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(t, handler, http.MethodPost, "/users", "", map[string]string{
			"name":     "X",
			"email":    "x@x.com",
			"password": "password",
			"role":     "superadmin",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
