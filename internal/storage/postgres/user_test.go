package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/internal/auth"
	"github.com/postwall/postwall/internal/user"
	"github.com/postwall/postwall/models"
)

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test_secret_key_for_jwt", time.Hour)
}

func TestUserPostgresStorage_Register(t *testing.T) {
	storage := NewUserPostgresStorage(newTestTokenManager())

	t.Run("Successful user registration", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		u, err := storage.Register("Test User", "test@example.com", "password123", models.RoleUser)
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "Test User", u.Name)
		assert.Equal(t, "test@example.com", u.Email)
		assert.Equal(t, models.RoleUser, u.Role)
		// пароль хранится только как bcrypt-хеш
		assert.NotEqual(t, "password123", u.Password)
	})

	t.Run("Register user with duplicate email", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.Register("First", "duplicate@example.com", "password123", models.RoleUser)
		require.NoError(t, err)

		_, err = storage.Register("Second", "duplicate@example.com", "anotherpassword", models.RoleUser)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("Unknown role is rejected", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.Register("Test User", "test@example.com", "password123", "superadmin")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestUserPostgresStorage_Login(t *testing.T) {
	tokens := newTestTokenManager()
	storage := NewUserPostgresStorage(tokens)

	t.Run("Successful login", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		u, err := storage.Register("Login User", "login@example.com", "loginpassword123", models.RoleUser)
		require.NoError(t, err)

		token, err := storage.Login("login@example.com", "loginpassword123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		// subject проверенного токена совпадает с ID пользователя
		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, u.ID, id)
	})

	t.Run("Login with unknown email", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.Login("nobody@example.com", "anypassword")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.NotErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("Login with incorrect password", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.Register("Wrong Pass", "wrongpass@example.com", "correctpassword", models.RoleUser)
		require.NoError(t, err)

		// неверный пароль — это не «пользователь не найден»
		_, err = storage.Login("wrongpass@example.com", "wrongpassword")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestUserPostgresStorage_FindAndUpdate(t *testing.T) {
	storage := NewUserPostgresStorage(newTestTokenManager())

	t.Run("Email lookup is case-sensitive", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.Register("Find User", "Find@Example.com", "password123", models.RoleUser)
		require.NoError(t, err)

		found, err := storage.FindByEmail("Find@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "Find@Example.com", found.Email)

		// сравнение по = чувствительно к регистру
		_, err = storage.FindByEmail("find@example.com")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Find missing id", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.FindByID(9999)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Update name, email and password", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		u, err := storage.Register("Old Name", "old@example.com", "oldpassword", models.RoleUser)
		require.NoError(t, err)

		newName := "New Name"
		newEmail := "new@example.com"
		newPassword := "newpassword"
		updated, err := storage.UpdateUser(u.ID, user.Update{Name: &newName, Email: &newEmail, Password: &newPassword})
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
		assert.Equal(t, "new@example.com", updated.Email)

		_, err = storage.Login("new@example.com", "newpassword")
		assert.NoError(t, err)
	})

	t.Run("Update to an already taken email", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.Register("First", "first@example.com", "password123", models.RoleUser)
		require.NoError(t, err)
		second, err := storage.Register("Second", "second@example.com", "password123", models.RoleUser)
		require.NoError(t, err)

		taken := "first@example.com"
		_, err = storage.UpdateUser(second.ID, user.Update{Email: &taken})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestUserPostgresStorage_Delete(t *testing.T) {
	storage := NewUserPostgresStorage(newTestTokenManager())

	t.Run("Successful delete", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		u, err := storage.Register("Delete User", "delete@example.com", "password123", models.RoleUser)
		require.NoError(t, err)

		err = storage.DeleteUser(u.ID)
		require.NoError(t, err)

		_, err = storage.FindByID(u.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Delete missing user", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		err := storage.DeleteUser(9999)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
