package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/models"
)

// Claims — утверждения токена: стандартные (subject = ID пользователя, iat, exp)
// плюс несекретный снимок пользователя. Поля перечислены явно — пароль в токен
// не попадает никогда.
type Claims struct {
	jwt.RegisteredClaims
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// UserID возвращает subject токена как ID пользователя
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// TokenManager подписывает и проверяет токены сессии. Секрет и TTL задаются
// один раз при создании и дальше не меняются.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue выписывает токен для пользователя. Токен живет ровно ttl и не может
// быть отозван до истечения: удаление пользователя или смена роли не
// инвалидируют уже выданные токены.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify проверяет подпись и срок действия. Любая проблема (подделка,
// мусор на входе, истекший срок) — одна и та же ошибка аутентификации,
// частичного доверия нет.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid or expired token")
	}

	return claims, nil
}
