package auth

import (
	"net/http"
	"strings"

	"github.com/postwall/postwall/internal/apperr"
	"github.com/postwall/postwall/models"
)

// Route — дескриптор операции для пропускного контроля.
// Public=false (по умолчанию) — маршрут закрыт, нужен валидный токен.
// Пустой Roles — достаточно любой аутентифицированной личности.
type Route struct {
	Public bool
	Roles  []models.Role
}

// Authenticate выполняет проверку закрытого маршрута по значению заголовка
// Authorization: заголовок обязателен, схема строго "Bearer <token>",
// дальше токен уходит в Verify как есть.
func (m *TokenManager) Authenticate(header string) (*Claims, error) {
	if header == "" {
		return nil, apperr.Auth("no token provided")
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, apperr.Auth("invalid token format")
	}

	return m.Verify(parts[1])
}

// Authorize проверяет, что роль из claims входит в разрешенный набор.
// Пустой набор означает «любая аутентифицированная роль».
func Authorize(claims *Claims, roles []models.Role) error {
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if claims.Role == role {
			return nil
		}
	}
	return apperr.ErrForbidden
}

// Middleware оборачивает обработчик пропускным контролем по дескриптору маршрута.
// Публичные маршруты проходят без проверки учетных данных. На закрытых маршрутах
// сначала аутентификация (заголовок -> токен -> claims), затем проверка роли;
// claims кладутся в контекст запроса.
func Middleware(tokens *TokenManager, route Route, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route.Public {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := tokens.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		if err := Authorize(claims, route.Roles); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}
