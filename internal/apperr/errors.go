// Package apperr содержит типизированные ошибки ядра.
// Каждый вид ошибки различим через errors.Is / errors.As — транспортный слой
// отображает их в коды ответов.
package apperr

import "errors"

var (
	// ErrNotFound - сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials - пароль не совпал (отличается от ErrNotFound!)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden - аутентифицирован, но роль не разрешена
	ErrForbidden = errors.New("forbidden")
	// ErrConsistency - комментарий создан, но не удалось привязать его к посту
	ErrConsistency = errors.New("consistency violation")
	// ErrValidation - некорректное тело запроса
	ErrValidation = errors.New("validation failed")
)

// AuthError — отказ аутентификации (нет токена, неверный формат, невалидный или истекший токен)
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// Auth создает AuthError с указанной причиной
func Auth(reason string) error {
	return &AuthError{Reason: reason}
}

// IsAuth сообщает, является ли ошибка ошибкой аутентификации
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
