package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка пустого имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательного количества на складе.
	ErrQuantityNegative = errors.New("quantity must be non-negative")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка отсутствующего идентификатора товара.
	ErrProductIDRequired = errors.New("product id is required")
	// Ошибка отсутствующего имени товара в позиции заказа.
	ErrItemNameRequired = errors.New("item product name is required")
	// Ошибка некорректного количества в позиции заказа (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
)

// ValidationError — ошибка, обнаруженная на клиенте до какого-либо сетевого вызова.
// Field указывает на источник проблемы (например, rows[2].product).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError конструирует ValidationError для поля field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SyncError — ошибка удалённой операции над товарами, заказами или маршрутами.
// Message всегда пригоден для показа пользователю: либо сообщение сервера,
// либо общее сообщение о недоступности соединения.
type SyncError struct {
	Op      string
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap возвращает причину сбоя (транспортную ошибку), если она есть.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError конструирует SyncError с сообщением, отданным сервером.
func NewSyncError(op, message string) *SyncError {
	return &SyncError{Op: op, Message: message}
}

// SessionError — отказ аутентификации или недействительный токен.
type SessionError struct {
	Message string
	Err     error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// IsValidation проверяет, относится ли ошибка к ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSync проверяет, относится ли ошибка к SyncError.
func IsSync(err error) bool {
	var se *SyncError
	return errors.As(err, &se)
}

// IsSession проверяет, относится ли ошибка к SessionError.
func IsSession(err error) bool {
	var se *SessionError
	return errors.As(err, &se)
}

// UserMessage возвращает текст ошибки для показа пользователю.
// Для ошибок таксономии берётся их Message без технических деталей.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var se *SyncError
	if errors.As(err, &se) {
		return se.Message
	}
	var sse *SessionError
	if errors.As(err, &sse) {
		return sse.Message
	}
	return err.Error()
}
