package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики (оборачивают ошибки репозитория)
// =========================================================================

// ErrNotFound - "не найдено" (404). Используется, когда ошибка репозитория
// (ErrBookingNotFound, gorm.ErrRecordNotFound) должна стать AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrNotFoundIn - "не найдено" с доменом и сообщением.
func ErrNotFoundIn(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict - конфликт состояния (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Фабрики (новые ошибки)
// =========================================================================

// ErrInvalidArgument - некорректный вход (400)
func ErrInvalidArgument(domain, message string) *AppError {
	return New(CodeInvalidArgument, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - недопустимый переход статуса (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrForbidden - действие запрещено для актора (403)
func ErrForbidden(domain, message string) *AppError {
	return New(CodeForbidden, domain, message, http.StatusForbidden)
}

// =========================================================================
// Предопределенные ошибки домена
// =========================================================================

// --- Bookings ---

// ErrPropertyAlreadySold - объект уже продан, новое бронирование невозможно.
var ErrPropertyAlreadySold = New(
	CodeConflict,
	"booking",
	"This property has already been sold",
	http.StatusConflict,
)

// ErrNotPropertyOwner - продавец пытается изменить бронирование чужого объекта.
var ErrNotPropertyOwner = New(
	CodeForbidden,
	"booking",
	"You do not own this property",
	http.StatusForbidden,
)

// ErrNotBookingOwner - покупатель пытается изменить чужое бронирование.
var ErrNotBookingOwner = New(
	CodeForbidden,
	"booking",
	"You do not own this booking",
	http.StatusForbidden,
)

// ErrInsufficientPermissions - роль актора не допускает операцию.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Activity logs ---

// ErrNoLogsToDelete - среди переданных id нет ни одной доступной записи.
var ErrNoLogsToDelete = New(
	CodeNotFound,
	"activity_log",
	"No logs found to delete",
	http.StatusNotFound,
)
