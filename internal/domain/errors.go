package domain

// Ошибки уровня домена. Сообщение показывается пользователю как есть,
// HTTP-слой отображает вид ошибки в статус (400/404/409).

// ValidationError covers malformed input, bad date ordering, bad pagination,
// unknown state tokens and repeated terminal transitions.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError covers missing entities and authorization failures that are
// deliberately masked as not-found to avoid leaking existence.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError covers self-booking and duplicate-email attempts.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }

func NewNotFoundError(msg string) error { return &NotFoundError{Message: msg} }

func NewConflictError(msg string) error { return &ConflictError{Message: msg} }
