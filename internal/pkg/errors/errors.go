package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная публикация заявки).
	ErrConflict = errors.New("resource state conflict")

	// ErrVotingClosed возвращается, когда окно голосования закрыто:
	// челлендж не в статусе active или дедлайн голосования уже прошёл.
	ErrVotingClosed = errors.New("voting is closed")

	// ErrBudgetExceeded возвращается, когда суммарный вес голосов участника
	// за неделю превысил бы бюджет.
	ErrBudgetExceeded = errors.New("vote budget exceeded")

	// ErrNotConfigured возвращается, когда для операции не задан обязательный
	// секрет (например, CRON_SECRET для фазовых переходов).
	ErrNotConfigured = errors.New("required secret is not configured")
)
