package repository

import "errors"

var (
	// ErrStatusNotAdvanced означает, что условный перевод статуса не затронул ни одной
	// строки: челлендж уже ушел из исходного статуса (или никогда в нем не был).
	ErrStatusNotAdvanced = errors.New("challenge status was not advanced")

	// ErrDuplicateWeek означает, что челлендж для этой недели уже существует
	// (нарушение уникального индекса по week_key).
	ErrDuplicateWeek = errors.New("challenge for this week already exists")
)
