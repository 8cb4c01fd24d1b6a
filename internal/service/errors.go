package service

import "errors"

// Определяем кастомные ошибки для сервисов
var (
	// ErrEntryNotInChallenge означает, что заявка не принадлежит указанному челленджу.
	ErrEntryNotInChallenge = errors.New("entry does not belong to this challenge")

	// ErrEntryNotPublished означает попытку проголосовать за неопубликованную заявку.
	ErrEntryNotPublished = errors.New("entry is not published")

	// ErrNotAWinner означает, что заявка не входит в призовые места недели.
	ErrNotAWinner = errors.New("entry is not among the week winners")

	// ErrNotesWindowClosed означает, что окно для комментария победителя закрылось.
	ErrNotesWindowClosed = errors.New("winner notes window is closed")
)
