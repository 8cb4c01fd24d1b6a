package repository

import "errors"

var (
	// ErrAlreadyPublished означает попытку повторной публикации заявки.
	ErrAlreadyPublished = errors.New("entry is already published")

	// ErrEmptyDraft означает попытку опубликовать заявку без текста черновика.
	ErrEmptyDraft = errors.New("entry draft is empty")
)
