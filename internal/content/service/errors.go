package service

import "errors"

var (
	// ErrNoStartPage - у истории ещё не выбрана стартовая страница.
	ErrNoStartPage = errors.New("story has no start page set")

	// ErrStartPageMismatch - страница, назначаемая стартовой, принадлежит
	// другой истории.
	ErrStartPageMismatch = errors.New("start page does not belong to this story")
)
