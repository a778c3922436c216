package models

import "errors"

var (
	ErrNotFound          = errors.New("не найдено")
	ErrAlreadyProcessing = errors.New("уже обрабатывается")
	ErrAlreadyExists     = errors.New("уже существует")
	ErrConflict          = errors.New("конфликт данных")
	ErrForbidden         = errors.New("доступ запрещен")
	ErrInvalidToken      = errors.New("недействительный токен")
	ErrInvalidInput      = errors.New("неверные данные")
)
