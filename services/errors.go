package services

import "errors"

// Ошибки сервисного слоя. Ошибки турнирной логики живут в пакете brackets
// и пробрасываются без изменений (обёрнутые через %w).
var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrEntrantNotFound        = errors.New("entrant not found")
	ErrTournamentNameRequired = errors.New("tournament name is required")

	ErrAuthInvalidCredentials = errors.New("invalid organizer password")
	ErrAuthDisabled           = errors.New("organizer authentication is not configured")
)
