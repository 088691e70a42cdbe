package entity

import "errors"

// Sentinelas devolvidas pela camada de persistência. A camada de
// usecase traduz para os erros tipados expostos ao transporte.
var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrSettingsNotFound = errors.New("settings not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)
