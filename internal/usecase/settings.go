package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type SettingsUseCase struct {
	Settings SettingsRepositoryInterface
}

func NewSettingsUseCase(settings SettingsRepositoryInterface) *SettingsUseCase {
	return &SettingsUseCase{Settings: settings}
}

// GetOrCreate materializa os padrões do sistema no primeiro acesso.
// Chamadas repetidas devolvem sempre o mesmo registro.
func (uc *SettingsUseCase) GetOrCreate(ctx context.Context, userID string) (*entity.Settings, error) {
	settings, err := uc.Settings.FindByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, entity.ErrSettingsNotFound) {
		return nil, fmt.Errorf("find settings: %w", err)
	}

	settings = entity.DefaultSettings(userID)
	if err := uc.Settings.Create(ctx, settings); err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}

	return settings, nil
}

// Update: campos simples substituem quando presentes; notifications e
// preferences fazem merge chave a chave — nunca troca do mapa inteiro.
func (uc *SettingsUseCase) Update(ctx context.Context, userID string, input UpdateSettingsInput) (*entity.Settings, error) {
	settings, err := uc.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.Language != nil {
		settings.Language = *input.Language
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.DateFormat != nil {
		settings.DateFormat = *input.DateFormat
	}
	if input.Notifications != nil {
		settings.Notifications = settings.Notifications.Merge(input.Notifications)
	}
	if input.Preferences != nil {
		settings.Preferences = settings.Preferences.Merge(input.Preferences)
	}

	if err := settings.Validate(); err != nil {
		return nil, &ValidationError{Field: "settings", Message: err.Error()}
	}

	settings.UpdatedAt = time.Now()
	if err := uc.Settings.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return settings, nil
}

func (uc *SettingsUseCase) Delete(ctx context.Context, userID string) error {
	if err := uc.Settings.Delete(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrSettingsNotFound) {
			return &NotFoundError{Resource: "settings"}
		}
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

// Defaults expõe os padrões sem tocar no banco.
func (uc *SettingsUseCase) Defaults() *entity.Settings {
	return entity.DefaultSettings("")
}
