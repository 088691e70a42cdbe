package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	Languages   = []string{"pt-BR", "en-US", "es-ES"}
	Currencies  = []string{"BRL", "USD", "EUR"}
	DateFormats = []string{"DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD"}
)

// Settings — preferências 1:1 com User, materializadas no primeiro acesso.
type Settings struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Timezone      string  `json:"timezone"`
	Language      string  `json:"language"`
	Currency      string  `json:"currency"`
	DateFormat    string  `json:"date_format"`
	Notifications JSONMap `json:"notifications"`
	Preferences   JSONMap `json:"preferences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings são os padrões do sistema (documentados, não mude
// sem avisar o time de produto).
func DefaultSettings(userID string) *Settings {
	return &Settings{
		ID:         uuid.New().String(),
		UserID:     userID,
		Timezone:   "America/Sao_Paulo",
		Language:   "pt-BR",
		Currency:   "BRL",
		DateFormat: "DD/MM/YYYY",
		Notifications: JSONMap{
			"email":        true,
			"push":         true,
			"newLeads":     true,
			"leadUpdates":  true,
			"dailyReport":  false,
			"weeklyReport": true,
		},
		Preferences: JSONMap{
			"theme":           "light",
			"leadsPerPage":    10,
			"defaultView":     "list",
			"autoAssignLeads": false,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (s *Settings) Validate() error {
	if s.UserID == "" {
		return errors.New("user_id is required")
	}
	if s.Language != "" && !contains(Languages, s.Language) {
		return errors.New("language must be pt-BR, en-US or es-ES")
	}
	if s.Currency != "" && !contains(Currencies, s.Currency) {
		return errors.New("currency must be BRL, USD or EUR")
	}
	if s.DateFormat != "" && !contains(DateFormats, s.DateFormat) {
		return errors.New("date_format is invalid")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
