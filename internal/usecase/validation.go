package usecase

import (
	"net/mail"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Validação defensiva. O transporte já valida o DTO antes de chegar
// aqui, mas o core não confia nisso para invariantes de domínio.

func ValidateCreateLeadInput(input CreateLeadInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{"name", "is required"}
	}
	if len(input.Name) > 100 {
		return &ValidationError{"name", "must not exceed 100 characters"}
	}
	if strings.TrimSpace(input.Email) == "" {
		return &ValidationError{"email", "is required"}
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return &ValidationError{"email", "is invalid"}
	}
	if input.Status != "" && !entity.LeadStatus(input.Status).Valid() {
		return &ValidationError{"status", "is invalid"}
	}
	if input.Source != "" && !entity.LeadSource(input.Source).Valid() {
		return &ValidationError{"source", "is invalid"}
	}
	if input.Priority != "" && !entity.Priority(input.Priority).Valid() {
		return &ValidationError{"priority", "is invalid"}
	}
	if input.Value < 0 {
		return &ValidationError{"value", "must not be negative"}
	}
	if input.NextContact != "" {
		if _, err := parseTimestamp(input.NextContact); err != nil {
			return &ValidationError{"next_contact", "must be a valid timestamp"}
		}
	}
	return nil
}

func ValidateUpdateLeadInput(input UpdateLeadInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return &ValidationError{"name", "must not be empty"}
	}
	if input.Email != nil {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			return &ValidationError{"email", "is invalid"}
		}
	}
	if input.Status != nil && !entity.LeadStatus(*input.Status).Valid() {
		return &ValidationError{"status", "is invalid"}
	}
	if input.Source != nil && !entity.LeadSource(*input.Source).Valid() {
		return &ValidationError{"source", "is invalid"}
	}
	if input.Priority != nil && !entity.Priority(*input.Priority).Valid() {
		return &ValidationError{"priority", "is invalid"}
	}
	if input.Value != nil && *input.Value < 0 {
		return &ValidationError{"value", "must not be negative"}
	}
	if input.NextContact != nil && *input.NextContact != "" {
		if _, err := parseTimestamp(*input.NextContact); err != nil {
			return &ValidationError{"next_contact", "must be a valid timestamp"}
		}
	}
	return nil
}

func ValidateCreateUserInput(input CreateUserInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{"name", "is required"}
	}
	if len(input.Name) < 2 || len(input.Name) > 100 {
		return &ValidationError{"name", "must have between 2 and 100 characters"}
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return &ValidationError{"email", "is invalid"}
	}
	if len(input.Password) < 6 {
		return &ValidationError{"password", "must have at least 6 characters"}
	}
	if input.Role != "" && !entity.Role(input.Role).Valid() {
		return &ValidationError{"role", "must be ADMIN, MANAGER or AGENT"}
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
