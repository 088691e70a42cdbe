package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type InteractionType string

const (
	InteractionCall    InteractionType = "CALL"
	InteractionEmail   InteractionType = "EMAIL"
	InteractionMeeting InteractionType = "MEETING"
	InteractionNote    InteractionType = "NOTE"
	InteractionTask    InteractionType = "TASK"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionCall, InteractionEmail, InteractionMeeting,
		InteractionNote, InteractionTask:
		return true
	}
	return false
}

// Entidade: Interaction — trilha de auditoria/atividade de um lead.
// Append-only: nunca é atualizada nem removida individualmente; some
// apenas em cascata quando o lead é apagado de vez.
type Interaction struct {
	ID          string          `json:"id"`
	Type        InteractionType `json:"type"`
	Subject     string          `json:"subject"`
	Description string          `json:"description,omitempty"`
	LeadID      string          `json:"lead_id"`
	UserID      string          `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`

	// Projeções opcionais para o feed de atividades.
	Lead *LeadRef   `json:"lead,omitempty"`
	User *PublicRef `json:"user,omitempty"`
}

// LeadRef é a projeção enxuta de um lead aninhado numa interação.
type LeadRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// Factory
func NewInteraction(t InteractionType, subject, description, leadID, userID string) (*Interaction, error) {
	it := &Interaction{
		ID:          uuid.New().String(),
		Type:        t,
		Subject:     subject,
		Description: description,
		LeadID:      leadID,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}

	if err := it.Validate(); err != nil {
		return nil, err
	}

	return it, nil
}

func (i *Interaction) Validate() error {
	if !i.Type.Valid() {
		return errors.New("type is invalid")
	}
	if i.Subject == "" {
		return errors.New("subject is required")
	}
	if i.LeadID == "" {
		return errors.New("lead_id is required")
	}
	if i.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}
