package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	StatusNew         LeadStatus = "NEW"
	StatusContacted   LeadStatus = "CONTACTED"
	StatusQualified   LeadStatus = "QUALIFIED"
	StatusProposal    LeadStatus = "PROPOSAL"
	StatusNegotiation LeadStatus = "NEGOTIATION"
	StatusClosedWon   LeadStatus = "CLOSED_WON"
	StatusClosedLost  LeadStatus = "CLOSED_LOST"
	StatusArchived    LeadStatus = "ARCHIVED"
)

func LeadStatuses() []LeadStatus {
	return []LeadStatus{
		StatusNew, StatusContacted, StatusQualified, StatusProposal,
		StatusNegotiation, StatusClosedWon, StatusClosedLost, StatusArchived,
	}
}

func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo é o ponto único onde regras de transição de status
// seriam endurecidas. Hoje o funil aceita qualquer salto, inclusive
// para trás (cliente retoma negociação, lead reaberto etc.).
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	return next.Valid()
}

type LeadSource string

const (
	SourceWebsite       LeadSource = "WEBSITE"
	SourceReferral      LeadSource = "REFERRAL"
	SourceSocialMedia   LeadSource = "SOCIAL_MEDIA"
	SourceEmailCampaign LeadSource = "EMAIL_CAMPAIGN"
	SourceColdCall      LeadSource = "COLD_CALL"
	SourceEvent         LeadSource = "EVENT"
	SourceOther         LeadSource = "OTHER"
)

func (s LeadSource) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceSocialMedia,
		SourceEmailCampaign, SourceColdCall, SourceEvent, SourceOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Entidade: Lead
type Lead struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Company     string     `json:"company,omitempty"`
	Position    string     `json:"position,omitempty"`
	Status      LeadStatus `json:"status"`
	Source      LeadSource `json:"source"`
	Priority    Priority   `json:"priority"`
	Value       float64    `json:"value"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Tags        []string   `json:"tags"`
	NextContact *time.Time `json:"next_contact,omitempty"`

	AssignedAgentID string `json:"assigned_agent_id"`
	CreatedByID     string `json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Preenchidos por query quando o caller pede a projeção completa.
	AssignedAgent *PublicRef     `json:"assigned_agent,omitempty"`
	CreatedBy     *PublicRef     `json:"created_by,omitempty"`
	Interactions  []*Interaction `json:"interactions,omitempty"`
}

// Factory. assignedAgentID vazio cai no criador.
func NewLead(name, email string, source LeadSource, createdByID, assignedAgentID string) (*Lead, error) {
	if assignedAgentID == "" {
		assignedAgentID = createdByID
	}

	lead := &Lead{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		Status:          StatusNew,
		Source:          source,
		Priority:        PriorityMedium,
		Tags:            []string{},
		AssignedAgentID: assignedAgentID,
		CreatedByID:     createdByID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !l.Status.Valid() {
		return errors.New("status is invalid")
	}
	if !l.Source.Valid() {
		return errors.New("source is invalid")
	}
	if !l.Priority.Valid() {
		return errors.New("priority is invalid")
	}
	if l.Value < 0 {
		return errors.New("value must not be negative")
	}
	if l.AssignedAgentID == "" {
		return errors.New("assigned_agent_id is required")
	}
	if l.CreatedByID == "" {
		return errors.New("created_by_id is required")
	}
	return nil
}
