package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestNewLeadDefaults(t *testing.T) {
	lead, err := entity.NewLead("Carlos", "carlos@empresa.com.br", entity.SourceWebsite, "creator-1", "")

	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, entity.PriorityMedium, lead.Priority)
	assert.Equal(t, []string{}, lead.Tags)
	// Sem agente informado, o criador assume.
	assert.Equal(t, "creator-1", lead.AssignedAgentID)
	assert.Equal(t, "creator-1", lead.CreatedByID)
}

func TestNewLeadKeepsExplicitAgent(t *testing.T) {
	lead, err := entity.NewLead("Carlos", "carlos@empresa.com.br", entity.SourceReferral, "creator-1", "agent-2")

	assert.NoError(t, err)
	assert.Equal(t, "agent-2", lead.AssignedAgentID)
	assert.Equal(t, "creator-1", lead.CreatedByID)
}

func TestLeadValidate(t *testing.T) {
	lead, _ := entity.NewLead("Carlos", "carlos@empresa.com.br", entity.SourceWebsite, "creator-1", "")

	lead.Value = -10
	assert.Error(t, lead.Validate())

	lead.Value = 0
	lead.Status = "PENDENTE"
	assert.Error(t, lead.Validate())
}

func TestStatusTransitionsAcceptAnyValidStatus(t *testing.T) {
	// Funil permissivo: saltos para frente e para trás são aceitos.
	assert.True(t, entity.StatusNew.CanTransitionTo(entity.StatusClosedWon))
	assert.True(t, entity.StatusClosedWon.CanTransitionTo(entity.StatusNegotiation))
	assert.True(t, entity.StatusArchived.CanTransitionTo(entity.StatusNew))
	assert.False(t, entity.StatusNew.CanTransitionTo("PENDENTE"))
}
