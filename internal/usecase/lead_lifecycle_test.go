package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newLifecycle(leads *MockLeadRepository, interactions *MockInteractionRepository, users *MockUserRepository, events *MockEventPublisher) *usecase.LeadLifecycleUseCase {
	return usecase.NewLeadLifecycleUseCase(leads, interactions, users, events, zerolog.Nop())
}

func agentUser(id string) *entity.User {
	return &entity.User{ID: id, Name: "Ana Souza", Email: "ana@liguecrm.com", Role: entity.RoleAgent, IsActive: true}
}

func leadOwnedBy(agentID string) *entity.Lead {
	return &entity.Lead{
		ID:              "lead-1",
		Name:            "Carlos Pereira",
		Email:           "carlos@empresa.com.br",
		Status:          entity.StatusNew,
		Source:          entity.SourceWebsite,
		Priority:        entity.PriorityMedium,
		Tags:            []string{},
		AssignedAgentID: agentID,
		CreatedByID:     agentID,
	}
}

func TestCreateLeadDefaultsAgentToCreator(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByEmail", ctx, "novo@empresa.com.br").Return(nil, entity.ErrLeadNotFound)
	mockUsers.On("FindByID", ctx, "user-1").Return(agentUser("user-1"), nil)
	mockLeads.On("Create", ctx, mock.Anything).Return(nil)
	mockEvents.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	lead, err := uc.Create(ctx, usecase.CreateLeadInput{
		Name:  "Novo Lead",
		Email: "novo@empresa.com.br",
	}, "user-1")

	assert.NoError(t, err)
	assert.NotNil(t, lead)
	assert.Equal(t, "user-1", lead.AssignedAgentID)
	assert.Equal(t, "user-1", lead.CreatedByID)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, entity.SourceOther, lead.Source)
	assert.Equal(t, entity.PriorityMedium, lead.Priority)

	mockEvents.AssertCalled(t, "PublishLeadEvent", ctx, mock.Anything)
}

func TestCreateLeadEmailConflict(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	existing := leadOwnedBy("user-9")
	mockLeads.On("FindByEmail", ctx, "carlos@empresa.com.br").Return(existing, nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	lead, err := uc.Create(ctx, usecase.CreateLeadInput{
		Name:  "Carlos Duplicado",
		Email: "carlos@empresa.com.br",
	}, "user-1")

	assert.Error(t, err)
	assert.Nil(t, lead)
	assert.True(t, usecase.IsConflict(err))
	mockLeads.AssertNotCalled(t, "Create")
}

func TestCreateLeadUnknownAgent(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByEmail", ctx, "novo@empresa.com.br").Return(nil, entity.ErrLeadNotFound)
	mockUsers.On("FindByID", ctx, "ghost").Return(nil, entity.ErrUserNotFound)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	lead, err := uc.Create(ctx, usecase.CreateLeadInput{
		Name:            "Novo Lead",
		Email:           "novo@empresa.com.br",
		AssignedAgentID: "ghost",
	}, "user-1")

	assert.Error(t, err)
	assert.Nil(t, lead)
	assert.True(t, usecase.IsValidation(err))
	mockLeads.AssertNotCalled(t, "Create")
}

func TestCreateLeadSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByEmail", ctx, "novo@empresa.com.br").Return(nil, entity.ErrLeadNotFound)
	mockUsers.On("FindByID", ctx, "user-1").Return(agentUser("user-1"), nil)
	mockLeads.On("Create", ctx, mock.Anything).Return(nil)
	mockEvents.On("PublishLeadEvent", ctx, mock.Anything).Return(errors.New("broker down"))

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	lead, err := uc.Create(ctx, usecase.CreateLeadInput{
		Name:  "Novo Lead",
		Email: "novo@empresa.com.br",
	}, "user-1")

	// Notificação é best-effort: broker fora do ar não derruba a criação.
	assert.NoError(t, err)
	assert.NotNil(t, lead)
}

func TestGetLeadNotFoundBeforeForbidden(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "missing").Return(nil, entity.ErrLeadNotFound)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	// Lead inexistente devolve NotFound mesmo para AGENT sem acesso.
	lead, err := uc.Get(ctx, "missing", entity.RoleAgent, "user-1")
	assert.Nil(t, lead)
	assert.True(t, usecase.IsNotFound(err))
	assert.False(t, usecase.IsForbidden(err))
}

func TestGetLeadForbiddenForOtherAgent(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "lead-1").Return(leadOwnedBy("user-2"), nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	lead, err := uc.Get(ctx, "lead-1", entity.RoleAgent, "user-1")
	assert.Nil(t, lead)
	assert.True(t, usecase.IsForbidden(err))

	// MANAGER enxerga qualquer lead.
	mockInteractions.On("ListByLead", ctx, "lead-1").Return([]*entity.Interaction{}, nil)
	lead, err = uc.Get(ctx, "lead-1", entity.RoleManager, "user-1")
	assert.NoError(t, err)
	assert.NotNil(t, lead)
}

func TestUpdateStatusWritesAuditInteraction(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "lead-1").Return(leadOwnedBy("user-1"), nil)
	mockInteractions.On("ListByLead", ctx, "lead-1").Return([]*entity.Interaction{}, nil)

	var captured *entity.Interaction
	mockLeads.On("UpdateStatusWithInteraction", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*entity.Interaction)
		}).Return(nil)
	mockEvents.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	lead, err := uc.UpdateStatus(ctx, "lead-1", usecase.UpdateLeadStatusInput{
		Status: "QUALIFIED",
	}, entity.RoleAgent, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusQualified, lead.Status)

	assert.NotNil(t, captured)
	assert.Equal(t, entity.InteractionNote, captured.Type)
	assert.Equal(t, "Status changed to QUALIFIED", captured.Subject)
	assert.Equal(t, "Lead status updated to QUALIFIED", captured.Description)
	assert.Equal(t, "lead-1", captured.LeadID)
	assert.Equal(t, "user-1", captured.UserID)
}

func TestUpdateStatusUsesNotesAsDescription(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "lead-1").Return(leadOwnedBy("user-1"), nil)
	mockInteractions.On("ListByLead", ctx, "lead-1").Return([]*entity.Interaction{}, nil)

	var captured *entity.Interaction
	mockLeads.On("UpdateStatusWithInteraction", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*entity.Interaction)
		}).Return(nil)
	mockEvents.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	_, err := uc.UpdateStatus(ctx, "lead-1", usecase.UpdateLeadStatusInput{
		Status: "CLOSED_WON",
		Notes:  "Contrato assinado hoje",
	}, entity.RoleAgent, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "Status changed to CLOSED_WON", captured.Subject)
	assert.Equal(t, "Contrato assinado hoje", captured.Description)
}

func TestUpdateStatusRejectsInvalidStatus(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	_, err := uc.UpdateStatus(ctx, "lead-1", usecase.UpdateLeadStatusInput{
		Status: "WHATEVER",
	}, entity.RoleAdmin, "user-1")

	assert.True(t, usecase.IsValidation(err))
	mockLeads.AssertNotCalled(t, "UpdateStatusWithInteraction")
}

func TestRemoveLeadArchivesForNonAdmin(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "lead-1").Return(leadOwnedBy("user-1"), nil)
	mockInteractions.On("ListByLead", ctx, "lead-1").Return([]*entity.Interaction{}, nil)

	var archived *entity.Lead
	mockLeads.On("Update", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			archived = args.Get(1).(*entity.Lead)
		}).Return(nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	outcome, err := uc.Remove(ctx, "lead-1", entity.RoleAgent, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, usecase.OutcomeArchived, outcome)
	assert.Equal(t, entity.StatusArchived, archived.Status)
	mockLeads.AssertNotCalled(t, "Delete")
}

func TestRemoveLeadHardDeletesForAdmin(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "lead-1").Return(leadOwnedBy("user-1"), nil)
	mockInteractions.On("ListByLead", ctx, "lead-1").Return([]*entity.Interaction{}, nil)
	mockLeads.On("Delete", ctx, "lead-1").Return(nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	outcome, err := uc.Remove(ctx, "lead-1", entity.RoleAdmin, "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, usecase.OutcomeDeleted, outcome)
	mockLeads.AssertCalled(t, "Delete", ctx, "lead-1")
	mockLeads.AssertNotCalled(t, "Update")
}

func TestListLeadsScopesAgentAndPaginates(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	var capturedScope usecase.Scope
	mockLeads.On("List", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedScope = args.Get(2).(usecase.Scope)
		}).
		Return([]*entity.Lead{leadOwnedBy("user-1")}, 25, nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	// AGENT pedindo o filtro de outro agente: o filtro é ignorado.
	page, err := uc.List(ctx, usecase.LeadFilters{AssignedAgent: "user-2"}, entity.RoleAgent, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", capturedScope.AgentID)
	assert.Equal(t, 25, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.Limit)
	assert.Equal(t, 3, page.Meta.TotalPages)
}

func TestUpdateLeadPartialFields(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockInteractions := new(MockInteractionRepository)
	mockUsers := new(MockUserRepository)
	mockEvents := new(MockEventPublisher)

	mockLeads.On("FindByID", ctx, "lead-1").Return(leadOwnedBy("user-1"), nil)
	mockInteractions.On("ListByLead", ctx, "lead-1").Return([]*entity.Interaction{}, nil)
	mockLeads.On("Update", ctx, mock.Anything).Return(nil)

	uc := newLifecycle(mockLeads, mockInteractions, mockUsers, mockEvents)

	value := 5000.0
	priority := "HIGH"
	lead, err := uc.Update(ctx, "lead-1", usecase.UpdateLeadInput{
		Value:    &value,
		Priority: &priority,
	}, entity.RoleAgent, "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 5000.0, lead.Value)
	assert.Equal(t, entity.PriorityHigh, lead.Priority)
	// Campos não informados ficam como estavam.
	assert.Equal(t, "Carlos Pereira", lead.Name)
	assert.Equal(t, entity.StatusNew, lead.Status)
}
