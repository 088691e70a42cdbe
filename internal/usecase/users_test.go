package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newUsers(users *MockUserRepository, leads *MockLeadRepository, interactions *MockInteractionRepository) *usecase.UsersUseCase {
	return usecase.NewUsersUseCase(users, leads, interactions)
}

func TestCreateUserMapsEmailConflict(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", ctx, mock.Anything).Return(entity.ErrEmailAlreadyUsed)

	uc := newUsers(mockUsers, new(MockLeadRepository), new(MockInteractionRepository))

	user, err := uc.Create(ctx, usecase.CreateUserInput{
		Name:     "Ana Souza",
		Email:    "ana@liguecrm.com",
		Password: "senha123",
	})

	assert.Nil(t, user)
	assert.True(t, usecase.IsConflict(err))
}

func TestCreateUserDefaultsToAgentRole(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockUsers.On("Create", ctx, mock.Anything).Return(nil)

	uc := newUsers(mockUsers, new(MockLeadRepository), new(MockInteractionRepository))

	user, err := uc.Create(ctx, usecase.CreateUserInput{
		Name:     "Ana Souza",
		Email:    "ana@liguecrm.com",
		Password: "senha123",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.RoleAgent, user.Role)
	assert.True(t, user.IsActive)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	ctx := context.Background()

	existing := &entity.User{ID: "user-1", Name: "Ana", Email: "ana@liguecrm.com", Password: "x", Role: entity.RoleAgent, IsActive: true}
	taken := &entity.User{ID: "user-2", Email: "bruno@liguecrm.com"}

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByID", ctx, "user-1").Return(existing, nil)
	mockUsers.On("FindByEmail", ctx, "bruno@liguecrm.com").Return(taken, nil)

	uc := newUsers(mockUsers, new(MockLeadRepository), new(MockInteractionRepository))

	email := "bruno@liguecrm.com"
	user, err := uc.Update(ctx, "user-1", usecase.UpdateUserInput{Email: &email})

	assert.Nil(t, user)
	assert.True(t, usecase.IsConflict(err))
	mockUsers.AssertNotCalled(t, "Update")
}

func TestDeactivateUnknownUser(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByID", ctx, "ghost").Return(nil, entity.ErrUserNotFound)

	uc := newUsers(mockUsers, new(MockLeadRepository), new(MockInteractionRepository))

	err := uc.Deactivate(ctx, "ghost")
	assert.True(t, usecase.IsNotFound(err))
	mockUsers.AssertNotCalled(t, "Deactivate")
}

func TestAgentPerformanceComputesConversionRate(t *testing.T) {
	ctx := context.Background()

	agent := &entity.User{ID: "a1", Name: "Ana", Email: "ana@liguecrm.com", Role: entity.RoleAgent, IsActive: true}

	mockUsers := new(MockUserRepository)
	mockUsers.On("FindByID", ctx, "a1").Return(agent, nil)

	mockLeads := new(MockLeadRepository)
	mockLeads.On("Count", mock.Anything, mock.MatchedBy(func(q usecase.LeadQuery) bool {
		return len(q.Statuses) == 0
	})).Return(8, nil)
	mockLeads.On("Count", mock.Anything, mock.MatchedBy(func(q usecase.LeadQuery) bool {
		return len(q.Statuses) == 1
	})).Return(2, nil)
	mockLeads.On("SumValue", mock.Anything, mock.Anything).Return(12000.0, nil)

	mockInteractions := new(MockInteractionRepository)
	mockInteractions.On("CountByUserSince", mock.Anything, "a1", mock.Anything).Return(40, nil)

	uc := newUsers(mockUsers, mockLeads, mockInteractions)

	perf, err := uc.AgentPerformance(ctx, "a1")

	assert.NoError(t, err)
	assert.Equal(t, "a1", perf.Agent.ID)
	assert.Equal(t, 8, perf.Metrics.LeadsAssigned)
	assert.Equal(t, 2, perf.Metrics.Conversions)
	assert.Equal(t, 12000.0, perf.Metrics.Revenue)
	assert.Equal(t, 40, perf.Metrics.Interactions)
	assert.InDelta(t, 25.0, perf.Metrics.ConversionRate, 0.001)
}
