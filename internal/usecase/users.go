package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const bcryptCost = 12

type UsersUseCase struct {
	Users        UserRepositoryInterface
	Leads        LeadRepositoryInterface
	Interactions InteractionRepositoryInterface
}

func NewUsersUseCase(
	users UserRepositoryInterface,
	leads LeadRepositoryInterface,
	interactions InteractionRepositoryInterface,
) *UsersUseCase {
	return &UsersUseCase{Users: users, Leads: leads, Interactions: interactions}
}

func (uc *UsersUseCase) Create(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	if err := ValidateCreateUserInput(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := entity.NewUser(input.Name, input.Email, string(hash), entity.Role(input.Role))
	if err != nil {
		return nil, &ValidationError{Field: "user", Message: err.Error()}
	}
	user.Phone = input.Phone
	user.Avatar = input.Avatar

	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyUsed) {
			return nil, &ConflictError{Message: "user with this email already exists"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (uc *UsersUseCase) FindAll(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, total, err := uc.Users.List(ctx, search, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &UserPage{
		Data: users,
		Meta: PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (uc *UsersUseCase) FindByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return user, nil
}

func (uc *UsersUseCase) Update(ctx context.Context, id string, input UpdateUserInput) (*entity.User, error) {
	user, err := uc.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if _, err := uc.Users.FindByEmail(ctx, *input.Email); err == nil {
			return nil, &ConflictError{Message: "email already in use"}
		} else if !errors.Is(err, entity.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !entity.Role(*input.Role).Valid() {
			return nil, &ValidationError{Field: "role", Message: "must be ADMIN, MANAGER or AGENT"}
		}
		user.Role = entity.Role(*input.Role)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := uc.Users.Update(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyUsed) {
			return nil, &ConflictError{Message: "email already in use"}
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Deactivate: usuário nunca é apagado de verdade, só desligado.
func (uc *UsersUseCase) Deactivate(ctx context.Context, id string) error {
	if _, err := uc.FindByID(ctx, id); err != nil {
		return err
	}
	if err := uc.Users.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// AgentPerformance: números do mês corrente para um agente específico.
func (uc *UsersUseCase) AgentPerformance(ctx context.Context, agentID string) (*AgentPerformance, error) {
	agent, err := uc.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	startOfMonth, _, _ := monthWindow(time.Now())
	scope := Scope{AgentID: agentID}
	closedWon := []entity.LeadStatus{entity.StatusClosedWon}

	perf := &AgentPerformance{Agent: agent.Ref()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, CreatedFrom: &startOfMonth})
		perf.Metrics.LeadsAssigned = n
		return err
	})
	g.Go(func() error {
		n, err := uc.Interactions.CountByUserSince(gctx, agentID, startOfMonth)
		perf.Metrics.Interactions = n
		return err
	})
	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfMonth})
		perf.Metrics.Conversions = n
		return err
	})
	g.Go(func() error {
		sum, err := uc.Leads.SumValue(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfMonth})
		perf.Metrics.Revenue = sum
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("agent performance: %w", err)
	}

	if perf.Metrics.LeadsAssigned > 0 {
		perf.Metrics.ConversionRate = float64(perf.Metrics.Conversions) / float64(perf.Metrics.LeadsAssigned) * 100
	}

	return perf, nil
}
