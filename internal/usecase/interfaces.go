package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// LeadQuery descreve uma agregação tipada sobre leads. O repositório
// só executa; quem decide janela, escopo e statuses é o usecase.
type LeadQuery struct {
	Scope       Scope
	Statuses    []entity.LeadStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
}

// RevenuePoint é um CLOSED_WON individual para o gráfico de receita.
type RevenuePoint struct {
	Value     float64
	UpdatedAt time.Time
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	FindByEmail(ctx context.Context, email string) (*entity.Lead, error)
	List(ctx context.Context, filters LeadFilters, scope Scope) ([]*entity.Lead, int, error)
	ListRecent(ctx context.Context, scope Scope, limit int) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error

	// UpdateStatusWithInteraction grava o novo status e a interação de
	// auditoria na MESMA transação: ou os dois entram, ou nenhum.
	UpdateStatusWithInteraction(ctx context.Context, lead *entity.Lead, audit *entity.Interaction) error

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context, q LeadQuery) (int, error)
	SumValue(ctx context.Context, q LeadQuery) (float64, error)
	AvgValue(ctx context.Context, q LeadQuery) (float64, error)
	CountGroupedByStatus(ctx context.Context, scope Scope) (map[entity.LeadStatus]int, error)
	CountGroupedBySource(ctx context.Context, scope Scope) (map[entity.LeadSource]int, error)
	ClosedWonValuesSince(ctx context.Context, scope Scope, since time.Time) ([]RevenuePoint, error)
}

type InteractionRepositoryInterface interface {
	Create(ctx context.Context, it *entity.Interaction) error
	ListByLead(ctx context.Context, leadID string) ([]*entity.Interaction, error)
	ListRecent(ctx context.Context, scope Scope, limit int) ([]*entity.Interaction, error)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, search string, page, limit int) ([]*entity.User, int, error)
	Update(ctx context.Context, user *entity.User) error
	Deactivate(ctx context.Context, id string) error
	FindActiveAgents(ctx context.Context) ([]*entity.User, error)
}

type SettingsRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Settings, error)
	Create(ctx context.Context, s *entity.Settings) error
	Update(ctx context.Context, s *entity.Settings) error
	Delete(ctx context.Context, userID string) error
}

// EventPublisherInterface publica eventos de lead para notificação.
// Best-effort: falha de publish nunca derruba a operação de origem.
type EventPublisherInterface interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}
