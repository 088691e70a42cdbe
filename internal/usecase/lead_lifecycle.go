package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

const (
	EventLeadCreated       = "lead.created"
	EventLeadStatusChanged = "lead.status_changed"
)

type LeadLifecycleUseCase struct {
	Leads        LeadRepositoryInterface
	Interactions InteractionRepositoryInterface
	Users        UserRepositoryInterface
	Events       EventPublisherInterface
	Logger       zerolog.Logger
}

func NewLeadLifecycleUseCase(
	leads LeadRepositoryInterface,
	interactions InteractionRepositoryInterface,
	users UserRepositoryInterface,
	events EventPublisherInterface,
	logger zerolog.Logger,
) *LeadLifecycleUseCase {
	return &LeadLifecycleUseCase{
		Leads:        leads,
		Interactions: interactions,
		Users:        users,
		Events:       events,
		Logger:       logger,
	}
}

// Create: qualquer principal autenticado pode criar lead. Agente
// responsável cai no criador quando não informado, e precisa existir.
func (uc *LeadLifecycleUseCase) Create(ctx context.Context, input CreateLeadInput, creatorID string) (*entity.Lead, error) {
	if err := ValidateCreateLeadInput(input); err != nil {
		return nil, err
	}

	// E-mail de lead é único: conflito, não sobrescrita silenciosa.
	if _, err := uc.Leads.FindByEmail(ctx, input.Email); err == nil {
		return nil, &ConflictError{Message: "lead with this email already exists"}
	} else if !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, err
	}

	lead, err := entity.NewLead(input.Name, input.Email, sourceOrDefault(input.Source), creatorID, input.AssignedAgentID)
	if err != nil {
		return nil, &ValidationError{Field: "lead", Message: err.Error()}
	}

	if _, err := uc.Users.FindByID(ctx, lead.AssignedAgentID); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &ValidationError{Field: "assigned_agent_id", Message: "agent does not exist"}
		}
		return nil, err
	}

	lead.Phone = input.Phone
	lead.Company = input.Company
	lead.Position = input.Position
	lead.Value = input.Value
	lead.Description = input.Description
	lead.Notes = input.Notes
	if len(input.Tags) > 0 {
		lead.Tags = input.Tags
	}
	if input.Status != "" {
		lead.Status = entity.LeadStatus(input.Status)
	}
	if input.Priority != "" {
		lead.Priority = entity.Priority(input.Priority)
	}
	if input.NextContact != "" {
		next, _ := parseTimestamp(input.NextContact)
		lead.NextContact = &next
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyUsed) {
			return nil, &ConflictError{Message: "lead with this email already exists"}
		}
		return nil, fmt.Errorf("create lead: %w", err)
	}

	uc.publish(ctx, queue.LeadEventPayload{
		Event:    EventLeadCreated,
		LeadID:   lead.ID,
		LeadName: lead.Name,
		Company:  lead.Company,
		Status:   string(lead.Status),
		AgentID:  lead.AssignedAgentID,
		ActorID:  creatorID,
	})

	return lead, nil
}

// Get: existência antes de permissão, sempre. Lead inexistente devolve
// NotFound para qualquer papel; Forbidden só para linha fora do escopo.
func (uc *LeadLifecycleUseCase) Get(ctx context.Context, id string, role entity.Role, userID string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &NotFoundError{Resource: "lead"}
		}
		return nil, err
	}

	if !CanAccess(role, userID, lead) {
		return nil, &ForbiddenError{Message: "you can only access your assigned leads"}
	}

	interactions, err := uc.Interactions.ListByLead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	lead.Interactions = interactions

	return lead, nil
}

func (uc *LeadLifecycleUseCase) List(ctx context.Context, filters LeadFilters, role entity.Role, userID string) (*LeadPage, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 10
	}
	if filters.SortBy == "" {
		filters.SortBy = "createdAt"
	}
	if filters.SortOrder == "" {
		filters.SortOrder = "desc"
	}

	scope := ScopeFor(role, userID, filters.AssignedAgent)

	leads, total, err := uc.Leads.List(ctx, filters, scope)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	return &LeadPage{
		Data: leads,
		Meta: PageMeta{
			Total:      total,
			Page:       filters.Page,
			Limit:      filters.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(filters.Limit))),
		},
	}, nil
}

// Update aplica só os campos presentes; o resto fica como está.
func (uc *LeadLifecycleUseCase) Update(ctx context.Context, id string, input UpdateLeadInput, role entity.Role, userID string) (*entity.Lead, error) {
	if err := ValidateUpdateLeadInput(input); err != nil {
		return nil, err
	}

	lead, err := uc.Get(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != lead.Email {
		if _, err := uc.Leads.FindByEmail(ctx, *input.Email); err == nil {
			return nil, &ConflictError{Message: "lead with this email already exists"}
		} else if !errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		lead.Email = *input.Email
	}

	if input.Name != nil {
		lead.Name = *input.Name
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Company != nil {
		lead.Company = *input.Company
	}
	if input.Position != nil {
		lead.Position = *input.Position
	}
	if input.Status != nil {
		lead.Status = entity.LeadStatus(*input.Status)
	}
	if input.Source != nil {
		lead.Source = entity.LeadSource(*input.Source)
	}
	if input.Priority != nil {
		lead.Priority = entity.Priority(*input.Priority)
	}
	if input.Value != nil {
		lead.Value = *input.Value
	}
	if input.Description != nil {
		lead.Description = *input.Description
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}
	if input.Tags != nil {
		lead.Tags = *input.Tags
	}
	if input.NextContact != nil {
		if *input.NextContact == "" {
			lead.NextContact = nil
		} else {
			next, _ := parseTimestamp(*input.NextContact)
			lead.NextContact = &next
		}
	}
	if input.AssignedAgentID != nil {
		if _, err := uc.Users.FindByID(ctx, *input.AssignedAgentID); err != nil {
			if errors.Is(err, entity.ErrUserNotFound) {
				return nil, &ValidationError{Field: "assigned_agent_id", Message: "agent does not exist"}
			}
			return nil, err
		}
		lead.AssignedAgentID = *input.AssignedAgentID
	}

	if err := lead.Validate(); err != nil {
		return nil, &ValidationError{Field: "lead", Message: err.Error()}
	}

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}

	return lead, nil
}

// UpdateStatus grava o status e a interação de auditoria numa única
// transação. Sem trilha de auditoria não há mudança de status.
func (uc *LeadLifecycleUseCase) UpdateStatus(ctx context.Context, id string, input UpdateLeadStatusInput, role entity.Role, userID string) (*entity.Lead, error) {
	newStatus := entity.LeadStatus(input.Status)
	if !newStatus.Valid() {
		return nil, &ValidationError{Field: "status", Message: "is invalid"}
	}

	lead, err := uc.Get(ctx, id, role, userID)
	if err != nil {
		return nil, err
	}

	if !lead.Status.CanTransitionTo(newStatus) {
		return nil, &ValidationError{Field: "status", Message: "transition not allowed"}
	}

	lead.Status = newStatus
	if input.Notes != "" {
		lead.Notes = input.Notes
	}

	description := input.Notes
	if description == "" {
		description = fmt.Sprintf("Lead status updated to %s", newStatus)
	}

	audit, err := entity.NewInteraction(
		entity.InteractionNote,
		fmt.Sprintf("Status changed to %s", newStatus),
		description,
		lead.ID,
		userID,
	)
	if err != nil {
		return nil, &ValidationError{Field: "interaction", Message: err.Error()}
	}

	if err := uc.Leads.UpdateStatusWithInteraction(ctx, lead, audit); err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}

	uc.publish(ctx, queue.LeadEventPayload{
		Event:    EventLeadStatusChanged,
		LeadID:   lead.ID,
		LeadName: lead.Name,
		Company:  lead.Company,
		Status:   string(newStatus),
		AgentID:  lead.AssignedAgentID,
		ActorID:  userID,
	})

	return lead, nil
}

// Remove: ADMIN apaga de verdade (interações vão em cascata); os demais
// papéis arquivam e a linha continua consultável.
func (uc *LeadLifecycleUseCase) Remove(ctx context.Context, id string, role entity.Role, userID string) (RemoveOutcome, error) {
	lead, err := uc.Get(ctx, id, role, userID)
	if err != nil {
		return "", err
	}

	if !CanHardDelete(role) {
		lead.Status = entity.StatusArchived
		if err := uc.Leads.Update(ctx, lead); err != nil {
			return "", fmt.Errorf("archive lead: %w", err)
		}
		return OutcomeArchived, nil
	}

	if err := uc.Leads.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("delete lead: %w", err)
	}
	return OutcomeDeleted, nil
}

// Stats: visão rápida dos leads no escopo do principal.
func (uc *LeadLifecycleUseCase) Stats(ctx context.Context, role entity.Role, userID string) (*LeadStats, error) {
	scope := ScopeFor(role, userID, "")
	stats := &LeadStats{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope})
		stats.Total = total
		return err
	})
	g.Go(func() error {
		revenue, err := uc.Leads.SumValue(gctx, LeadQuery{
			Scope:    scope,
			Statuses: []entity.LeadStatus{entity.StatusClosedWon},
		})
		stats.Revenue = revenue
		return err
	})
	g.Go(func() error {
		byStatus, err := uc.Leads.CountGroupedByStatus(gctx, scope)
		stats.ByStatus = byStatus
		return err
	})
	g.Go(func() error {
		bySource, err := uc.Leads.CountGroupedBySource(gctx, scope)
		stats.BySource = bySource
		return err
	})
	g.Go(func() error {
		recent, err := uc.Leads.ListRecent(gctx, scope, 5)
		stats.RecentLeads = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}

	return stats, nil
}

func (uc *LeadLifecycleUseCase) publish(ctx context.Context, payload queue.LeadEventPayload) {
	if uc.Events == nil {
		return
	}
	if err := uc.Events.PublishLeadEvent(ctx, payload); err != nil {
		// Notificação é best-effort: loga e segue.
		uc.Logger.Warn().Err(err).
			Str("event", payload.Event).
			Str("lead_id", payload.LeadID).
			Msg("failed to publish lead event")
	}
}

func sourceOrDefault(s string) entity.LeadSource {
	if s == "" {
		return entity.SourceOther
	}
	return entity.LeadSource(s)
}
