package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// DashboardUseCase computa os agregados do dashboard. Toda operação
// aplica o escopo do Access Policy antes de agregar. As leituras são
// independentes e rodam em paralelo: números de painel, não livro-caixa —
// consistência aproximada entre as queries de uma chamada é aceitável.
type DashboardUseCase struct {
	Leads        LeadRepositoryInterface
	Interactions InteractionRepositoryInterface
	Users        UserRepositoryInterface
}

func NewDashboardUseCase(
	leads LeadRepositoryInterface,
	interactions InteractionRepositoryInterface,
	users UserRepositoryInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		Leads:        leads,
		Interactions: interactions,
		Users:        users,
	}
}

var pipelineStatuses = []entity.LeadStatus{
	entity.StatusQualified, entity.StatusProposal, entity.StatusNegotiation,
}

// growthPercent: crescimento relativo entre períodos. Por convenção é
// exatamente 0 quando o período anterior é 0 — escolha de política para
// não dividir por zero, não verdade matemática.
func growthPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func monthWindow(now time.Time) (startOfMonth, startOfLastMonth, endOfLastMonth time.Time) {
	startOfMonth = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth = startOfMonth.AddDate(0, -1, 0)
	endOfLastMonth = startOfMonth.Add(-time.Nanosecond)
	return
}

// GetMetrics: contagens e somas do mês corrente mais comparativo com o
// mês anterior. "Qualificado este mês" conta por updated_at, não pela
// data em que o lead qualificou — re-tocar um lead qualificado todo mês
// faz ele contar de novo. Comportamento herdado e mantido.
func (uc *DashboardUseCase) GetMetrics(ctx context.Context, role entity.Role, userID string) (*DashboardMetrics, error) {
	scope := ScopeFor(role, userID, "")
	startOfMonth, startOfLastMonth, endOfLastMonth := monthWindow(time.Now())

	closedWon := []entity.LeadStatus{entity.StatusClosedWon}
	m := &DashboardMetrics{}
	var lastMonthNewLeads, lastMonthClosedWon int
	var lastMonthRevenue float64

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope})
		m.TotalLeads = total
		return err
	})
	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, CreatedFrom: &startOfMonth})
		m.NewLeads = n
		return err
	})
	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, Statuses: pipelineStatuses, UpdatedFrom: &startOfMonth})
		m.QualifiedLeads = n
		return err
	})
	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfMonth})
		m.ClosedWonLeads = n
		return err
	})
	g.Go(func() error {
		sum, err := uc.Leads.SumValue(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfMonth})
		m.TotalRevenue = sum
		return err
	})
	g.Go(func() error {
		avg, err := uc.Leads.AvgValue(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfMonth})
		m.AverageDealSize = avg
		return err
	})
	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, CreatedFrom: &startOfLastMonth, CreatedTo: &endOfLastMonth})
		lastMonthNewLeads = n
		return err
	})
	g.Go(func() error {
		sum, err := uc.Leads.SumValue(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfLastMonth, UpdatedTo: &endOfLastMonth})
		lastMonthRevenue = sum
		return err
	})
	g.Go(func() error {
		n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, Statuses: closedWon, UpdatedFrom: &startOfLastMonth, UpdatedTo: &endOfLastMonth})
		lastMonthClosedWon = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	if m.NewLeads > 0 {
		m.ConversionRate = float64(m.ClosedWonLeads) / float64(m.NewLeads) * 100
	}
	m.Growth = GrowthMetrics{
		NewLeads:    growthPercent(float64(m.NewLeads), float64(lastMonthNewLeads)),
		Revenue:     growthPercent(m.TotalRevenue, lastMonthRevenue),
		Conversions: growthPercent(float64(m.ClosedWonLeads), float64(lastMonthClosedWon)),
	}

	return m, nil
}

// GetAgentsPerformance: performance mensal de cada agente ativo,
// ordenada por receita decrescente. AGENT recebe lista vazia (política
// do Access Policy: dado vácuo, não rejeição). Empate de receita fica
// na ordem de listagem dos agentes — indefinido de propósito.
func (uc *DashboardUseCase) GetAgentsPerformance(ctx context.Context, role entity.Role, userID string) ([]AgentPerformance, error) {
	if !CanViewOrgWidePerformance(role) {
		return []AgentPerformance{}, nil
	}

	startOfMonth, _, _ := monthWindow(time.Now())
	closedWon := []entity.LeadStatus{entity.StatusClosedWon}

	agents, err := uc.Users.FindActiveAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	performance := make([]AgentPerformance, len(agents))
	g, gctx := errgroup.WithContext(ctx)

	for i, agent := range agents {
		scope := Scope{AgentID: agent.ID}
		perf := &performance[i]
		perf.Agent = agent.Ref()
		agentID := agent.ID

		g.Go(func() error {
			n, err := uc.Leads.Count(gctx, LeadQuery{Scope: scope, CreatedFrom: &startOfMonth})
			perf.Metrics.LeadsAssigned = n
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
		g.Go(func() error {
			n, err := uc.Interactions.CountByUserSince(gctx, agentID, startOfMonth)
			perf.Metrics.Interactions = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("agents performance: %w", err)
	}

	for i := range performance {
		p := &performance[i]
		if p.Metrics.LeadsAssigned > 0 {
			p.Metrics.ConversionRate = float64(p.Metrics.Conversions) / float64(p.Metrics.LeadsAssigned) * 100
		}
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].Metrics.Revenue > performance[j].Metrics.Revenue
	})

	return performance, nil
}

// GetRecentActivity: as 10 interações mais recentes, escopadas — AGENT
// vê só as próprias.
func (uc *DashboardUseCase) GetRecentActivity(ctx context.Context, role entity.Role, userID string) ([]*entity.Interaction, error) {
	scope := ActivityScopeFor(role, userID)

	activity, err := uc.Interactions.ListRecent(ctx, scope, 10)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return activity, nil
}

// GetLeadsByStatus: contagem por status. Buckets zerados ficam de fora;
// o caller não pode assumir que todo valor do enum aparece.
func (uc *DashboardUseCase) GetLeadsByStatus(ctx context.Context, role entity.Role, userID string) (map[entity.LeadStatus]int, error) {
	scope := ScopeFor(role, userID, "")
	return uc.Leads.CountGroupedByStatus(ctx, scope)
}

func (uc *DashboardUseCase) GetLeadsBySource(ctx context.Context, role entity.Role, userID string) (map[entity.LeadSource]int, error) {
	scope := ScopeFor(role, userID, "")
	return uc.Leads.CountGroupedBySource(ctx, scope)
}

// GetRevenueChart: exatamente 6 buckets YYYY-MM terminando no mês
// corrente, do mais antigo para o mais novo, zerados de início.
func (uc *DashboardUseCase) GetRevenueChart(ctx context.Context, role entity.Role, userID string) ([]RevenueBucket, error) {
	scope := ScopeFor(role, userID, "")
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	points, err := uc.Leads.ClosedWonValuesSince(ctx, scope, first)
	if err != nil {
		return nil, fmt.Errorf("revenue chart: %w", err)
	}

	buckets := make([]RevenueBucket, 6)
	index := make(map[string]int, 6)
	for i := 0; i < 6; i++ {
		month := first.AddDate(0, i, 0).Format("2006-01")
		buckets[i] = RevenueBucket{Month: month}
		index[month] = i
	}

	for _, p := range points {
		if i, ok := index[p.UpdatedAt.Format("2006-01")]; ok {
			buckets[i].Revenue += p.Value
		}
	}

	return buckets, nil
}
