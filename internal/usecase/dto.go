package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateLeadInput struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Company         string   `json:"company"`
	Position        string   `json:"position"`
	Status          string   `json:"status"`
	Source          string   `json:"source"`
	Priority        string   `json:"priority"`
	Value           float64  `json:"value"`
	Description     string   `json:"description"`
	Notes           string   `json:"notes"`
	Tags            []string `json:"tags"`
	NextContact     string   `json:"next_contact"`
	AssignedAgentID string   `json:"assigned_agent_id"`
}

// UpdateLeadInput: semântica de update parcial — ponteiro nil significa
// "não mexe nesse campo".
type UpdateLeadInput struct {
	Name            *string   `json:"name"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Company         *string   `json:"company"`
	Position        *string   `json:"position"`
	Status          *string   `json:"status"`
	Source          *string   `json:"source"`
	Priority        *string   `json:"priority"`
	Value           *float64  `json:"value"`
	Description     *string   `json:"description"`
	Notes           *string   `json:"notes"`
	Tags            *[]string `json:"tags"`
	NextContact     *string   `json:"next_contact"`
	AssignedAgentID *string   `json:"assigned_agent_id"`
}

type UpdateLeadStatusInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type LeadFilters struct {
	Page          int
	Limit         int
	Search        string
	Status        string
	Source        string
	Priority      string
	AssignedAgent string
	DateFrom      *time.Time
	DateTo        *time.Time
	SortBy        string
	SortOrder     string
}

type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type LeadPage struct {
	Data []*entity.Lead `json:"data"`
	Meta PageMeta       `json:"meta"`
}

// RemoveOutcome distingue arquivamento de remoção definitiva. Os dois
// caminhos NÃO são intercambiáveis: caller precisa saber qual ocorreu.
type RemoveOutcome string

const (
	OutcomeArchived RemoveOutcome = "archived"
	OutcomeDeleted  RemoveOutcome = "deleted"
)

type LeadStats struct {
	Total       int                       `json:"total"`
	Revenue     float64                   `json:"revenue"`
	ByStatus    map[entity.LeadStatus]int `json:"by_status"`
	BySource    map[entity.LeadSource]int `json:"by_source"`
	RecentLeads []*entity.Lead            `json:"recent_leads"`
}

type GrowthMetrics struct {
	NewLeads    float64 `json:"new_leads"`
	Revenue     float64 `json:"revenue"`
	Conversions float64 `json:"conversions"`
}

type DashboardMetrics struct {
	TotalLeads      int           `json:"total_leads"`
	NewLeads        int           `json:"new_leads"`
	QualifiedLeads  int           `json:"qualified_leads"`
	ClosedWonLeads  int           `json:"closed_won_leads"`
	TotalRevenue    float64       `json:"total_revenue"`
	AverageDealSize float64       `json:"average_deal_size"`
	ConversionRate  float64       `json:"conversion_rate"`
	Growth          GrowthMetrics `json:"growth"`
}

type AgentMetrics struct {
	LeadsAssigned  int     `json:"leads_assigned"`
	Conversions    int     `json:"conversions"`
	Revenue        float64 `json:"revenue"`
	Interactions   int     `json:"interactions"`
	ConversionRate float64 `json:"conversion_rate"`
}

type AgentPerformance struct {
	Agent   entity.PublicRef `json:"agent"`
	Metrics AgentMetrics     `json:"metrics"`
}

type RevenueBucket struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
	IsActive *bool   `json:"is_active"`
}

type UserPage struct {
	Data []*entity.User `json:"data"`
	Meta PageMeta       `json:"meta"`
}

type UpdateSettingsInput struct {
	Timezone      *string        `json:"timezone"`
	Language      *string        `json:"language"`
	Currency      *string        `json:"currency"`
	DateFormat    *string        `json:"date_format"`
	Notifications entity.JSONMap `json:"notifications"`
	Preferences   entity.JSONMap `json:"preferences"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthOutput struct {
	AccessToken string       `json:"access_token"`
	User        *entity.User `json:"user"`
}
