package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadSelectColumns = `
	l.id, l.name, l.email, l.phone, l.company, l.position, l.status,
	l.source, l.priority, l.value, l.description, l.notes, l.tags,
	l.next_contact, l.assigned_agent_id, l.created_by_id, l.created_at, l.updated_at,
	aa.name, aa.email, cb.name, cb.email
`

const leadSelectFrom = `
	FROM leads l
	LEFT JOIN users aa ON aa.id = l.assigned_agent_id
	LEFT JOIN users cb ON cb.id = l.created_by_id
`

// Campos aceitos no sortBy da listagem. Qualquer coisa fora daqui cai
// no default; nunca interpolamos entrada do caller em SQL.
var leadSortColumns = map[string]string{
	"name":        "l.name",
	"email":       "l.email",
	"company":     "l.company",
	"status":      "l.status",
	"source":      "l.source",
	"priority":    "l.priority",
	"value":       "l.value",
	"createdAt":   "l.created_at",
	"updatedAt":   "l.updated_at",
	"nextContact": "l.next_contact",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var phone, company, position, description, notes sql.NullString
	var nextContact sql.NullTime
	var aaName, aaEmail, cbName, cbEmail sql.NullString

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &phone, &company, &position,
		&lead.Status, &lead.Source, &lead.Priority, &lead.Value,
		&description, &notes, pq.Array(&lead.Tags),
		&nextContact, &lead.AssignedAgentID, &lead.CreatedByID,
		&lead.CreatedAt, &lead.UpdatedAt,
		&aaName, &aaEmail, &cbName, &cbEmail,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	lead.Company = company.String
	lead.Position = position.String
	lead.Description = description.String
	lead.Notes = notes.String
	if nextContact.Valid {
		t := nextContact.Time
		lead.NextContact = &t
	}
	if lead.Tags == nil {
		lead.Tags = []string{}
	}
	if aaName.Valid {
		lead.AssignedAgent = &entity.PublicRef{ID: lead.AssignedAgentID, Name: aaName.String, Email: aaEmail.String}
	}
	if cbName.Valid {
		lead.CreatedBy = &entity.PublicRef{ID: lead.CreatedByID, Name: cbName.String, Email: cbEmail.String}
	}

	return &lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, company, position, status,
			source, priority, value, description, notes, tags, next_contact,
			assigned_agent_id, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID, lead.Name, lead.Email,
		nullString(lead.Phone), nullString(lead.Company), nullString(lead.Position),
		lead.Status, lead.Source, lead.Priority, lead.Value,
		nullString(lead.Description), nullString(lead.Notes),
		pq.Array(lead.Tags), nullTime(lead.NextContact),
		lead.AssignedAgentID, lead.CreatedByID,
		lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyUsed
		}
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := "SELECT" + leadSelectColumns + leadSelectFrom + "WHERE l.id = $1"

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := "SELECT" + leadSelectColumns + leadSelectFrom + "WHERE l.email = $1"

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filters usecase.LeadFilters, scope usecase.Scope) ([]*entity.Lead, int, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !scope.Unrestricted() {
		conditions = append(conditions, "l.assigned_agent_id = "+arg(scope.AgentID))
	}
	if filters.Search != "" {
		p := arg("%" + filters.Search + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(l.name ILIKE %s OR l.email ILIKE %s OR l.company ILIKE %s OR l.phone ILIKE %s)", p, p, p, p))
	}
	if filters.Status != "" {
		conditions = append(conditions, "l.status = "+arg(filters.Status))
	}
	if filters.Source != "" {
		conditions = append(conditions, "l.source = "+arg(filters.Source))
	}
	if filters.Priority != "" {
		conditions = append(conditions, "l.priority = "+arg(filters.Priority))
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, "l.created_at >= "+arg(*filters.DateFrom))
	}
	if filters.DateTo != nil {
		conditions = append(conditions, "l.created_at <= "+arg(*filters.DateTo))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM leads l " + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := leadSortColumns[filters.SortBy]
	if !ok {
		sortColumn = "l.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (filters.Page - 1) * filters.Limit
	query := fmt.Sprintf("SELECT%s%s%s ORDER BY %s %s LIMIT %s OFFSET %s",
		leadSelectColumns, leadSelectFrom, where, sortColumn, direction,
		arg(filters.Limit), arg(offset))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *LeadRepository) ListRecent(ctx context.Context, scope usecase.Scope, limit int) ([]*entity.Lead, error) {
	query := "SELECT" + leadSelectColumns + leadSelectFrom
	args := []any{limit}
	if !scope.Unrestricted() {
		args = append(args, scope.AgentID)
		query += "WHERE l.assigned_agent_id = $2 "
	}
	query += "ORDER BY l.created_at DESC LIMIT $1"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			name = $2, email = $3, phone = $4, company = $5, position = $6,
			status = $7, source = $8, priority = $9, value = $10,
			description = $11, notes = $12, tags = $13, next_contact = $14,
			assigned_agent_id = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.ID, lead.Name, lead.Email,
		nullString(lead.Phone), nullString(lead.Company), nullString(lead.Position),
		lead.Status, lead.Source, lead.Priority, lead.Value,
		nullString(lead.Description), nullString(lead.Notes),
		pq.Array(lead.Tags), nullTime(lead.NextContact),
		lead.AssignedAgentID,
	).Scan(&lead.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrLeadNotFound
		}
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyUsed
		}
		return err
	}

	return nil
}

// UpdateStatusWithInteraction: status e interação de auditoria na mesma
// transação. Commit dos dois ou rollback dos dois — escrita parcial
// aqui é bug de correção, não corrida aceitável.
func (r *LeadRepository) UpdateStatusWithInteraction(ctx context.Context, lead *entity.Lead, audit *entity.Interaction) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"UPDATE leads SET status = $2, notes = $3, updated_at = NOW() WHERE id = $1 RETURNING updated_at",
		lead.ID, lead.Status, nullString(lead.Notes),
	).Scan(&lead.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrLeadNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interactions (id, type, subject, description, lead_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		audit.ID, audit.Type, audit.Subject, nullString(audit.Description),
		audit.LeadID, audit.UserID, audit.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	// Interações vão junto via ON DELETE CASCADE.
	result, err := r.DB.ExecContext(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}

	return nil
}

func buildAggregateWhere(q usecase.LeadQuery) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !q.Scope.Unrestricted() {
		conditions = append(conditions, "assigned_agent_id = "+arg(q.Scope.AgentID))
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, "status = ANY("+arg(pq.Array(statuses))+")")
	}
	if q.CreatedFrom != nil {
		conditions = append(conditions, "created_at >= "+arg(*q.CreatedFrom))
	}
	if q.CreatedTo != nil {
		conditions = append(conditions, "created_at <= "+arg(*q.CreatedTo))
	}
	if q.UpdatedFrom != nil {
		conditions = append(conditions, "updated_at >= "+arg(*q.UpdatedFrom))
	}
	if q.UpdatedTo != nil {
		conditions = append(conditions, "updated_at <= "+arg(*q.UpdatedTo))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *LeadRepository) Count(ctx context.Context, q usecase.LeadQuery) (int, error) {
	where, args := buildAggregateWhere(q)

	var count int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads "+where, args...).Scan(&count)
	return count, err
}

func (r *LeadRepository) SumValue(ctx context.Context, q usecase.LeadQuery) (float64, error) {
	where, args := buildAggregateWhere(q)

	var sum float64
	err := r.DB.QueryRowContext(ctx, "SELECT COALESCE(SUM(value), 0) FROM leads "+where, args...).Scan(&sum)
	return sum, err
}

func (r *LeadRepository) AvgValue(ctx context.Context, q usecase.LeadQuery) (float64, error) {
	where, args := buildAggregateWhere(q)

	var avg float64
	err := r.DB.QueryRowContext(ctx, "SELECT COALESCE(AVG(value), 0) FROM leads "+where, args...).Scan(&avg)
	return avg, err
}

func (r *LeadRepository) CountGroupedByStatus(ctx context.Context, scope usecase.Scope) (map[entity.LeadStatus]int, error) {
	where, args := buildAggregateWhere(usecase.LeadQuery{Scope: scope})

	rows, err := r.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM leads "+where+" GROUP BY status", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[entity.LeadStatus]int)
	for rows.Next() {
		var status entity.LeadStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *LeadRepository) CountGroupedBySource(ctx context.Context, scope usecase.Scope) (map[entity.LeadSource]int, error) {
	where, args := buildAggregateWhere(usecase.LeadQuery{Scope: scope})

	rows, err := r.DB.QueryContext(ctx, "SELECT source, COUNT(*) FROM leads "+where+" GROUP BY source", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[entity.LeadSource]int)
	for rows.Next() {
		var source entity.LeadSource
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		result[source] = count
	}
	return result, rows.Err()
}

func (r *LeadRepository) ClosedWonValuesSince(ctx context.Context, scope usecase.Scope, since time.Time) ([]usecase.RevenuePoint, error) {
	q := usecase.LeadQuery{
		Scope:       scope,
		Statuses:    []entity.LeadStatus{entity.StatusClosedWon},
		UpdatedFrom: &since,
	}
	where, args := buildAggregateWhere(q)

	rows, err := r.DB.QueryContext(ctx, "SELECT value, updated_at FROM leads "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []usecase.RevenuePoint
	for rows.Next() {
		var p usecase.RevenuePoint
		if err := rows.Scan(&p.Value, &p.UpdatedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
