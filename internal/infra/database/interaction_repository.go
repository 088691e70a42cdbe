package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Create(ctx context.Context, it *entity.Interaction) error {
	query := `
		INSERT INTO interactions (id, type, subject, description, lead_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		it.ID, it.Type, it.Subject, nullString(it.Description),
		it.LeadID, it.UserID, it.CreatedAt,
	)
	return err
}

// ListByLead: interações de um lead, mais recente primeiro.
func (r *InteractionRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Interaction, error) {
	query := `
		SELECT i.id, i.type, i.subject, i.description, i.lead_id, i.user_id, i.created_at,
		       u.name, u.email
		FROM interactions i
		LEFT JOIN users u ON u.id = i.user_id
		WHERE i.lead_id = $1
		ORDER BY i.created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []*entity.Interaction
	for rows.Next() {
		var it entity.Interaction
		var description, userName, userEmail sql.NullString

		err := rows.Scan(&it.ID, &it.Type, &it.Subject, &description,
			&it.LeadID, &it.UserID, &it.CreatedAt, &userName, &userEmail)
		if err != nil {
			return nil, err
		}

		it.Description = description.String
		if userName.Valid {
			it.User = &entity.PublicRef{ID: it.UserID, Name: userName.String, Email: userEmail.String}
		}
		interactions = append(interactions, &it)
	}
	return interactions, rows.Err()
}

// ListRecent: feed de atividades com lead e usuário anexados.
func (r *InteractionRepository) ListRecent(ctx context.Context, scope usecase.Scope, limit int) ([]*entity.Interaction, error) {
	query := `
		SELECT i.id, i.type, i.subject, i.description, i.lead_id, i.user_id, i.created_at,
		       l.name, l.company, u.name
		FROM interactions i
		LEFT JOIN leads l ON l.id = i.lead_id
		LEFT JOIN users u ON u.id = i.user_id
	`
	args := []any{limit}
	if !scope.Unrestricted() {
		args = append(args, scope.AgentID)
		query += "WHERE i.user_id = $2 "
	}
	query += "ORDER BY i.created_at DESC LIMIT $1"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interactions []*entity.Interaction
	for rows.Next() {
		var it entity.Interaction
		var description, leadName, leadCompany, userName sql.NullString

		err := rows.Scan(&it.ID, &it.Type, &it.Subject, &description,
			&it.LeadID, &it.UserID, &it.CreatedAt,
			&leadName, &leadCompany, &userName)
		if err != nil {
			return nil, err
		}

		it.Description = description.String
		if leadName.Valid {
			it.Lead = &entity.LeadRef{ID: it.LeadID, Name: leadName.String, Company: leadCompany.String}
		}
		if userName.Valid {
			it.User = &entity.PublicRef{ID: it.UserID, Name: userName.String}
		}
		interactions = append(interactions, &it)
	}
	return interactions, rows.Err()
}

func (r *InteractionRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND created_at >= $2",
		userID, since,
	).Scan(&count)
	return count, err
}
