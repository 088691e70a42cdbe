package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userSelectColumns = `
	id, name, email, password, role, avatar, phone, is_active, created_at, updated_at
`

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	var avatar, phone sql.NullString

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password,
		&user.Role, &avatar, &phone, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.Avatar = avatar.String
	user.Phone = phone.String
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password, role, avatar, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Password, user.Role,
		nullString(user.Avatar), nullString(user.Phone), user.IsActive,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyUsed
		}
		return err
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := "SELECT" + userSelectColumns + "FROM users WHERE id = $1"

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := "SELECT" + userSelectColumns + "FROM users WHERE email = $1"

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, search string, page, limit int) ([]*entity.User, int, error) {
	where := ""
	var args []any
	if search != "" {
		where = "WHERE (name ILIKE $1 OR email ILIKE $1)"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT%sFROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userSelectColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET
			name = $2, email = $3, role = $4, avatar = $5, phone = $6,
			is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.Role,
		nullString(user.Avatar), nullString(user.Phone), user.IsActive,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyUsed
		}
		return err
	}

	return nil
}

// Deactivate: soft delete via flag, usuário nunca sai da tabela.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) FindActiveAgents(ctx context.Context) ([]*entity.User, error) {
	query := "SELECT" + userSelectColumns + "FROM users WHERE role = $1 AND is_active = TRUE ORDER BY created_at"

	rows, err := r.DB.QueryContext(ctx, query, entity.RoleAgent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []*entity.User
	for rows.Next() {
		agent, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}
