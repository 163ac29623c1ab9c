package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/output"
)

var _ output.RoleRepository = (*RoleRepository)(nil)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) List(ctx context.Context) ([]entities.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[roleRow])
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]entities.Role, len(list))
	for i := range list {
		out[i] = roleToDomain(list[i])
	}
	return out, nil
}

func (r *RoleRepository) findOne(ctx context.Context, where string, arg any) (*entities.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM roles WHERE `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[roleRow])
	if isNoRows(err) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	role := roleToDomain(row)
	return &role, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint) (*entities.Role, error) {
	return r.findOne(ctx, `id = $1`, int64(id))
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*entities.Role, error) {
	return r.findOne(ctx, `name = $1`, name)
}

func (r *RoleRepository) Create(ctx context.Context, role *entities.Role) error {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id`, role.Name).Scan(&id)
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrRoleExists
	}
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	role.ID = uint(id)
	return nil
}

func (r *RoleRepository) Rename(ctx context.Context, id uint, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE roles SET name = $2 WHERE id = $1`, int64(id), name)
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrRoleExists
	}
	if err != nil {
		return fmt.Errorf("rename role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// Delete maps the users.role_id foreign key to ErrRoleInUse.
func (r *RoleRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, int64(id))
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrRoleInUse
	}
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}
