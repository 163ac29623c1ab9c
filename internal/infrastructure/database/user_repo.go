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

var _ output.UserRepository = (*UserRepository)(nil)

const userSelect = `
	SELECT u.id, u.username, u.password_hash, u.chat_id, u.full_name,
	       u.role_id, r.name AS role_name, u.is_active, u.created_at
	FROM users u LEFT JOIN roles r ON r.id = u.role_id`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entities.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` WHERE `+where, arg)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if isNoRows(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u := userToDomain(row)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, chat_id, full_name, role_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		stringToText(user.Username),
		stringToText(user.PasswordHash),
		stringToText(user.ChatID),
		stringToText(user.FullName),
		idToInt8(user.RoleID),
		user.IsActive,
	).Scan(&id, &user.CreatedAt)
	switch {
	case pgCode(err) == pgUniqueViolation:
		return domain.ErrUserExists
	case pgCode(err) == pgForeignKeyViolation:
		return domain.ErrRoleNotFound
	case err != nil:
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = uint(id)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	u, err := r.findOne(ctx, `u.id = $1`, int64(id))
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	u, err := r.findOne(ctx, `u.username = $1`, username)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, err
}

// GetOrCreateByChatID returns the user bound to chatID, creating a Participant.
func (r *UserRepository) GetOrCreateByChatID(ctx context.Context, chatID, fullName string) (*entities.User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (chat_id, full_name, role_id, is_active)
		SELECT $1, $2, id, TRUE FROM roles WHERE name = $3
		ON CONFLICT (chat_id) DO UPDATE SET chat_id = EXCLUDED.chat_id
		RETURNING id`,
		chatID, stringToText(fullName), entities.RoleParticipant,
	).Scan(&id)
	if isNoRows(err) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get or create user by chat id: %w", err)
	}
	return r.FindByID(ctx, uint(id))
}

func (r *UserRepository) SetRole(ctx context.Context, userID, roleID uint) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role_id = $2 WHERE id = $1`, int64(userID), int64(roleID))
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrRoleNotFound
	}
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE role_id = $1`, int64(roleID)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}
