package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/output"
)

var _ output.AuthSessionRepository = (*AuthSessionRepository)(nil)

type AuthSessionRepository struct {
	pool  *pgxpool.Pool
	users *UserRepository
}

func NewAuthSessionRepository(pool *pgxpool.Pool) *AuthSessionRepository {
	return &AuthSessionRepository{pool: pool, users: NewUserRepository(pool)}
}

// Activate deactivates every session of chatID and opens a new one in a
// single transaction, keeping at most one active session per chat.
func (r *AuthSessionRepository) Activate(ctx context.Context, chatID string, userID uint) (*entities.AuthSession, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("activate session: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE auth_sessions SET is_active = FALSE WHERE chat_id = $1 AND is_active`, chatID); err != nil {
		return nil, fmt.Errorf("activate session: deactivate: %w", err)
	}

	sess := &entities.AuthSession{ChatID: chatID, UserID: userID, IsActive: true}
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO auth_sessions (chat_id, user_id, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, created_at`, chatID, int64(userID),
	).Scan(&id, &sess.CreatedAt)
	if pgCode(err) == pgForeignKeyViolation {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("activate session: insert: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("activate session: commit: %w", err)
	}
	sess.ID = uint(id)

	if sess.User, err = r.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return sess, nil
}

// FindActive returns nil, nil when chatID has no active session.
func (r *AuthSessionRepository) FindActive(ctx context.Context, chatID string) (*entities.AuthSession, error) {
	var (
		id, userID int64
		createdAt  pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at FROM auth_sessions
		WHERE chat_id = $1 AND is_active
		ORDER BY id DESC LIMIT 1`, chatID,
	).Scan(&id, &userID, &createdAt)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	sess := &entities.AuthSession{
		ID:        uint(id),
		ChatID:    chatID,
		UserID:    uint(userID),
		IsActive:  true,
		CreatedAt: pgtypeTimestamptzToTime(createdAt),
	}
	if sess.User, err = r.users.FindByID(ctx, sess.UserID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (r *AuthSessionRepository) DeactivateAll(ctx context.Context, chatID string) error {
	if _, err := r.pool.Exec(ctx, `UPDATE auth_sessions SET is_active = FALSE WHERE chat_id = $1 AND is_active`, chatID); err != nil {
		return fmt.Errorf("deactivate sessions: %w", err)
	}
	return nil
}
