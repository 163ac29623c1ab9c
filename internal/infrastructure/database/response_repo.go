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

var _ output.ResponseRepository = (*ResponseRepository)(nil)

const responseColumns = `id, user_id, meeting_id, status, submitted_at, created_at`

type ResponseRepository struct {
	pool *pgxpool.Pool
}

func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// GetOrCreate relies on the (user_id, meeting_id) unique index; the no-op
// update makes RETURNING yield the existing row.
func (r *ResponseRepository) GetOrCreate(ctx context.Context, userID, meetingID uint) (*entities.Response, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO responses (user_id, meeting_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, meeting_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+responseColumns, int64(userID), int64(meetingID))
	if err != nil {
		return nil, fmt.Errorf("get or create response: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[responseRow])
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("get or create response: %w", err)
	}
	resp := responseToDomain(row)
	return &resp, nil
}

func (r *ResponseRepository) SaveAnswer(ctx context.Context, responseID, questionID uint, value string) (*entities.Answer, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO answers (response_id, question_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (response_id, question_id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING id, response_id, question_id, value, updated_at`,
		int64(responseID), int64(questionID), value)
	if err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[answerRow])
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, domain.ErrResponseNotFound
		}
		return nil, fmt.Errorf("save answer: %w", err)
	}
	a := answerToDomain(row)
	return &a, nil
}

func (r *ResponseRepository) Submit(ctx context.Context, responseID uint) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE responses SET status = $2, submitted_at = now()
		WHERE id = $1`, int64(responseID), string(entities.ResponseSubmitted))
	if err != nil {
		return fmt.Errorf("submit response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResponseNotFound
	}
	return nil
}

// Reset clears the answers and the submission of a response in one transaction.
func (r *ResponseRepository) Reset(ctx context.Context, responseID uint) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("reset response: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE responses SET status = $2, submitted_at = NULL
		WHERE id = $1`, int64(responseID), string(entities.ResponseDraft))
	if err != nil {
		return fmt.Errorf("reset response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResponseNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM answers WHERE response_id = $1`, int64(responseID)); err != nil {
		return fmt.Errorf("reset response: delete answers: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reset response: commit: %w", err)
	}
	return nil
}

func (r *ResponseRepository) FindByID(ctx context.Context, id uint) (*entities.Response, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+responseColumns+` FROM responses WHERE id = $1`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("get response by id: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[responseRow])
	if isNoRows(err) {
		return nil, domain.ErrResponseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get response by id: %w", err)
	}
	resp := responseToDomain(row)
	return &resp, nil
}

// ListAnswers returns answers in question order.
func (r *ResponseRepository) ListAnswers(ctx context.Context, responseID uint) ([]entities.Answer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.response_id, a.question_id, a.value, a.updated_at
		FROM answers a JOIN questions q ON q.id = a.question_id
		WHERE a.response_id = $1
		ORDER BY q.order_idx, q.id`, int64(responseID))
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[answerRow])
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	out := make([]entities.Answer, len(list))
	for i := range list {
		out[i] = answerToDomain(list[i])
	}
	return out, nil
}

func (r *ResponseRepository) ListByMeeting(ctx context.Context, meetingID uint) ([]entities.Response, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+responseColumns+` FROM responses WHERE meeting_id = $1 ORDER BY id`, int64(meetingID))
	if err != nil {
		return nil, fmt.Errorf("list responses by meeting: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[responseRow])
	if err != nil {
		return nil, fmt.Errorf("list responses by meeting: %w", err)
	}
	out := make([]entities.Response, len(list))
	for i := range list {
		out[i] = responseToDomain(list[i])
	}
	return out, nil
}

func (r *ResponseRepository) ListByUser(ctx context.Context, userID uint) ([]entities.Response, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+responseColumns+` FROM responses WHERE user_id = $1 ORDER BY id DESC`, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("list responses by user: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[responseRow])
	if err != nil {
		return nil, fmt.Errorf("list responses by user: %w", err)
	}
	out := make([]entities.Response, len(list))
	for i := range list {
		out[i] = responseToDomain(list[i])
	}
	return out, nil
}
