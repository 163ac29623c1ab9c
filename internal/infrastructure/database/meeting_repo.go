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

var _ output.MeetingRepository = (*MeetingRepository)(nil)

const meetingColumns = `id, title, description, department, country, deadline_at, status, created_by, created_at`

type MeetingRepository struct {
	pool *pgxpool.Pool
}

func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting.Status == "" {
		meeting.Status = entities.MeetingDraft
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO meetings (title, description, department, country, deadline_at, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		meeting.Title,
		stringToText(meeting.Description),
		stringToText(meeting.Department),
		stringToText(meeting.Country),
		timeToTimestamptz(meeting.DeadlineAt),
		string(meeting.Status),
		idToInt8(meeting.CreatedBy),
	).Scan(&id, &meeting.CreatedAt)
	if err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}
	meeting.ID = uint(id)
	return nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id uint) (*entities.Meeting, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("get meeting by id: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[meetingRow])
	if isNoRows(err) {
		return nil, domain.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting by id: %w", err)
	}
	m, err := meetingToDomain(row)
	if err != nil {
		return nil, fmt.Errorf("get meeting by id: %w", err)
	}
	if err := r.attachQuestions(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepository) attachQuestions(ctx context.Context, m *entities.Meeting) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, meeting_id, text, order_idx, is_required, qtype
		FROM questions WHERE meeting_id = $1
		ORDER BY order_idx, id`, int64(m.ID))
	if err != nil {
		return fmt.Errorf("get questions: %w", err)
	}
	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[questionRow])
	if err != nil {
		return fmt.Errorf("get questions: %w", err)
	}
	m.Questions = make([]entities.Question, len(questions))
	ids := make([]int64, len(questions))
	byID := make(map[uint]int, len(questions))
	for i := range questions {
		if m.Questions[i], err = questionToDomain(questions[i]); err != nil {
			return fmt.Errorf("get questions: %w", err)
		}
		ids[i] = questions[i].ID
		byID[m.Questions[i].ID] = i
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, question_id, value, label
		FROM options WHERE question_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("get options: %w", err)
	}
	options, err := pgx.CollectRows(rows, pgx.RowToStructByName[optionRow])
	if err != nil {
		return fmt.Errorf("get options: %w", err)
	}
	for _, o := range options {
		opt := optionToDomain(o)
		if i, ok := byID[opt.QuestionID]; ok {
			m.Questions[i].Options = append(m.Questions[i].Options, opt)
		}
	}
	m.SortQuestions()
	return nil
}

func (r *MeetingRepository) ListByStatus(ctx context.Context, status entities.MeetingStatus) ([]entities.Meeting, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE status = $1 ORDER BY id DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list meetings by status: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[meetingRow])
	if err != nil {
		return nil, fmt.Errorf("list meetings by status: %w", err)
	}
	out := make([]entities.Meeting, len(list))
	for i := range list {
		if out[i], err = meetingToDomain(list[i]); err != nil {
			return nil, fmt.Errorf("list meetings by status: %w", err)
		}
	}
	return out, nil
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uint, status entities.MeetingStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE meetings SET status = $2 WHERE id = $1`, int64(id), string(status))
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for questions, options, responses and answers.
func (r *MeetingRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepository) AddQuestion(ctx context.Context, question *entities.Question) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("add question: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO questions (meeting_id, text, order_idx, is_required, qtype)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		int64(question.MeetingID), question.Text, int32(question.OrderIdx), question.IsRequired, string(question.Type),
	).Scan(&id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrMeetingNotFound
		}
		return fmt.Errorf("add question: %w", err)
	}
	question.ID = uint(id)

	for i := range question.Options {
		opt := &question.Options[i]
		var optID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO options (question_id, value, label)
			VALUES ($1, $2, $3)
			RETURNING id`,
			id, opt.Value, stringToText(opt.Label),
		).Scan(&optID)
		if err != nil {
			return fmt.Errorf("add option: %w", err)
		}
		opt.ID = uint(optID)
		opt.QuestionID = question.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("add question: commit: %w", err)
	}
	return nil
}
