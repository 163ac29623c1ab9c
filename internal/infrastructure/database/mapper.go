package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"surveybot/internal/domain/entities"
)

// PostgreSQL error codes.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

type meetingRow struct {
	ID          int64              `db:"id"`
	Title       string             `db:"title"`
	Description pgtype.Text        `db:"description"`
	Department  pgtype.Text        `db:"department"`
	Country     pgtype.Text        `db:"country"`
	DeadlineAt  pgtype.Timestamptz `db:"deadline_at"`
	Status      string             `db:"status"`
	CreatedBy   pgtype.Int8        `db:"created_by"`
	CreatedAt   pgtype.Timestamptz `db:"created_at"`
}

type questionRow struct {
	ID         int64  `db:"id"`
	MeetingID  int64  `db:"meeting_id"`
	Text       string `db:"text"`
	OrderIdx   int32  `db:"order_idx"`
	IsRequired bool   `db:"is_required"`
	QType      string `db:"qtype"`
}

type optionRow struct {
	ID         int64       `db:"id"`
	QuestionID int64       `db:"question_id"`
	Value      string      `db:"value"`
	Label      pgtype.Text `db:"label"`
}

type responseRow struct {
	ID          int64              `db:"id"`
	UserID      int64              `db:"user_id"`
	MeetingID   int64              `db:"meeting_id"`
	Status      string             `db:"status"`
	SubmittedAt pgtype.Timestamptz `db:"submitted_at"`
	CreatedAt   pgtype.Timestamptz `db:"created_at"`
}

type answerRow struct {
	ID         int64              `db:"id"`
	ResponseID int64              `db:"response_id"`
	QuestionID int64              `db:"question_id"`
	Value      string             `db:"value"`
	UpdatedAt  pgtype.Timestamptz `db:"updated_at"`
}

type userRow struct {
	ID           int64              `db:"id"`
	Username     pgtype.Text        `db:"username"`
	PasswordHash pgtype.Text        `db:"password_hash"`
	ChatID       pgtype.Text        `db:"chat_id"`
	FullName     pgtype.Text        `db:"full_name"`
	RoleID       pgtype.Int8        `db:"role_id"`
	RoleName     pgtype.Text        `db:"role_name"`
	IsActive     bool               `db:"is_active"`
	CreatedAt    pgtype.Timestamptz `db:"created_at"`
}

type roleRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func stringToText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func idToInt8(id uint) pgtype.Int8 {
	if id == 0 {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: int64(id), Valid: true}
}

// meetingToDomain fails on a status the domain does not know.
func meetingToDomain(m meetingRow) (entities.Meeting, error) {
	status, err := entities.ParseMeetingStatus(m.Status)
	if err != nil {
		return entities.Meeting{}, fmt.Errorf("meeting %d: %w", m.ID, err)
	}
	return entities.Meeting{
		ID:          uint(m.ID),
		Title:       m.Title,
		Description: m.Description.String,
		Department:  m.Department.String,
		Country:     m.Country.String,
		DeadlineAt:  pgtypeTimestamptzToTime(m.DeadlineAt),
		Status:      status,
		CreatedBy:   uint(m.CreatedBy.Int64),
		CreatedAt:   pgtypeTimestamptzToTime(m.CreatedAt),
	}, nil
}

func questionToDomain(q questionRow) (entities.Question, error) {
	qtype, err := entities.ParseQuestionType(q.QType)
	if err != nil {
		return entities.Question{}, fmt.Errorf("question %d: %w", q.ID, err)
	}
	return entities.Question{
		ID:         uint(q.ID),
		MeetingID:  uint(q.MeetingID),
		Text:       q.Text,
		OrderIdx:   int(q.OrderIdx),
		IsRequired: q.IsRequired,
		Type:       qtype,
	}, nil
}

func optionToDomain(o optionRow) entities.Option {
	return entities.Option{
		ID:         uint(o.ID),
		QuestionID: uint(o.QuestionID),
		Value:      o.Value,
		Label:      o.Label.String,
	}
}

func responseToDomain(r responseRow) entities.Response {
	return entities.Response{
		ID:          uint(r.ID),
		UserID:      uint(r.UserID),
		MeetingID:   uint(r.MeetingID),
		Status:      entities.ResponseStatus(r.Status),
		SubmittedAt: pgtypeTimestamptzToTime(r.SubmittedAt),
		CreatedAt:   pgtypeTimestamptzToTime(r.CreatedAt),
	}
}

func answerToDomain(a answerRow) entities.Answer {
	return entities.Answer{
		ID:         uint(a.ID),
		ResponseID: uint(a.ResponseID),
		QuestionID: uint(a.QuestionID),
		Value:      a.Value,
		UpdatedAt:  pgtypeTimestamptzToTime(a.UpdatedAt),
	}
}

func userToDomain(u userRow) entities.User {
	out := entities.User{
		ID:           uint(u.ID),
		Username:     u.Username.String,
		PasswordHash: u.PasswordHash.String,
		ChatID:       u.ChatID.String,
		FullName:     u.FullName.String,
		RoleID:       uint(u.RoleID.Int64),
		IsActive:     u.IsActive,
		CreatedAt:    pgtypeTimestamptzToTime(u.CreatedAt),
	}
	if u.RoleID.Valid && u.RoleName.Valid {
		out.Role = &entities.Role{ID: uint(u.RoleID.Int64), Name: u.RoleName.String}
	}
	return out
}

func roleToDomain(r roleRow) entities.Role {
	return entities.Role{ID: uint(r.ID), Name: r.Name}
}

// pgCode returns the SQLSTATE of err, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
