package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"surveybot/internal/domain/entities"
)

func TestNullableHelpers(t *testing.T) {
	if stringToText("").Valid {
		t.Error("empty string should map to NULL")
	}
	if got := stringToText("x"); !got.Valid || got.String != "x" {
		t.Errorf("stringToText(x) = %+v", got)
	}
	if idToInt8(0).Valid {
		t.Error("id 0 should map to NULL")
	}
	if timeToTimestamptz(time.Time{}).Valid {
		t.Error("zero time should map to NULL")
	}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := pgtypeTimestamptzToTime(timeToTimestamptz(now)); !got.Equal(now) {
		t.Errorf("round trip = %v, want %v", got, now)
	}
	if !pgtypeTimestamptzToTime(pgtype.Timestamptz{}).IsZero() {
		t.Error("NULL timestamptz should map to zero time")
	}
}

func TestUserToDomainAttachesRole(t *testing.T) {
	u := userToDomain(userRow{
		ID:       7,
		Username: pgtype.Text{String: "alice", Valid: true},
		RoleID:   pgtype.Int8{Int64: 2, Valid: true},
		RoleName: pgtype.Text{String: entities.RoleModerator, Valid: true},
		IsActive: true,
	})
	if u.ID != 7 || u.Username != "alice" || u.RoleID != 2 {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.RoleName() != entities.RoleModerator {
		t.Errorf("RoleName() = %q", u.RoleName())
	}

	noRole := userToDomain(userRow{ID: 8, ChatID: pgtype.Text{String: "42", Valid: true}})
	if noRole.Role != nil || noRole.RoleID != 0 {
		t.Errorf("expected no role, got %+v", noRole)
	}
}

func TestQuestionToDomain(t *testing.T) {
	q, err := questionToDomain(questionRow{ID: 3, MeetingID: 1, Text: "Age?", OrderIdx: 2, IsRequired: true, QType: "int"})
	if err != nil || q.Type != entities.QuestionInt || q.OrderIdx != 2 || !q.IsRequired {
		t.Errorf("unexpected question %+v, err %v", q, err)
	}
	if _, err := questionToDomain(questionRow{ID: 4, QType: "date"}); err == nil {
		t.Error("unknown question type must fail")
	}
}

func TestMeetingToDomainParsesStatus(t *testing.T) {
	m, err := meetingToDomain(meetingRow{ID: 1, Title: "Retro", Status: "open"})
	if err != nil || m.Status != entities.MeetingOpen || !m.IsOpen() {
		t.Fatalf("meeting = %+v, err %v", m, err)
	}
	if !m.DeadlineAt.IsZero() || m.Description != "" {
		t.Errorf("NULL columns should map to zero values: %+v", m)
	}
	if _, err := meetingToDomain(meetingRow{ID: 2, Status: "archived"}); err == nil {
		t.Error("unknown status must fail")
	}
}

func TestPgCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation})
	if got := pgCode(wrapped); got != pgUniqueViolation {
		t.Errorf("pgCode = %q, want %q", got, pgUniqueViolation)
	}
	if got := pgCode(errors.New("boom")); got != "" {
		t.Errorf("pgCode of plain error = %q", got)
	}
	if !isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)) {
		t.Error("isNoRows should see through wrapping")
	}
}
