package discord

import (
	"errors"
	"testing"
	"time"

	"surveybot/internal/domain"
)

func TestParseDeadline(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, msk)},
		{"2026-03-01 18:30", time.Date(2026, 3, 1, 18, 30, 0, 0, msk)},
		{"2026-03-01T18:30", time.Date(2026, 3, 1, 18, 30, 0, 0, msk)},
		{"2026-03-01T18:30:15", time.Date(2026, 3, 1, 18, 30, 15, 0, msk)},
		{"01.03.2026", time.Date(2026, 3, 1, 0, 0, 0, 0, msk)},
		{" 01.03.2026 09:05 ", time.Date(2026, 3, 1, 9, 5, 0, 0, msk)},
	}
	for _, tt := range tests {
		got, err := ParseDeadline(tt.in, msk)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%q = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got, err := ParseDeadline("", msk); err != nil || !got.IsZero() {
		t.Fatalf("empty = %v %v", got, err)
	}
	if _, err := ParseDeadline("03/01/2026", msk); err == nil {
		t.Fatal("expected an error for an unknown layout")
	}
}

func TestParseMeetingForm(t *testing.T) {
	d, err := ParseMeetingForm(" Retro | Sprint 12 | R&D | FR | 2026-03-01 ", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "Retro" || d.Description != "Sprint 12" || d.Department != "R&D" || d.Country != "FR" {
		t.Fatalf("draft = %+v", d)
	}
	if d.DeadlineAt.IsZero() {
		t.Fatal("deadline not parsed")
	}

	d, err = ParseMeetingForm("Only title", time.UTC)
	if err != nil || d.Title != "Only title" || !d.DeadlineAt.IsZero() {
		t.Fatalf("short form: %+v %v", d, err)
	}

	if _, err := ParseMeetingForm("T|||| tomorrow", time.UTC); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("bad deadline: %v", err)
	}
}

func TestParseQuestionForm(t *testing.T) {
	d, err := ParseQuestionForm("3 | Multi | 2 | да | Which days? | Mon, Tue ,Wed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MeetingID != 3 || d.Type != "multi" || d.OrderIdx != 2 || !d.Required || d.Text != "Which days?" {
		t.Fatalf("draft = %+v", d)
	}
	if len(d.Options) != 3 || d.Options[1] != " Tue " {
		t.Fatalf("options = %q", d.Options)
	}

	d, err = ParseQuestionForm("3|text||no|Comment")
	if err != nil || d.Required || d.OrderIdx != 0 || d.Options != nil {
		t.Fatalf("minimal form: %+v %v", d, err)
	}

	for _, bad := range []string{"3|text|1|yes", "x|text|1|yes|Q", "3|text|first|yes|Q"} {
		if _, err := ParseQuestionForm(bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%q: %v", bad, err)
		}
	}
}

func TestParseRequired(t *testing.T) {
	for _, s := range []string{"1", "TRUE", "yes", "Y", "Да"} {
		if !ParseRequired(s) {
			t.Errorf("%q should be required", s)
		}
	}
	for _, s := range []string{"", "0", "no", "нет", "maybe"} {
		if ParseRequired(s) {
			t.Errorf("%q should be optional", s)
		}
	}
}

func TestSplitCommand(t *testing.T) {
	cmd, args := SplitCommand("  /LOGIN@surveybot  alice  pw ")
	if cmd != "/login" || args != "alice  pw" {
		t.Fatalf("cmd=%q args=%q", cmd, args)
	}
	cmd, args = SplitCommand("/help")
	if cmd != "/help" || args != "" {
		t.Fatalf("cmd=%q args=%q", cmd, args)
	}
}
