package discord

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"surveybot/internal/domain/entities"
)

func TestSuggestionRows(t *testing.T) {
	values := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		values = append(values, fmt.Sprintf("v%d", i))
	}
	values = append(values, strings.Repeat("x", 120))

	rows := SuggestionRows(values)
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	last := rows[2].(discordgo.ActionsRow)
	if len(last.Components) != 2 {
		t.Fatalf("last row = %d buttons", len(last.Components))
	}
	btn := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	if v, ok := AnswerValue(btn.CustomID); !ok || v != "v0" {
		t.Fatalf("custom id = %q", btn.CustomID)
	}
	if SuggestionRows(nil) != nil {
		t.Fatal("no values, no rows")
	}
}

func TestMeetingSelectRow(t *testing.T) {
	meetings := make([]entities.Meeting, 30)
	for i := range meetings {
		meetings[i] = entities.Meeting{ID: uint(i + 1), Title: "M", Country: "FR", DeadlineAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)}
	}
	rows := MeetingSelectRow(meetings, "pick", time.UTC)
	menu := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	if menu.CustomID != SelectMeetingID || len(menu.Options) != maxSelectOptions {
		t.Fatalf("menu = %+v", menu)
	}
	if menu.Options[0].Value != "1" || menu.Options[0].Description != "FR • 02.01.2026 03:04" {
		t.Fatalf("option = %+v", menu.Options[0])
	}
	if MeetingSelectRow(nil, "pick", time.UTC) != nil {
		t.Fatal("no meetings, no menu")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("привет", 4); got != "при…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ok", 4); got != "ok" {
		t.Fatalf("truncate = %q", got)
	}
}
