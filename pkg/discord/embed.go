package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"surveybot/internal/domain/entities"
)

// Component custom ids.
const (
	AnswerPrefix    = "answer:"
	SelectMeetingID = "select_meeting"
)

const (
	embedColor       = 0x5865F2
	maxButtonsPerRow = 5
	maxRows          = 5
	maxLabelLen      = 80
	maxCustomIDLen   = 100
	maxSelectOptions = 25
)

// SuggestionRows lays suggested values out as button rows. Values that do not
// fit a custom id, or exceed the row budget, are left out: they can still be typed.
func SuggestionRows(values []string) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, v := range values {
		if len(AnswerPrefix)+len(v) > maxCustomIDLen || v == "" {
			continue
		}
		if len(row) == maxButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
			if len(rows) == maxRows {
				return rows
			}
		}
		row = append(row, discordgo.Button{
			Label:    truncate(v, maxLabelLen),
			Style:    discordgo.SecondaryButton,
			CustomID: AnswerPrefix + v,
		})
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

// AnswerValue extracts the suggested value carried by a button custom id.
func AnswerValue(customID string) (string, bool) {
	return strings.CutPrefix(customID, AnswerPrefix)
}

// MeetingSelectRow offers up to 25 open meetings in a select menu.
func MeetingSelectRow(meetings []entities.Meeting, placeholder string, loc *time.Location) []discordgo.MessageComponent {
	if len(meetings) == 0 {
		return nil
	}
	options := make([]discordgo.SelectMenuOption, 0, min(len(meetings), maxSelectOptions))
	for _, m := range meetings {
		if len(options) == maxSelectOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       truncate(fmt.Sprintf("#%d %s", m.ID, m.Title), maxLabelLen),
			Value:       fmt.Sprint(m.ID),
			Description: truncate(meetingSummary(m, loc), 100),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{CustomID: SelectMeetingID, Placeholder: placeholder, Options: options},
		}},
	}
}

func meetingSummary(m entities.Meeting, loc *time.Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Department, m.Country, FormatDeadline(m.DeadlineAt, loc)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

// MeetingEmbed describes a meeting in the header of its first question.
func MeetingEmbed(m *entities.Meeting, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       truncate(m.Title, 256),
		Description: m.Description,
		Color:       embedColor,
	}
	if summary := meetingSummary(*m, loc); summary != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: summary}
	}
	return embed
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
