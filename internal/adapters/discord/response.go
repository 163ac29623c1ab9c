package discord

import (
	"bytes"

	"github.com/bwmarrin/discordgo"

	pkgdiscord "surveybot/pkg/discord"
	"surveybot/pkg/tz"
)

// message is the Discord shape of a Reply, shared by channel sends,
// interaction responses and followups.
type message struct {
	content    string
	embeds     []*discordgo.MessageEmbed
	components []discordgo.MessageComponent
	files      []*discordgo.File
}

func (h *Handler) render(locale string, r Reply) message {
	if locale == "" {
		locale = h.defaultLocale
	}
	m := message{content: r.Content}
	if r.Meeting != nil {
		m.embeds = []*discordgo.MessageEmbed{pkgdiscord.MeetingEmbed(r.Meeting, tz.Local())}
	}
	switch {
	case len(r.Meetings) > 0:
		m.components = pkgdiscord.MeetingSelectRow(r.Meetings, h.t.T(locale, "flow.pick_meeting", nil), tz.Local())
	case len(r.Suggestions) > 0:
		m.components = pkgdiscord.SuggestionRows(r.Suggestions)
	}
	if r.File != nil {
		m.files = []*discordgo.File{{
			Name:        r.File.Name,
			ContentType: r.File.ContentType,
			Reader:      bytes.NewReader(r.File.Data),
		}}
	}
	return m
}

func (m message) send() *discordgo.MessageSend {
	return &discordgo.MessageSend{Content: m.content, Embeds: m.embeds, Components: m.components, Files: m.files}
}

func (m message) interactionData() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{Content: m.content, Embeds: m.embeds, Components: m.components, Files: m.files}
}

func (m message) webhook() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{Content: m.content, Embeds: m.embeds, Components: m.components, Files: m.files}
}

// resolveUser returns the clicking user in guilds (Member) and DMs (User).
func resolveUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
