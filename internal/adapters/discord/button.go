package discord

import (
	"context"

	pkgdiscord "surveybot/pkg/discord"
)

// HandleComponent routes a button click or a select menu choice. A suggestion
// button is the same as typing its value.
func (h *Handler) HandleComponent(ctx context.Context, turn Turn, customID string, values []string) []Reply {
	turn = h.prepare(turn)
	if value, ok := pkgdiscord.AnswerValue(customID); ok {
		return h.answer(ctx, turn, value)
	}
	switch customID {
	case pkgdiscord.SelectMeetingID:
		return h.selectMeeting(ctx, turn, values)
	default:
		return nil
	}
}
