package discord

import (
	"context"

	pkgdiscord "surveybot/pkg/discord"
)

func (h *Handler) selectMeeting(ctx context.Context, turn Turn, values []string) []Reply {
	if len(values) == 0 {
		return nil
	}
	id, err := pkgdiscord.ParseID(values[0])
	if err != nil {
		return h.fail(turn, err)
	}
	return h.begin(ctx, turn, id)
}
