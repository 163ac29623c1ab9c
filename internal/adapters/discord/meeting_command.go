package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"surveybot/internal/ports/input"
	pkgdiscord "surveybot/pkg/discord"
	"surveybot/pkg/tz"
)

func (h *Handler) cmdNewMeeting(ctx context.Context, turn Turn, args string, p input.Principal) []Reply {
	if args == "" {
		return h.text(turn, "usage.new_meeting", nil)
	}
	draft, err := pkgdiscord.ParseMeetingForm(args, tz.Local())
	if err != nil {
		return h.fail(turn, err)
	}
	m, err := h.meetings.CreateMeeting(ctx, p.User.ID, draft)
	if err != nil {
		return h.fail(turn, err)
	}
	log.Printf("✅ Réunion #%d créée par %s", m.ID, p.User.DisplayName())
	return h.text(turn, "admin.meeting_created", map[string]any{"ID": m.ID, "Title": m.Title})
}

func (h *Handler) cmdAddQuestion(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	if args == "" {
		return h.text(turn, "usage.add_q", nil)
	}
	draft, err := pkgdiscord.ParseQuestionForm(args)
	if err != nil {
		return h.fail(turn, err)
	}
	q, err := h.meetings.AddQuestion(ctx, draft)
	if err != nil {
		return h.fail(turn, err)
	}
	return h.text(turn, "admin.question_added", map[string]any{"ID": q.ID, "MeetingID": q.MeetingID})
}

func (h *Handler) cmdOpenMeeting(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	return h.withMeetingID(turn, "/open_meeting", args, func(id uint) []Reply {
		if err := h.meetings.OpenMeeting(ctx, id); err != nil {
			return h.fail(turn, err)
		}
		log.Printf("📢 Réunion #%d ouverte", id)
		return h.text(turn, "admin.meeting_opened", map[string]any{"ID": id})
	})
}

func (h *Handler) cmdCloseMeeting(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	return h.withMeetingID(turn, "/close_meeting", args, func(id uint) []Reply {
		if err := h.meetings.CloseMeeting(ctx, id); err != nil {
			return h.fail(turn, err)
		}
		log.Printf("🔒 Réunion #%d fermée", id)
		return h.text(turn, "admin.meeting_closed", map[string]any{"ID": id})
	})
}

func (h *Handler) cmdDeleteMeeting(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	return h.withMeetingID(turn, "/delete_meeting", args, func(id uint) []Reply {
		if err := h.meetings.DeleteMeeting(ctx, id); err != nil {
			return h.fail(turn, err)
		}
		log.Printf("🗑️ Réunion #%d supprimée", id)
		return h.text(turn, "admin.meeting_deleted", map[string]any{"ID": id})
	})
}

func (h *Handler) cmdExport(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	return h.withMeetingID(turn, "/export", args, func(id uint) []Reply {
		export, err := h.meetings.Export(ctx, id)
		if err != nil {
			return h.fail(turn, err)
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return h.fail(turn, fmt.Errorf("encode export: %w", err))
		}
		return []Reply{{
			Content: h.t.T(turn.Locale, "admin.export_ready", map[string]any{"ID": id, "Count": len(export.Responses)}),
			File: &File{
				Name:        fmt.Sprintf("meeting-%d.json", id),
				ContentType: "application/json",
				Data:        data,
			},
		}}
	})
}

func (h *Handler) withMeetingID(turn Turn, name, args string, run func(id uint) []Reply) []Reply {
	if args == "" {
		return h.text(turn, "usage.id", map[string]any{"Command": name})
	}
	id, err := pkgdiscord.ParseID(args)
	if err != nil {
		return h.fail(turn, err)
	}
	return run(id)
}
