package discord

import (
	"context"
	"log"
	"strings"

	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
	pkgdiscord "surveybot/pkg/discord"
	"surveybot/pkg/tz"
)

// command is one entry of the command table. Gated commands run only for an
// active session holding role (empty role: any logged in user).
type command struct {
	gated bool
	role  string
	run   func(ctx context.Context, turn Turn, args string, p input.Principal) []Reply
}

func (h *Handler) registerCommands() {
	moderator := func(run func(context.Context, Turn, string, input.Principal) []Reply) command {
		return command{gated: true, role: entities.RoleModerator, run: run}
	}
	admin := func(run func(context.Context, Turn, string, input.Principal) []Reply) command {
		return command{gated: true, role: entities.RoleAdministrator, run: run}
	}

	h.commands = map[string]command{
		"/start":  {run: h.cmdStart},
		"/cancel": {run: h.cmdCancel},
		"/help":   {run: h.cmdHelp},
		"/login":  {run: h.cmdLogin},
		"/logout": {run: h.cmdLogout},
		"/whoami": {run: h.cmdWhoami},
		"/my":     {run: h.cmdMy},

		"/new_meeting":    moderator(h.cmdNewMeeting),
		"/add_q":          moderator(h.cmdAddQuestion),
		"/open_meeting":   moderator(h.cmdOpenMeeting),
		"/close_meeting":  moderator(h.cmdCloseMeeting),
		"/delete_meeting": moderator(h.cmdDeleteMeeting),
		"/export":         moderator(h.cmdExport),

		"/roles":      admin(h.cmdRoles),
		"/addrole":    admin(h.cmdAddRole),
		"/renamerole": admin(h.cmdRenameRole),
		"/delrole":    admin(h.cmdDeleteRole),
		"/setrole":    admin(h.cmdSetRole),
		"/adduser":    admin(h.cmdAddUser),
	}
}

func (h *Handler) runCommand(ctx context.Context, turn Turn) []Reply {
	name, args := pkgdiscord.SplitCommand(turn.Text)
	cmd, ok := h.commands[name]
	if !ok {
		return h.text(turn, "unknown_command", nil)
	}
	p := input.Principal{Identity: turn.Identity}
	if cmd.gated {
		var err error
		if p, err = h.gate.Authorize(ctx, turn.Identity, cmd.role); err != nil {
			log.Printf("🔒 [%s] %s refusé pour %s: %v", turn.ID, name, turn.Identity, err)
			return h.fail(turn, err)
		}
	}
	return cmd.run(ctx, turn, args, p)
}

// /start lists open meetings, or repeats the current question of a fill in
// progress; "/start <id>" begins one directly.
func (h *Handler) cmdStart(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	if args != "" {
		id, err := pkgdiscord.ParseID(args)
		if err != nil {
			return h.fail(turn, err)
		}
		return h.begin(ctx, turn, id)
	}
	if h.flow.InProgress(turn.Identity) {
		if p, err := h.flow.Current(ctx, turn.Identity); err == nil {
			reply := h.promptReply(turn.Locale, p, nil)
			reply.Content = h.t.T(turn.Locale, "flow.resumed", nil) + "\n\n" + reply.Content
			return []Reply{reply}
		}
	}
	meetings, err := h.meetings.ListOpenMeetings(ctx)
	if err != nil {
		return h.fail(turn, err)
	}
	if len(meetings) == 0 {
		return h.text(turn, "flow.no_open_meetings", nil)
	}
	return []Reply{{Content: h.t.T(turn.Locale, "flow.pick_meeting", nil), Meetings: meetings}}
}

func (h *Handler) cmdCancel(_ context.Context, turn Turn, _ string, _ input.Principal) []Reply {
	if h.flow.Abandon(turn.Identity) {
		return h.text(turn, "flow.cancelled", nil)
	}
	return h.text(turn, "flow.nothing_to_cancel", nil)
}

func (h *Handler) cmdHelp(_ context.Context, turn Turn, _ string, _ input.Principal) []Reply {
	return h.text(turn, "help.text", nil)
}

func (h *Handler) cmdLogin(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return h.text(turn, "usage.login", nil)
	}
	u, err := h.auth.Login(ctx, turn.Identity, fields[0], fields[1])
	if err != nil {
		return h.fail(turn, err)
	}
	log.Printf("🔑 %s connecté en tant que %s", turn.Identity, u.Username)
	return h.text(turn, "auth.login_ok", map[string]any{"Username": u.Username, "Role": u.RoleName()})
}

func (h *Handler) cmdLogout(ctx context.Context, turn Turn, _ string, _ input.Principal) []Reply {
	if err := h.auth.Logout(ctx, turn.Identity); err != nil {
		return h.fail(turn, err)
	}
	return h.text(turn, "auth.logout_ok", nil)
}

func (h *Handler) cmdWhoami(ctx context.Context, turn Turn, _ string, _ input.Principal) []Reply {
	u, err := h.auth.GetActiveUser(ctx, turn.Identity)
	if err != nil {
		return h.fail(turn, err)
	}
	if u == nil {
		return h.text(turn, "auth.whoami_anonymous", nil)
	}
	return h.text(turn, "auth.whoami", map[string]any{"Username": u.DisplayName(), "Role": u.RoleName()})
}

func (h *Handler) cmdMy(ctx context.Context, turn Turn, _ string, _ input.Principal) []Reply {
	list, err := h.flow.MyResponses(ctx, turn.Identity)
	if err != nil {
		return h.fail(turn, err)
	}
	if len(list) == 0 {
		return h.text(turn, "my.none", nil)
	}
	lines := []string{h.t.T(turn.Locale, "my.header", nil)}
	for _, r := range list {
		status := h.t.T(turn.Locale, "my.draft", nil)
		if r.Status == entities.ResponseSubmitted {
			status = h.t.T(turn.Locale, "my.submitted", map[string]any{
				"At": pkgdiscord.FormatDeadline(r.SubmittedAt, tz.Local()),
			})
		}
		lines = append(lines, h.t.T(turn.Locale, "my.item", map[string]any{
			"MeetingID": r.MeetingID,
			"Title":     r.MeetingTitle,
			"Status":    status,
			"Answers":   r.Answers,
		}))
	}
	return []Reply{{Content: strings.Join(lines, "\n")}}
}
