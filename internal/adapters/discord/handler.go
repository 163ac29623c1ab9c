package discord

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
	"surveybot/internal/ports/output"
	pkgdiscord "surveybot/pkg/discord"
)

// Handler turns chat turns into use case calls. It knows nothing about the
// Discord session: replies are rendered by Bot.
type Handler struct {
	flow          input.FlowUseCase
	auth          input.AuthUseCase
	gate          input.GateUseCase
	meetings      input.MeetingUseCase
	roles         input.RoleUseCase
	t             output.T
	defaultLocale string
	commands      map[string]command
}

func NewHandler(
	flow input.FlowUseCase,
	auth input.AuthUseCase,
	gate input.GateUseCase,
	meetings input.MeetingUseCase,
	roles input.RoleUseCase,
	t output.T,
	defaultLocale string,
) *Handler {
	h := &Handler{
		flow:          flow,
		auth:          auth,
		gate:          gate,
		meetings:      meetings,
		roles:         roles,
		t:             t,
		defaultLocale: defaultLocale,
	}
	h.registerCommands()
	return h
}

// Turn is one inbound message or component click of a chat identity.
type Turn struct {
	ID       string // correlation id, printed with failures
	Identity string
	Locale   string
	Text     string
}

// File is an attachment of a reply.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Reply is one outgoing message.
type Reply struct {
	Content     string
	Meeting     *entities.Meeting // rendered as an embed
	Suggestions []string          // rendered as answer buttons
	Meetings    []entities.Meeting
	File        *File
}

// Dispatch handles a typed message: commands start with "/", anything else
// answers the current question.
func (h *Handler) Dispatch(ctx context.Context, turn Turn) []Reply {
	turn = h.prepare(turn)
	if strings.HasPrefix(turn.Text, "/") {
		return h.runCommand(ctx, turn)
	}
	return h.answer(ctx, turn, turn.Text)
}

func (h *Handler) prepare(turn Turn) Turn {
	if turn.ID == "" {
		turn.ID = uuid.NewString()[:8]
	}
	if turn.Locale == "" {
		turn.Locale = h.defaultLocale
	}
	turn.Text = strings.TrimSpace(turn.Text)
	return turn
}

func (h *Handler) answer(ctx context.Context, turn Turn, raw string) []Reply {
	res, err := h.flow.SubmitAnswer(ctx, turn.Identity, raw)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) && res != nil && res.Prompt != nil {
			reply := h.promptReply(turn.Locale, res.Prompt, nil)
			reply.Content = "❌ " + pkgdiscord.DomainErrorMessage(h.t, turn.Locale, err) + "\n\n" + reply.Content
			return []Reply{reply}
		}
		return h.fail(turn, err)
	}
	if res.Completed {
		return []Reply{{Content: h.t.T(turn.Locale, "flow.completed", nil)}}
	}
	return []Reply{h.promptReply(turn.Locale, res.Prompt, nil)}
}

func (h *Handler) begin(ctx context.Context, turn Turn, meetingID uint) []Reply {
	p, err := h.flow.Begin(ctx, turn.Identity, meetingID)
	if err != nil {
		return h.fail(turn, err)
	}
	m, err := h.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		m = nil
	}
	return []Reply{h.promptReply(turn.Locale, p, m)}
}

func (h *Handler) promptReply(locale string, p *input.Prompt, m *entities.Meeting) Reply {
	lines := []string{h.t.T(locale, "flow.question", map[string]any{
		"Index": p.Index + 1,
		"Total": p.Total,
		"Text":  p.Text,
	})}
	if p.Type == entities.QuestionMulti {
		lines = append(lines, h.t.T(locale, "flow.multi_hint", nil))
		if len(p.Selected) > 0 {
			lines = append(lines, h.t.T(locale, "flow.selected", map[string]any{"Selected": strings.Join(p.Selected, ", ")}))
		}
	}
	if !p.Required {
		lines = append(lines, h.t.T(locale, "flow.optional_hint", nil))
	}
	return Reply{
		Content:     strings.Join(lines, "\n"),
		Meeting:     m,
		Suggestions: p.Suggestions,
	}
}

// fail renders err for the user. Only failures the user cannot fix are logged.
func (h *Handler) fail(turn Turn, err error) []Reply {
	switch domain.KindOf(err) {
	case domain.KindRepository, "":
		log.Printf("❌ [%s] Erreur pour %s: %v", turn.ID, turn.Identity, err)
	case domain.KindConfiguration:
		log.Printf("⚠️ [%s] Réunion mal configurée (%s): %v", turn.ID, turn.Identity, err)
	}
	return []Reply{{Content: "❌ " + pkgdiscord.DomainErrorMessage(h.t, turn.Locale, err)}}
}

func (h *Handler) text(turn Turn, key string, data map[string]any) []Reply {
	return []Reply{{Content: h.t.T(turn.Locale, key, data)}}
}
