package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
	"surveybot/internal/ports/output"
)

const untitledMeeting = "Untitled meeting"

var _ input.MeetingUseCase = (*MeetingService)(nil)

type MeetingService struct {
	meetings  output.MeetingRepository
	responses output.ResponseRepository
	users     output.UserRepository
	validate  *validator.Validate
	now       func() time.Time
}

func NewMeetingService(
	meetings output.MeetingRepository,
	responses output.ResponseRepository,
	users output.UserRepository,
) *MeetingService {
	return &MeetingService{
		meetings:  meetings,
		responses: responses,
		users:     users,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateMeeting stores a new draft meeting.
func (s *MeetingService) CreateMeeting(ctx context.Context, creatorID uint, draft input.MeetingDraft) (*entities.Meeting, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		draft.Title = untitledMeeting
	}
	if err := s.validate.Struct(draft); err != nil {
		return nil, domain.Invalid("meeting: %v", err)
	}
	m := &entities.Meeting{
		Title:       draft.Title,
		Description: strings.TrimSpace(draft.Description),
		Department:  strings.TrimSpace(draft.Department),
		Country:     strings.TrimSpace(draft.Country),
		DeadlineAt:  draft.DeadlineAt,
		Status:      entities.MeetingDraft,
		CreatedBy:   creatorID,
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, storageErr(err)
	}
	return m, nil
}

// AddQuestion appends a question to an existing meeting. Options are trimmed,
// de-duplicated and only kept for choice/multi questions, which need at least one.
func (s *MeetingService) AddQuestion(ctx context.Context, draft input.QuestionDraft) (*entities.Question, error) {
	draft.Text = strings.TrimSpace(draft.Text)
	if err := s.validate.Struct(draft); err != nil {
		return nil, domain.Invalid("question: %v", err)
	}
	qtype, err := entities.ParseQuestionType(draft.Type)
	if err != nil {
		return nil, domain.Invalid("%v", err)
	}
	if _, err := s.meetings.FindByID(ctx, draft.MeetingID); err != nil {
		return nil, storageErr(err)
	}

	q := &entities.Question{
		MeetingID:  draft.MeetingID,
		Text:       draft.Text,
		OrderIdx:   draft.OrderIdx,
		IsRequired: draft.Required,
		Type:       qtype,
	}
	if q.NeedsOptions() {
		for _, v := range cleanOptions(draft.Options) {
			q.Options = append(q.Options, entities.Option{Value: v, Label: v})
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: %s question", domain.ErrEmptyOptions, qtype)
		}
		for _, o := range q.Options {
			if reservedOption(q, o.Value) {
				return nil, domain.Invalid("option %q is a reserved answer", o.Value)
			}
		}
	}
	if err := s.meetings.AddQuestion(ctx, q); err != nil {
		return nil, storageErr(err)
	}
	return q, nil
}

func (s *MeetingService) OpenMeeting(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, entities.MeetingOpen)
}

func (s *MeetingService) CloseMeeting(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, entities.MeetingClosed)
}

func (s *MeetingService) setStatus(ctx context.Context, id uint, status entities.MeetingStatus) error {
	if err := s.meetings.UpdateStatus(ctx, id, status); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *MeetingService) DeleteMeeting(ctx context.Context, id uint) error {
	if err := s.meetings.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *MeetingService) GetMeeting(ctx context.Context, id uint) (*entities.Meeting, error) {
	m, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return m, nil
}

// ListOpenMeetings returns open meetings, newest first.
func (s *MeetingService) ListOpenMeetings(ctx context.Context) ([]entities.Meeting, error) {
	meetings, err := s.meetings.ListByStatus(ctx, entities.MeetingOpen)
	if err != nil {
		return nil, storageErr(err)
	}
	return meetings, nil
}

// Export dumps the meeting with every response and its raw answers.
func (s *MeetingService) Export(ctx context.Context, id uint) (*input.MeetingExport, error) {
	m, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	out := &input.MeetingExport{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Department:  m.Department,
		Country:     m.Country,
		DeadlineAt:  timePtr(m.DeadlineAt),
		Status:      string(m.Status),
		Questions:   make([]input.ExportedQuestion, 0, len(m.Questions)),
		Responses:   []input.ExportedResponse{},
		ExportedAt:  s.now(),
	}
	for _, q := range m.Questions {
		out.Questions = append(out.Questions, input.ExportedQuestion{
			ID:       q.ID,
			Order:    q.OrderIdx,
			Type:     string(q.Type),
			Required: q.IsRequired,
			Text:     q.Text,
			Options:  q.OptionValues(),
		})
	}

	responses, err := s.responses.ListByMeeting(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	for _, r := range responses {
		answers, err := s.responses.ListAnswers(ctx, r.ID)
		if err != nil {
			return nil, storageErr(err)
		}
		er := input.ExportedResponse{
			ID:          r.ID,
			UserID:      r.UserID,
			User:        s.userLabel(ctx, r.UserID),
			Status:      string(r.Status),
			SubmittedAt: timePtr(r.SubmittedAt),
			Answers:     make([]input.ExportedAnswer, 0, len(answers)),
		}
		for _, a := range answers {
			er.Answers = append(er.Answers, input.ExportedAnswer{QuestionID: a.QuestionID, Value: a.Value})
		}
		out.Responses = append(out.Responses, er)
	}
	return out, nil
}

func (s *MeetingService) userLabel(ctx context.Context, userID uint) string {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Sprintf("#%d", userID)
		}
		return ""
	}
	return u.DisplayName()
}

// reservedOption reports values the engine reads as a command for q: the
// multi completion sentinel, or the skip token of an optional question.
func reservedOption(q *entities.Question, v string) bool {
	if q.Type == entities.QuestionMulti && domain.IsDone(v) {
		return true
	}
	return !q.IsRequired && v == domain.SkipToken
}

func cleanOptions(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, o := range raw {
		v := strings.TrimSpace(o)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
