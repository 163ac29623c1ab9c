package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
	"surveybot/internal/ports/output"
)

// MultiSeparator joins the values of a multi answer.
const MultiSeparator = ", "

var _ input.FlowUseCase = (*FlowService)(nil)

// activeUserSource resolves the user logged in on a chat identity, if any.
type activeUserSource interface {
	GetActiveUser(ctx context.Context, identity string) (*entities.User, error)
}

type selectionKey struct {
	identity   string
	meetingID  uint
	questionID uint
}

// FlowService is the conversational form-filling engine.
type FlowService struct {
	meetings  output.MeetingRepository
	responses output.ResponseRepository
	users     output.UserRepository
	auth      activeUserSource
	sessions  *FillSessionStore
	locks     *IdentityLocks

	pendingMu sync.Mutex
	pending   map[selectionKey][]string
}

func NewFlowService(
	meetings output.MeetingRepository,
	responses output.ResponseRepository,
	users output.UserRepository,
	auth activeUserSource,
	sessions *FillSessionStore,
	locks *IdentityLocks,
) *FlowService {
	return &FlowService{
		meetings:  meetings,
		responses: responses,
		users:     users,
		auth:      auth,
		sessions:  sessions,
		locks:     locks,
		pending:   make(map[selectionKey][]string),
	}
}

// Begin starts (or restarts) the fill of meetingID for identity and returns the first question.
func (s *FlowService) Begin(ctx context.Context, identity string, meetingID uint) (*input.Prompt, error) {
	unlock := s.locks.Lock(identity)
	defer unlock()

	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return nil, fmt.Errorf("%w: meeting %d does not exist", domain.ErrMeetingNotOpen, meetingID)
		}
		return nil, storageErr(err)
	}
	if err := checkFillable(meeting); err != nil {
		return nil, err
	}

	// The respondent is fixed here; a login or logout during the fill does
	// not move the remaining answers to another user.
	respondent, err := s.respondent(ctx, identity)
	if err != nil {
		return nil, storageErr(err)
	}
	resp, err := s.responses.GetOrCreate(ctx, respondent.ID, meeting.ID)
	if err != nil {
		return nil, storageErr(err)
	}

	s.clearSelections(identity)
	s.sessions.Start(identity, meeting.ID, resp.ID)
	return s.prompt(identity, meeting, 0), nil
}

// SubmitAnswer validates raw against the current question and moves the fill forward.
func (s *FlowService) SubmitAnswer(ctx context.Context, identity, raw string) (*input.TurnResult, error) {
	unlock := s.locks.Lock(identity)
	defer unlock()

	st, ok := s.sessions.Get(identity)
	if !ok {
		return nil, domain.ErrNoActiveFill
	}
	s.sessions.Touch(identity)

	meeting, err := s.loadCurrent(ctx, identity, st)
	if err != nil {
		return nil, err
	}
	q := &meeting.Questions[st.Index]
	key := selectionKey{identity: identity, meetingID: meeting.ID, questionID: q.ID}

	verdict, err := domain.ValidateAnswer(q, raw)
	if err != nil {
		if domain.EndsFill(err) {
			s.endFill(identity)
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
		return &input.TurnResult{Prompt: s.prompt(identity, meeting, st.Index)}, err
	}

	if q.Type == entities.QuestionMulti && !verdict.Skip {
		if !verdict.Done {
			s.addSelection(key, verdict.Value)
			return &input.TurnResult{Prompt: s.prompt(identity, meeting, st.Index)}, nil
		}
		selected := s.selection(key)
		if len(selected) == 0 {
			verr := &domain.ValidationError{Code: domain.CodeSelectAtLeastOne, Allowed: q.OptionValues()}
			return &input.TurnResult{Prompt: s.prompt(identity, meeting, st.Index)}, verr
		}
		verdict.Value = strings.Join(selected, MultiSeparator)
	}

	// The first write of a fill drops whatever a previous fill left in the
	// response, so skipped questions never keep stale answers.
	if !st.Written {
		if err := s.responses.Reset(ctx, st.ResponseID); err != nil {
			return nil, s.writeErr(identity, err)
		}
		s.sessions.MarkWritten(identity)
	}
	if !verdict.Skip {
		if _, err := s.responses.SaveAnswer(ctx, st.ResponseID, q.ID, verdict.Value); err != nil {
			return nil, s.writeErr(identity, err)
		}
	}

	next := st.Index + 1
	if next < len(meeting.Questions) {
		s.dropSelection(key)
		s.sessions.Advance(identity)
		return &input.TurnResult{Prompt: s.prompt(identity, meeting, next), ResponseID: st.ResponseID}, nil
	}

	if err := s.responses.Submit(ctx, st.ResponseID); err != nil {
		return nil, s.writeErr(identity, err)
	}
	s.endFill(identity)
	return &input.TurnResult{Completed: true, ResponseID: st.ResponseID}, nil
}

// writeErr classifies a failed write. A response that disappeared ends the
// fill; any other failure leaves the fill and the selections as they were.
func (s *FlowService) writeErr(identity string, err error) error {
	if errors.Is(err, domain.ErrResponseNotFound) {
		s.endFill(identity)
		return domain.ErrMeetingUnavailable
	}
	return storageErr(err)
}

// Current re-presents the question the identity is positioned on.
func (s *FlowService) Current(ctx context.Context, identity string) (*input.Prompt, error) {
	unlock := s.locks.Lock(identity)
	defer unlock()

	st, ok := s.sessions.Get(identity)
	if !ok {
		return nil, domain.ErrNoActiveFill
	}
	meeting, err := s.loadCurrent(ctx, identity, st)
	if err != nil {
		return nil, err
	}
	return s.prompt(identity, meeting, st.Index), nil
}

// Abandon drops the fill in progress. It reports whether there was one.
func (s *FlowService) Abandon(identity string) bool {
	unlock := s.locks.Lock(identity)
	defer unlock()

	_, ok := s.sessions.Get(identity)
	s.endFill(identity)
	return ok
}

func (s *FlowService) InProgress(identity string) bool {
	_, ok := s.sessions.Get(identity)
	return ok
}

// Expire clears fills untouched since cutoff and returns the affected identities.
func (s *FlowService) Expire(cutoff time.Time) []string {
	var expired []string
	for _, identity := range s.sessions.Idle(cutoff) {
		unlock := s.locks.Lock(identity)
		if s.sessions.ClearIfIdle(identity, cutoff) {
			s.clearSelections(identity)
			expired = append(expired, identity)
		}
		unlock()
	}
	return expired
}

// MyResponses lists the responses of the respondent behind identity. A
// response whose meeting is gone is left out.
func (s *FlowService) MyResponses(ctx context.Context, identity string) ([]input.ResponseSummary, error) {
	user, err := s.respondent(ctx, identity)
	if err != nil {
		return nil, storageErr(err)
	}
	responses, err := s.responses.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, storageErr(err)
	}

	titles := make(map[uint]string)
	out := make([]input.ResponseSummary, 0, len(responses))
	for _, r := range responses {
		title, ok := titles[r.MeetingID]
		if !ok {
			m, err := s.meetings.FindByID(ctx, r.MeetingID)
			if errors.Is(err, domain.ErrMeetingNotFound) {
				continue
			}
			if err != nil {
				return nil, storageErr(err)
			}
			title = m.Title
			titles[r.MeetingID] = title
		}
		answers, err := s.responses.ListAnswers(ctx, r.ID)
		if err != nil {
			return nil, storageErr(err)
		}
		out = append(out, input.ResponseSummary{
			ResponseID:   r.ID,
			MeetingID:    r.MeetingID,
			MeetingTitle: title,
			Status:       r.Status,
			SubmittedAt:  r.SubmittedAt,
			Answers:      len(answers),
		})
	}
	return out, nil
}

// loadCurrent reloads the meeting of st. A meeting that vanished, closed or
// lost the current question ends the fill.
func (s *FlowService) loadCurrent(ctx context.Context, identity string, st FillState) (*entities.Meeting, error) {
	meeting, err := s.meetings.FindByID(ctx, st.MeetingID)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			s.endFill(identity)
			return nil, domain.ErrMeetingUnavailable
		}
		return nil, storageErr(err)
	}
	if !meeting.IsOpen() || st.Index >= len(meeting.Questions) {
		s.endFill(identity)
		return nil, domain.ErrMeetingUnavailable
	}
	return meeting, nil
}

func (s *FlowService) respondent(ctx context.Context, identity string) (*entities.User, error) {
	if s.auth != nil {
		u, err := s.auth.GetActiveUser(ctx, identity)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return s.users.GetOrCreateByChatID(ctx, identity, "")
}

func (s *FlowService) endFill(identity string) {
	s.sessions.Clear(identity)
	s.clearSelections(identity)
}

func (s *FlowService) prompt(identity string, m *entities.Meeting, idx int) *input.Prompt {
	q := m.Questions[idx]
	p := &input.Prompt{
		MeetingID:    m.ID,
		MeetingTitle: m.Title,
		QuestionID:   q.ID,
		Index:        idx,
		Total:        len(m.Questions),
		Text:         q.Text,
		Type:         q.Type,
		Required:     q.IsRequired,
	}
	switch q.Type {
	case entities.QuestionChoice:
		p.Suggestions = q.OptionValues()
	case entities.QuestionMulti:
		p.Suggestions = append(q.OptionValues(), domain.DoneToken)
		p.Selected = s.selection(selectionKey{identity: identity, meetingID: m.ID, questionID: q.ID})
	case entities.QuestionBool:
		p.Suggestions = append([]string(nil), domain.YesNo...)
	case entities.QuestionText, entities.QuestionInt:
	}
	if !q.IsRequired {
		p.Suggestions = append(p.Suggestions, domain.SkipToken)
	}
	return p
}

func (s *FlowService) addSelection(key selectionKey, value string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	for _, v := range s.pending[key] {
		if v == value {
			return
		}
	}
	s.pending[key] = append(s.pending[key], value)
}

func (s *FlowService) selection(key selectionKey) []string {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return append([]string(nil), s.pending[key]...)
}

func (s *FlowService) dropSelection(key selectionKey) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	delete(s.pending, key)
}

func (s *FlowService) clearSelections(identity string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	for key := range s.pending {
		if key.identity == identity {
			delete(s.pending, key)
		}
	}
}

func checkFillable(m *entities.Meeting) error {
	if !m.IsOpen() {
		return fmt.Errorf("%w: meeting %d is %s", domain.ErrMeetingNotOpen, m.ID, m.Status)
	}
	if len(m.Questions) == 0 {
		return domain.ErrNoQuestions
	}
	for _, q := range m.Questions {
		if q.NeedsOptions() && len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d", domain.ErrEmptyOptions, q.ID)
		}
	}
	return nil
}

// storageErr keeps domain errors as they are and marks anything else as a storage failure.
func storageErr(err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.Repository(err)
}
