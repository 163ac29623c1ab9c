package memory

import (
	"context"
	"sort"
	"time"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/output"
)

var _ output.ResponseRepository = (*ResponseRepository)(nil)

type ResponseRepository struct {
	s *Store
}

func (r *ResponseRepository) GetOrCreate(_ context.Context, userID, meetingID uint) (*entities.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.meetings[meetingID]; !ok {
		return nil, domain.ErrMeetingNotFound
	}
	for _, resp := range r.s.responses {
		if resp.UserID == userID && resp.MeetingID == meetingID {
			out := *resp
			return &out, nil
		}
	}
	resp := &entities.Response{
		ID:        r.s.nextID(tableResponses),
		UserID:    userID,
		MeetingID: meetingID,
		Status:    entities.ResponseDraft,
		CreatedAt: r.s.now(),
	}
	r.s.responses[resp.ID] = resp
	out := *resp
	return &out, nil
}

func (r *ResponseRepository) SaveAnswer(_ context.Context, responseID, questionID uint, value string) (*entities.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.responses[responseID]; !ok {
		return nil, domain.ErrResponseNotFound
	}
	for _, a := range r.s.answers {
		if a.ResponseID == responseID && a.QuestionID == questionID {
			a.Value = value
			a.UpdatedAt = r.s.now()
			out := *a
			return &out, nil
		}
	}
	a := &entities.Answer{
		ID:         r.s.nextID(tableAnswers),
		ResponseID: responseID,
		QuestionID: questionID,
		Value:      value,
		UpdatedAt:  r.s.now(),
	}
	r.s.answers[a.ID] = a
	out := *a
	return &out, nil
}

func (r *ResponseRepository) Submit(_ context.Context, responseID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resp, ok := r.s.responses[responseID]
	if !ok {
		return domain.ErrResponseNotFound
	}
	resp.Status = entities.ResponseSubmitted
	resp.SubmittedAt = r.s.now()
	return nil
}

func (r *ResponseRepository) Reset(_ context.Context, responseID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resp, ok := r.s.responses[responseID]
	if !ok {
		return domain.ErrResponseNotFound
	}
	for id, a := range r.s.answers {
		if a.ResponseID == responseID {
			delete(r.s.answers, id)
		}
	}
	resp.Status = entities.ResponseDraft
	resp.SubmittedAt = time.Time{}
	return nil
}

func (r *ResponseRepository) FindByID(_ context.Context, id uint) (*entities.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resp, ok := r.s.responses[id]
	if !ok {
		return nil, domain.ErrResponseNotFound
	}
	out := *resp
	return &out, nil
}

// ListAnswers returns answers in question order.
func (r *ResponseRepository) ListAnswers(_ context.Context, responseID uint) ([]entities.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Answer
	for _, a := range r.s.answers {
		if a.ResponseID == responseID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		qi, qj := r.s.questions[out[i].QuestionID], r.s.questions[out[j].QuestionID]
		if qi != nil && qj != nil && qi.OrderIdx != qj.OrderIdx {
			return qi.OrderIdx < qj.OrderIdx
		}
		return out[i].QuestionID < out[j].QuestionID
	})
	return out, nil
}

func (r *ResponseRepository) ListByMeeting(_ context.Context, meetingID uint) ([]entities.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Response
	for _, resp := range r.s.responses {
		if resp.MeetingID == meetingID {
			out = append(out, *resp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ResponseRepository) ListByUser(_ context.Context, userID uint) ([]entities.Response, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Response
	for _, resp := range r.s.responses {
		if resp.UserID == userID {
			out = append(out, *resp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
