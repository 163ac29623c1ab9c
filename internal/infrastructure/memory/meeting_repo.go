package memory

import (
	"context"
	"sort"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/output"
)

var _ output.MeetingRepository = (*MeetingRepository)(nil)

type MeetingRepository struct {
	s *Store
}

func (r *MeetingRepository) Create(_ context.Context, meeting *entities.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	meeting.ID = r.s.nextID(tableMeetings)
	meeting.CreatedAt = r.s.now()
	if meeting.Status == "" {
		meeting.Status = entities.MeetingDraft
	}
	m := *meeting
	m.Questions = nil
	r.s.meetings[m.ID] = &m
	return nil
}

func (r *MeetingRepository) FindByID(_ context.Context, id uint) (*entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return nil, domain.ErrMeetingNotFound
	}
	out := *m
	out.Questions = nil
	for _, q := range r.s.questions {
		if q.MeetingID == id {
			qc := *q
			qc.Options = append([]entities.Option(nil), q.Options...)
			out.Questions = append(out.Questions, qc)
		}
	}
	out.SortQuestions()
	return &out, nil
}

// ListByStatus returns meetings without questions, newest first.
func (r *MeetingRepository) ListByStatus(_ context.Context, status entities.MeetingStatus) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Meeting
	for _, m := range r.s.meetings {
		if m.Status == status {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MeetingRepository) UpdateStatus(_ context.Context, id uint, status entities.MeetingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return domain.ErrMeetingNotFound
	}
	m.Status = status
	return nil
}

// Delete cascades to questions, responses and answers.
func (r *MeetingRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.meetings[id]; !ok {
		return domain.ErrMeetingNotFound
	}
	delete(r.s.meetings, id)
	for qid, q := range r.s.questions {
		if q.MeetingID == id {
			delete(r.s.questions, qid)
		}
	}
	for rid, resp := range r.s.responses {
		if resp.MeetingID != id {
			continue
		}
		delete(r.s.responses, rid)
		for aid, a := range r.s.answers {
			if a.ResponseID == rid {
				delete(r.s.answers, aid)
			}
		}
	}
	return nil
}

func (r *MeetingRepository) AddQuestion(_ context.Context, question *entities.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.meetings[question.MeetingID]; !ok {
		return domain.ErrMeetingNotFound
	}
	question.ID = r.s.nextID(tableQuestions)
	for i := range question.Options {
		question.Options[i].ID = r.s.nextID(tableOptions)
		question.Options[i].QuestionID = question.ID
	}
	q := *question
	q.Options = append([]entities.Option(nil), question.Options...)
	r.s.questions[q.ID] = &q
	return nil
}
