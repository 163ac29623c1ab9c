package application

import (
	"context"
	"fmt"

	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
)

type demoMeeting struct {
	draft     input.MeetingDraft
	questions []input.QuestionDraft
}

// demoMeetings cover every question type.
var demoMeetings = []demoMeeting{
	{
		draft: input.MeetingDraft{
			Title:       "Планёрка",
			Description: "Еженедельное совещание",
			Department:  "IT-отдел",
			Country:     "Россия",
		},
		questions: []input.QuestionDraft{
			{Type: "text", OrderIdx: 0, Required: true, Text: "Какие задачи выполнены на неделе?"},
			{Type: "int", OrderIdx: 1, Required: true, Text: "Сколько участников будет?"},
			{Type: "bool", OrderIdx: 2, Required: false, Text: "Нужна запись встречи?"},
			{Type: "choice", OrderIdx: 3, Required: true, Text: "Формат встречи?", Options: []string{"Онлайн", "Офлайн"}},
		},
	},
	{
		draft: input.MeetingDraft{
			Title:       "Ретроспектива",
			Description: "Итоги спринта и план улучшений",
			Department:  "IT-отдел",
			Country:     "Россия",
		},
		questions: []input.QuestionDraft{
			{Type: "text", OrderIdx: 0, Required: true, Text: "Что было хорошо?"},
			{Type: "text", OrderIdx: 1, Required: true, Text: "Что улучшить?"},
			{Type: "multi", OrderIdx: 2, Required: false, Text: "Темы для обсуждения", Options: []string{"Статусы", "Риски", "Блокеры", "Демо"}},
		},
	},
}

// SeedDemo opens the demo meetings that are not already open. It returns the
// meetings it created.
func (s *MeetingService) SeedDemo(ctx context.Context, creatorID uint) ([]entities.Meeting, error) {
	open, err := s.ListOpenMeetings(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(open))
	for _, m := range open {
		existing[m.Title] = true
	}

	var created []entities.Meeting
	for _, demo := range demoMeetings {
		if existing[demo.draft.Title] {
			continue
		}
		m, err := s.CreateMeeting(ctx, creatorID, demo.draft)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", demo.draft.Title, err)
		}
		for _, q := range demo.questions {
			q.MeetingID = m.ID
			if _, err := s.AddQuestion(ctx, q); err != nil {
				return created, fmt.Errorf("seed %q: %w", demo.draft.Title, err)
			}
		}
		if err := s.OpenMeeting(ctx, m.ID); err != nil {
			return created, fmt.Errorf("seed %q: %w", demo.draft.Title, err)
		}
		m.Status = entities.MeetingOpen
		created = append(created, *m)
	}
	return created, nil
}
