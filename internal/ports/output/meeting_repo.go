package output

import (
	"context"

	"surveybot/internal/domain/entities"
)

// MeetingRepository stores meetings with their questions and options.
// Lookups of a missing meeting return domain.ErrMeetingNotFound.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	// FindByID loads the meeting with questions sorted by (order, id) and their options.
	FindByID(ctx context.Context, id uint) (*entities.Meeting, error)
	ListByStatus(ctx context.Context, status entities.MeetingStatus) ([]entities.Meeting, error)
	UpdateStatus(ctx context.Context, id uint, status entities.MeetingStatus) error
	// Delete removes the meeting and cascades to its questions.
	Delete(ctx context.Context, id uint) error
	// AddQuestion inserts the question and its options atomically.
	AddQuestion(ctx context.Context, question *entities.Question) error
}
