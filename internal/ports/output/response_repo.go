package output

import (
	"context"

	"surveybot/internal/domain/entities"
)

type ResponseRepository interface {
	// GetOrCreate returns the single response of a user for a meeting, creating a draft if needed.
	GetOrCreate(ctx context.Context, userID, meetingID uint) (*entities.Response, error)
	// SaveAnswer upserts the answer of a question within a response.
	SaveAnswer(ctx context.Context, responseID, questionID uint, value string) (*entities.Answer, error)
	// Submit marks the response submitted. Repeated calls overwrite the timestamp.
	Submit(ctx context.Context, responseID uint) error
	// Reset deletes every answer of the response and puts it back to draft.
	Reset(ctx context.Context, responseID uint) error
	FindByID(ctx context.Context, id uint) (*entities.Response, error)
	ListAnswers(ctx context.Context, responseID uint) ([]entities.Answer, error)
	ListByMeeting(ctx context.Context, meetingID uint) ([]entities.Response, error)
	// ListByUser returns the responses of a user, newest first.
	ListByUser(ctx context.Context, userID uint) ([]entities.Response, error)
}
