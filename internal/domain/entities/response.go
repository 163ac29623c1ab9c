package entities

import "time"

type ResponseStatus string

const (
	ResponseDraft     ResponseStatus = "draft"
	ResponseSubmitted ResponseStatus = "submitted"
)

// Response is one user's pass through a meeting. There is at most one per (user, meeting).
type Response struct {
	ID          uint
	UserID      uint
	MeetingID   uint
	Status      ResponseStatus
	SubmittedAt time.Time // zero until submitted
	CreatedAt   time.Time
}

func (r *Response) IsSubmitted() bool {
	return r.Status == ResponseSubmitted
}

// Answer holds the normalized value given to one question of a response.
type Answer struct {
	ID         uint
	ResponseID uint
	QuestionID uint
	Value      string
	UpdatedAt  time.Time
}
