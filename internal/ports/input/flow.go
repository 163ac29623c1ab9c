package input

import (
	"context"
	"time"

	"surveybot/internal/domain/entities"
)

// Prompt describes how to present the current question of a fill.
type Prompt struct {
	MeetingID    uint
	MeetingTitle string
	QuestionID   uint
	Index        int // 0-based position
	Total        int
	Text         string
	Type         entities.QuestionType
	Required     bool
	Suggestions  []string // values the transport may offer as buttons
	Selected     []string // multi: values chosen so far, in insertion order
}

// TurnResult is the outcome of one answer turn.
type TurnResult struct {
	Prompt     *Prompt // question to present next (or again); nil when completed
	Completed  bool
	ResponseID uint
}

// ResponseSummary is one line of a user's response history.
type ResponseSummary struct {
	ResponseID   uint
	MeetingID    uint
	MeetingTitle string
	Status       entities.ResponseStatus
	SubmittedAt  time.Time
	Answers      int
}

// FlowUseCase drives the conversational fill of a meeting.
type FlowUseCase interface {
	Begin(ctx context.Context, identity string, meetingID uint) (*Prompt, error)
	// SubmitAnswer handles one raw answer. On a *domain.ValidationError the
	// result is still returned and carries the same question.
	SubmitAnswer(ctx context.Context, identity, raw string) (*TurnResult, error)
	Current(ctx context.Context, identity string) (*Prompt, error)
	Abandon(identity string) bool
	InProgress(identity string) bool
	Expire(cutoff time.Time) []string
	// MyResponses lists the responses of the current respondent, newest first.
	MyResponses(ctx context.Context, identity string) ([]ResponseSummary, error)
}
