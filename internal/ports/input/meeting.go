package input

import (
	"context"
	"time"

	"surveybot/internal/domain/entities"
)

// MeetingDraft is the admin input for a new meeting.
type MeetingDraft struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=4000"`
	Department  string `validate:"max=128"`
	Country     string `validate:"max=64"`
	DeadlineAt  time.Time
}

// QuestionDraft is the admin input for a new question.
type QuestionDraft struct {
	MeetingID uint   `validate:"required"`
	Type      string `validate:"required,oneof=text choice multi bool int"`
	OrderIdx  int    `validate:"gte=0"`
	Required  bool
	Text      string   `validate:"required,max=2000"`
	Options   []string `validate:"dive,max=128"`
}

type MeetingUseCase interface {
	CreateMeeting(ctx context.Context, creatorID uint, draft MeetingDraft) (*entities.Meeting, error)
	AddQuestion(ctx context.Context, draft QuestionDraft) (*entities.Question, error)
	OpenMeeting(ctx context.Context, id uint) error
	CloseMeeting(ctx context.Context, id uint) error
	DeleteMeeting(ctx context.Context, id uint) error
	GetMeeting(ctx context.Context, id uint) (*entities.Meeting, error)
	ListOpenMeetings(ctx context.Context) ([]entities.Meeting, error)
	Export(ctx context.Context, id uint) (*MeetingExport, error)
}

// MeetingExport is the raw dump of a meeting and every response to it.
type MeetingExport struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Department  string             `json:"department,omitempty"`
	Country     string             `json:"country,omitempty"`
	DeadlineAt  *time.Time         `json:"deadline_at,omitempty"`
	Status      string             `json:"status"`
	Questions   []ExportedQuestion `json:"questions"`
	Responses   []ExportedResponse `json:"responses"`
	ExportedAt  time.Time          `json:"exported_at"`
}

type ExportedQuestion struct {
	ID       uint     `json:"id"`
	Order    int      `json:"order"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Text     string   `json:"text"`
	Options  []string `json:"options,omitempty"`
}

type ExportedResponse struct {
	ID          uint             `json:"id"`
	UserID      uint             `json:"user_id"`
	User        string           `json:"user"`
	Status      string           `json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`
	Answers     []ExportedAnswer `json:"answers"`
}

type ExportedAnswer struct {
	QuestionID uint   `json:"question_id"`
	Value      string `json:"value"`
}
