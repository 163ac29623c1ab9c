package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	MeetingDraft     MeetingStatus = "draft"
	MeetingOpen      MeetingStatus = "open"
	MeetingClosed    MeetingStatus = "closed"
	MeetingScheduled MeetingStatus = "scheduled"
)

// ParseMeetingStatus rejects anything that is not a known status.
func ParseMeetingStatus(s string) (MeetingStatus, error) {
	switch st := MeetingStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case MeetingDraft, MeetingOpen, MeetingClosed, MeetingScheduled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown meeting status %q", s)
	}
}

// QuestionType declares how an answer is validated and normalized.
type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionChoice QuestionType = "choice"
	QuestionMulti  QuestionType = "multi"
	QuestionBool   QuestionType = "bool"
	QuestionInt    QuestionType = "int"
)

func ParseQuestionType(s string) (QuestionType, error) {
	switch qt := QuestionType(strings.ToLower(strings.TrimSpace(s))); qt {
	case QuestionText, QuestionChoice, QuestionMulti, QuestionBool, QuestionInt:
		return qt, nil
	default:
		return "", fmt.Errorf("unknown question type %q", s)
	}
}

// Meeting is a survey instance. Optional text fields are empty when unset,
// DeadlineAt is zero when unset.
type Meeting struct {
	ID          uint
	Title       string
	Description string
	Department  string
	Country     string
	DeadlineAt  time.Time
	Status      MeetingStatus
	CreatedBy   uint // 0 = unknown creator
	CreatedAt   time.Time
	Questions   []Question
}

func (m *Meeting) IsOpen() bool {
	return m.Status == MeetingOpen
}

// SortQuestions orders questions by (OrderIdx, ID); order indexes are not unique.
func (m *Meeting) SortQuestions() {
	sort.SliceStable(m.Questions, func(i, j int) bool {
		a, b := m.Questions[i], m.Questions[j]
		if a.OrderIdx != b.OrderIdx {
			return a.OrderIdx < b.OrderIdx
		}
		return a.ID < b.ID
	})
}

type Question struct {
	ID         uint
	MeetingID  uint
	Text       string
	OrderIdx   int
	IsRequired bool
	Type       QuestionType
	Options    []Option
}

// NeedsOptions reports whether the question only accepts configured option values.
func (q *Question) NeedsOptions() bool {
	switch q.Type {
	case QuestionChoice, QuestionMulti:
		return true
	case QuestionText, QuestionBool, QuestionInt:
		return false
	default:
		return false
	}
}

func (q *Question) OptionValues() []string {
	values := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		values = append(values, o.Value)
	}
	return values
}

// Option is one accepted value of a choice/multi question.
type Option struct {
	ID         uint
	QuestionID uint
	Value      string
	Label      string // empty = use Value
}

func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}
