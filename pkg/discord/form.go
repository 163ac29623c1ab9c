package discord

import (
	"strconv"
	"strings"
	"time"

	"surveybot/internal/domain"
	"surveybot/internal/ports/input"
)

// ParseMeetingForm reads "Title | Description | Department | Country | Deadline".
// Trailing fields may be omitted.
func ParseMeetingForm(args string, loc *time.Location) (input.MeetingDraft, error) {
	f := splitFields(args, "|", 5)
	deadline, err := ParseDeadline(f[4], loc)
	if err != nil {
		return input.MeetingDraft{}, domain.Invalid("%v", err)
	}
	return input.MeetingDraft{
		Title:       f[0],
		Description: f[1],
		Department:  f[2],
		Country:     f[3],
		DeadlineAt:  deadline,
	}, nil
}

// ParseQuestionForm reads "meeting_id | type | order | required | text | opt1, opt2".
func ParseQuestionForm(args string) (input.QuestionDraft, error) {
	if strings.Count(args, "|") < 4 {
		return input.QuestionDraft{}, domain.Invalid("question form needs at least 5 fields")
	}
	f := splitFields(args, "|", 6)
	meetingID, err := ParseID(f[0])
	if err != nil {
		return input.QuestionDraft{}, err
	}
	order := 0
	if f[2] != "" {
		if order, err = strconv.Atoi(f[2]); err != nil {
			return input.QuestionDraft{}, domain.Invalid("order %q is not a number", f[2])
		}
	}
	var options []string
	if f[5] != "" {
		options = strings.Split(f[5], ",")
	}
	return input.QuestionDraft{
		MeetingID: meetingID,
		Type:      strings.ToLower(f[1]),
		OrderIdx:  order,
		Required:  ParseRequired(f[3]),
		Text:      f[4],
		Options:   options,
	}, nil
}

// ParseRequired accepts 1/true/yes/y/да, case-insensitively.
func ParseRequired(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "да":
		return true
	default:
		return false
	}
}

func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Invalid("%q is not an id", s)
	}
	return uint(id), nil
}

// splitFields splits on sep into exactly n trimmed fields; the last one keeps any extra separators.
func splitFields(s, sep string, n int) []string {
	parts := strings.SplitN(s, sep, n)
	out := make([]string, n)
	for i := range parts {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

// SplitCommand separates "/cmd rest" into the lower-cased command and its raw arguments.
func SplitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	cmd, args, _ = strings.Cut(text, " ")
	cmd = strings.ToLower(cmd)
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	return cmd, strings.TrimSpace(args)
}
