package domain

import (
	"strings"

	"golang.org/x/text/cases"

	"surveybot/internal/domain/entities"
)

// Reserved answer tokens.
const (
	DoneToken = "done" // closes a multi selection
	SkipToken = "-"    // skips an optional question
)

var (
	doneTokens  = []string{DoneToken, "готово"}
	trueTokens  = []string{"yes", "true", "1", "да"}
	falseTokens = []string{"no", "false", "0", "нет"}
	// YesNo are the suggested replies of a bool question.
	YesNo = []string{"да", "нет"}
)

// Verdict is the normalized outcome of a valid answer.
type Verdict struct {
	Value string
	Done  bool // multi: the completion sentinel was given
	Skip  bool // optional question skipped, nothing to persist
}

// ValidateAnswer normalizes raw for q. It performs no I/O.
// Errors are *ValidationError, or ErrEmptyOptions when a choice/multi
// question has nothing to choose from.
func ValidateAnswer(q *entities.Question, raw string) (Verdict, error) {
	val := strings.TrimSpace(raw)
	if q.NeedsOptions() && len(q.Options) == 0 {
		return Verdict{}, ErrEmptyOptions
	}
	if !q.IsRequired && val == SkipToken {
		return Verdict{Skip: true}, nil
	}

	switch q.Type {
	case entities.QuestionText:
		if val == "" {
			return Verdict{}, &ValidationError{Code: CodeExpectedText}
		}
		return Verdict{Value: val}, nil

	case entities.QuestionInt:
		if !isDigits(val) {
			return Verdict{}, &ValidationError{Code: CodeExpectedInt}
		}
		return Verdict{Value: canonicalDigits(val)}, nil

	case entities.QuestionBool:
		folded := fold(val)
		switch {
		case contains(trueTokens, folded):
			return Verdict{Value: "true"}, nil
		case contains(falseTokens, folded):
			return Verdict{Value: "false"}, nil
		}
		return Verdict{}, &ValidationError{Code: CodeExpectedBool, Allowed: YesNo}

	case entities.QuestionChoice:
		if v, ok := matchOption(q, val); ok {
			return Verdict{Value: v}, nil
		}
		return Verdict{}, &ValidationError{Code: CodeExpectedOption, Allowed: q.OptionValues()}

	case entities.QuestionMulti:
		if IsDone(val) {
			return Verdict{Done: true}, nil
		}
		if v, ok := matchOption(q, val); ok {
			return Verdict{Value: v}, nil
		}
		return Verdict{}, &ValidationError{Code: CodeExpectedOption, Allowed: q.OptionValues()}

	default:
		return Verdict{}, &ValidationError{Code: CodeExpectedText}
	}
}

// IsDone reports whether s is the multi completion sentinel (any case).
func IsDone(s string) bool {
	return contains(doneTokens, fold(strings.TrimSpace(s)))
}

func matchOption(q *entities.Question, val string) (string, bool) {
	for _, o := range q.Options {
		if o.Value == val {
			return o.Value, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func canonicalDigits(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
