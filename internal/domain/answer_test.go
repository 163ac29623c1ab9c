package domain

import (
	"errors"
	"testing"

	"surveybot/internal/domain/entities"
)

func question(t entities.QuestionType, required bool, options ...string) *entities.Question {
	q := &entities.Question{ID: 1, Type: t, IsRequired: required}
	for i, o := range options {
		q.Options = append(q.Options, entities.Option{ID: uint(i + 1), QuestionID: 1, Value: o})
	}
	return q
}

func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name     string
		q        *entities.Question
		raw      string
		want     Verdict
		wantCode string
	}{
		{"text trimmed", question(entities.QuestionText, true), "  hello  ", Verdict{Value: "hello"}, ""},
		{"text empty", question(entities.QuestionText, true), "   ", Verdict{}, CodeExpectedText},
		{"text dash on required is text", question(entities.QuestionText, true), "-", Verdict{Value: "-"}, ""},
		{"int digits", question(entities.QuestionInt, true), " 42 ", Verdict{Value: "42"}, ""},
		{"int leading zeros", question(entities.QuestionInt, true), "007", Verdict{Value: "7"}, ""},
		{"int zero", question(entities.QuestionInt, true), "000", Verdict{Value: "0"}, ""},
		{"int letters", question(entities.QuestionInt, true), "abc", Verdict{}, CodeExpectedInt},
		{"int negative", question(entities.QuestionInt, true), "-3", Verdict{}, CodeExpectedInt},
		{"int non ascii digits", question(entities.QuestionInt, true), "٣", Verdict{}, CodeExpectedInt},
		{"bool da", question(entities.QuestionBool, true), "Да", Verdict{Value: "true"}, ""},
		{"bool YES", question(entities.QuestionBool, true), "YES", Verdict{Value: "true"}, ""},
		{"bool 1", question(entities.QuestionBool, true), "1", Verdict{Value: "true"}, ""},
		{"bool net", question(entities.QuestionBool, true), "НЕТ", Verdict{Value: "false"}, ""},
		{"bool false", question(entities.QuestionBool, true), "False", Verdict{Value: "false"}, ""},
		{"bool junk", question(entities.QuestionBool, true), "maybe", Verdict{}, CodeExpectedBool},
		{"choice exact", question(entities.QuestionChoice, true, "Online", "Offline"), " Online ", Verdict{Value: "Online"}, ""},
		{"choice case sensitive", question(entities.QuestionChoice, true, "Online"), "online", Verdict{}, CodeExpectedOption},
		{"multi option", question(entities.QuestionMulti, true, "A", "B"), "B", Verdict{Value: "B"}, ""},
		{"multi done", question(entities.QuestionMulti, true, "A"), "DONE", Verdict{Done: true}, ""},
		{"multi gotovo", question(entities.QuestionMulti, true, "A"), "Готово", Verdict{Done: true}, ""},
		{"multi unknown", question(entities.QuestionMulti, true, "A"), "C", Verdict{}, CodeExpectedOption},
		{"optional skip", question(entities.QuestionInt, false), " - ", Verdict{Skip: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAnswer(tt.q, tt.raw)
			if tt.wantCode != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Code != tt.wantCode {
					t.Fatalf("code = %q, want %q", verr.Code, tt.wantCode)
				}
				if KindOf(err) != KindValidation {
					t.Fatalf("KindOf = %q", KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("verdict = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateAnswerEmptyOptionDomain(t *testing.T) {
	for _, qt := range []entities.QuestionType{entities.QuestionChoice, entities.QuestionMulti} {
		_, err := ValidateAnswer(question(qt, true), "anything")
		if !errors.Is(err, ErrEmptyOptions) {
			t.Fatalf("%s: expected ErrEmptyOptions, got %v", qt, err)
		}
		if KindOf(err) != KindConfiguration {
			t.Fatalf("%s: kind = %q", qt, KindOf(err))
		}
	}
}

func TestValidationErrorListsAllowedValues(t *testing.T) {
	_, err := ValidateAnswer(question(entities.QuestionChoice, true, "X", "Y"), "Z")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Allowed) != 2 || verr.Allowed[0] != "X" || verr.Allowed[1] != "Y" {
		t.Fatalf("allowed = %v", verr.Allowed)
	}
}

func TestRepositoryErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Repository(cause)
	if !errors.Is(err, ErrRepository) || !errors.Is(err, cause) {
		t.Fatalf("chain lost: %v", err)
	}
	if KindOf(err) != KindRepository || Code(err) != "storage_unavailable" {
		t.Fatalf("kind=%q code=%q", KindOf(err), Code(err))
	}
	if Repository(nil) != nil {
		t.Fatal("Repository(nil) should be nil")
	}
}

func TestEndsFill(t *testing.T) {
	if !EndsFill(ErrNoQuestions) || !EndsFill(ErrMeetingUnavailable) {
		t.Fatal("configuration and session errors end the fill")
	}
	if EndsFill(&ValidationError{Code: CodeExpectedInt}) || EndsFill(Repository(errors.New("x"))) {
		t.Fatal("validation and repository errors keep the fill")
	}
}
