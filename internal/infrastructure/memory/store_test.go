package memory

import (
	"context"
	"errors"
	"testing"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
)

func TestNewStoreSeedsRoles(t *testing.T) {
	_, _, _, roles, _ := NewStore().Repositories()
	list, err := roles.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{entities.RoleAdministrator, entities.RoleModerator, entities.RoleParticipant}
	if len(list) != len(want) {
		t.Fatalf("got %d roles, want %d", len(list), len(want))
	}
	for i, r := range list {
		if r.ID != uint(i+1) || r.Name != want[i] {
			t.Errorf("role %d = %+v", i, r)
		}
	}
}

func TestMeetingDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	meetings, responses, users, _, _ := s.Repositories()

	m := &entities.Meeting{Title: "Retro"}
	if err := meetings.Create(ctx, m); err != nil {
		t.Fatal(err)
	}
	q := &entities.Question{MeetingID: m.ID, Text: "Mood?", Type: entities.QuestionText}
	if err := meetings.AddQuestion(ctx, q); err != nil {
		t.Fatal(err)
	}
	u, err := users.GetOrCreateByChatID(ctx, "chat-1", "Ann")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := responses.GetOrCreate(ctx, u.ID, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := responses.SaveAnswer(ctx, resp.ID, q.ID, "fine"); err != nil {
		t.Fatal(err)
	}

	if err := meetings.Delete(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := meetings.FindByID(ctx, m.ID); !errors.Is(err, domain.ErrMeetingNotFound) {
		t.Errorf("FindByID after delete: %v", err)
	}
	if _, err := responses.FindByID(ctx, resp.ID); !errors.Is(err, domain.ErrResponseNotFound) {
		t.Errorf("response survived delete: %v", err)
	}
	if len(s.answers) != 0 || len(s.questions) != 0 {
		t.Errorf("answers=%d questions=%d after delete", len(s.answers), len(s.questions))
	}
}

func TestSaveAnswerUpserts(t *testing.T) {
	ctx := context.Background()
	meetings, responses, users, _, _ := NewStore().Repositories()
	m := &entities.Meeting{Title: "Poll"}
	_ = meetings.Create(ctx, m)
	q := &entities.Question{MeetingID: m.ID, Text: "Q", Type: entities.QuestionText}
	_ = meetings.AddQuestion(ctx, q)
	u, _ := users.GetOrCreateByChatID(ctx, "c", "")
	resp, _ := responses.GetOrCreate(ctx, u.ID, m.ID)

	first, _ := responses.SaveAnswer(ctx, resp.ID, q.ID, "a")
	second, _ := responses.SaveAnswer(ctx, resp.ID, q.ID, "b")
	if first.ID != second.ID {
		t.Errorf("upsert created a second answer: %d vs %d", first.ID, second.ID)
	}
	answers, _ := responses.ListAnswers(ctx, resp.ID)
	if len(answers) != 1 || answers[0].Value != "b" {
		t.Errorf("answers = %+v", answers)
	}

	again, _ := responses.GetOrCreate(ctx, u.ID, m.ID)
	if again.ID != resp.ID {
		t.Errorf("GetOrCreate returned a new response %d, want %d", again.ID, resp.ID)
	}
}

func TestActivateKeepsOneActiveSession(t *testing.T) {
	ctx := context.Background()
	_, _, users, _, sessions := NewStore().Repositories()
	a := &entities.User{Username: "a", RoleID: 1}
	b := &entities.User{Username: "b", RoleID: 3}
	if err := users.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := users.Create(ctx, b); err != nil {
		t.Fatal(err)
	}

	if _, err := sessions.Activate(ctx, "chat", a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := sessions.Activate(ctx, "chat", b.ID); err != nil {
		t.Fatal(err)
	}
	if n := sessions.ActiveCount("chat"); n != 1 {
		t.Fatalf("active sessions = %d, want 1", n)
	}
	sess, err := sessions.FindActive(ctx, "chat")
	if err != nil || sess == nil {
		t.Fatalf("FindActive = %v, %v", sess, err)
	}
	if sess.UserID != b.ID || sess.User.RoleName() != entities.RoleParticipant {
		t.Errorf("active session = %+v", sess)
	}

	if err := sessions.DeactivateAll(ctx, "chat"); err != nil {
		t.Fatal(err)
	}
	if sess, _ := sessions.FindActive(ctx, "chat"); sess != nil {
		t.Errorf("session still active after DeactivateAll: %+v", sess)
	}
}

func TestUserCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	_, _, users, roles, _ := NewStore().Repositories()
	if err := users.Create(ctx, &entities.User{Username: "x", RoleID: 3}); err != nil {
		t.Fatal(err)
	}
	if err := users.Create(ctx, &entities.User{Username: "x", RoleID: 3}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate username: %v", err)
	}
	if err := users.Create(ctx, &entities.User{Username: "y", RoleID: 99}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Errorf("unknown role: %v", err)
	}
	if err := roles.Delete(ctx, 3); !errors.Is(err, domain.ErrRoleInUse) {
		t.Errorf("delete used role: %v", err)
	}
}
