package application

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"surveybot/internal/domain/entities"
	"surveybot/internal/infrastructure/crypto"
	"surveybot/internal/infrastructure/memory"
	"surveybot/internal/ports/input"
)

type testEnv struct {
	store     *memory.Store
	meetings  *memory.MeetingRepository
	responses *memory.ResponseRepository
	users     *memory.UserRepository
	roles     *memory.RoleRepository
	sessions  *memory.AuthSessionRepository

	locks   *IdentityLocks
	fills   *FillSessionStore
	auth    *AuthService
	gate    *Gate
	flow    *FlowService
	meeting *MeetingService
	roleSvc *RoleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	meetings, responses, users, roles, sessions := store.Repositories()
	verifier := crypto.NewBcryptVerifier(bcrypt.MinCost)
	locks := NewIdentityLocks()
	fills := NewFillSessionStore()
	auth := NewAuthService(users, sessions, verifier, locks)
	return &testEnv{
		store:     store,
		meetings:  meetings,
		responses: responses,
		users:     users,
		roles:     roles,
		sessions:  sessions,
		locks:     locks,
		fills:     fills,
		auth:      auth,
		gate:      NewGate(auth),
		flow:      NewFlowService(meetings, responses, users, auth, fills, locks),
		meeting:   NewMeetingService(meetings, responses, users),
		roleSvc:   NewRoleService(roles, users, verifier),
	}
}

type questionDef struct {
	qtype    entities.QuestionType
	required bool
	text     string
	options  []string
}

// openMeeting creates an open meeting with the given questions, in order.
func (e *testEnv) openMeeting(t *testing.T, questions ...questionDef) *entities.Meeting {
	t.Helper()
	ctx := context.Background()
	m, err := e.meeting.CreateMeeting(ctx, 0, input.MeetingDraft{Title: "Weekly sync"})
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	for i, q := range questions {
		text := q.text
		if text == "" {
			text = string(q.qtype) + " question"
		}
		_, err := e.meeting.AddQuestion(ctx, input.QuestionDraft{
			MeetingID: m.ID,
			Type:      string(q.qtype),
			OrderIdx:  i,
			Required:  q.required,
			Text:      text,
			Options:   q.options,
		})
		if err != nil {
			t.Fatalf("add question %d: %v", i, err)
		}
	}
	if err := e.meeting.OpenMeeting(ctx, m.ID); err != nil {
		t.Fatalf("open meeting: %v", err)
	}
	full, err := e.meetings.FindByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("reload meeting: %v", err)
	}
	return full
}

func (e *testEnv) roleID(t *testing.T, name string) uint {
	t.Helper()
	r, err := e.roles.FindByName(context.Background(), name)
	if err != nil {
		t.Fatalf("role %s: %v", name, err)
	}
	return r.ID
}

func (e *testEnv) createUser(t *testing.T, username, password, role string) *entities.User {
	t.Helper()
	u, err := e.roleSvc.CreateUser(context.Background(), username, password, e.roleID(t, role))
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}
