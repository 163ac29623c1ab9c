package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"surveybot/internal/application"
	"surveybot/internal/infrastructure/crypto"
	"surveybot/internal/infrastructure/memory"
	"surveybot/internal/ports/input"
	pkgdiscord "surveybot/pkg/discord"
)

// keyT renders the message key followed by its data, so tests can assert on keys.
type keyT struct{}

func (keyT) T(_, key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	return fmt.Sprintf("%s%v", key, data)
}

type fixture struct {
	h    *Handler
	flow *application.FlowService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	meetings, responses, users, roles, sessions := store.Repositories()
	verifier := crypto.NewBcryptVerifier(bcrypt.MinCost)
	locks := application.NewIdentityLocks()
	auth := application.NewAuthService(users, sessions, verifier, locks)
	flow := application.NewFlowService(meetings, responses, users, auth, application.NewFillSessionStore(), locks)
	roleSvc := application.NewRoleService(roles, users, verifier)
	if _, err := roleSvc.EnsureAdmin(context.Background(), "admin", "admin-pw"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	h := NewHandler(flow, auth, application.NewGate(auth), application.NewMeetingService(meetings, responses, users), roleSvc, keyT{}, "ru")
	return &fixture{h: h, flow: flow}
}

func (f *fixture) say(t *testing.T, identity, text string) Reply {
	t.Helper()
	replies := f.h.Dispatch(context.Background(), Turn{Identity: identity, Text: text})
	if len(replies) != 1 {
		t.Fatalf("%q: %d replies", text, len(replies))
	}
	return replies[0]
}

func expectPrefix(t *testing.T, r Reply, prefix string) {
	t.Helper()
	if !strings.HasPrefix(r.Content, prefix) {
		t.Fatalf("reply = %q, want prefix %q", r.Content, prefix)
	}
}

// setupMeeting logs the admin in and creates an open meeting with an int and a choice question.
func (f *fixture) setupMeeting(t *testing.T) {
	t.Helper()
	expectPrefix(t, f.say(t, "admin-chat", "/login admin admin-pw"), "auth.login_ok")
	expectPrefix(t, f.say(t, "admin-chat", "/new_meeting Retro | Sprint 12 | R&D | FR | 2026-03-01"), "admin.meeting_created")
	expectPrefix(t, f.say(t, "admin-chat", "/add_q 1 | int | 0 | yes | How many?"), "admin.question_added")
	expectPrefix(t, f.say(t, "admin-chat", "/add_q 1 | choice | 1 | yes | Where? | Online, Offline"), "admin.question_added")
	expectPrefix(t, f.say(t, "admin-chat", "/open_meeting 1"), "admin.meeting_opened")
}

func TestDispatchUnknownAndHelp(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "u1", "/nope"), "unknown_command")
	expectPrefix(t, f.say(t, "u1", "/HELP"), "help.text")
	expectPrefix(t, f.say(t, "u1", "hello"), "❌ errors.no_active_fill")
}

func TestDispatchGates(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "anon", "/new_meeting Title"), "❌ errors.unauthenticated")
	expectPrefix(t, f.say(t, "anon", "/roles"), "❌ errors.unauthenticated")

	expectPrefix(t, f.say(t, "admin-chat", "/login admin admin-pw"), "auth.login_ok")
	expectPrefix(t, f.say(t, "admin-chat", "/adduser mod mod-pw 2"), "admin.user_created")
	expectPrefix(t, f.say(t, "admin-chat", "/adduser pat pat-pw 3"), "admin.user_created")

	expectPrefix(t, f.say(t, "pat-chat", "/login pat pat-pw"), "auth.login_ok")
	expectPrefix(t, f.say(t, "pat-chat", "/new_meeting Title"), "❌ errors.forbidden")

	expectPrefix(t, f.say(t, "mod-chat", "/login mod mod-pw"), "auth.login_ok")
	expectPrefix(t, f.say(t, "mod-chat", "/new_meeting Title"), "admin.meeting_created")
	expectPrefix(t, f.say(t, "mod-chat", "/addrole Auditor"), "❌ errors.forbidden")

	expectPrefix(t, f.say(t, "mod-chat", "/logout"), "auth.logout_ok")
	expectPrefix(t, f.say(t, "mod-chat", "/new_meeting Title"), "❌ errors.unauthenticated")
}

func TestDispatchLoginAndWhoami(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "u1", "/login admin"), "usage.login")
	expectPrefix(t, f.say(t, "u1", "/login admin wrong"), "❌ errors.invalid_credentials")
	expectPrefix(t, f.say(t, "u1", "/whoami"), "auth.whoami_anonymous")
	expectPrefix(t, f.say(t, "u1", "/login admin admin-pw"), "auth.login_ok")
	r := f.say(t, "u1", "/whoami")
	if !strings.Contains(r.Content, "Username:admin") || !strings.Contains(r.Content, "Role:Administrator") {
		t.Fatalf("whoami = %q", r.Content)
	}
}

func TestSurveyThroughComponents(t *testing.T) {
	f := newFixture(t)
	f.setupMeeting(t)
	ctx := context.Background()

	r := f.say(t, "p1", "/start")
	if len(r.Meetings) != 1 || r.Meetings[0].Title != "Retro" {
		t.Fatalf("start = %+v", r)
	}

	replies := f.h.HandleComponent(ctx, Turn{Identity: "p1"}, pkgdiscord.SelectMeetingID, []string{"1"})
	if len(replies) != 1 || replies[0].Meeting == nil || replies[0].Meeting.Department != "R&D" {
		t.Fatalf("select = %+v", replies)
	}
	expectPrefix(t, replies[0], "flow.question")

	r = f.say(t, "p1", "many")
	expectPrefix(t, r, "❌ errors.expected_int")
	if !strings.Contains(r.Content, "Index:1") {
		t.Fatalf("expected the same question again: %q", r.Content)
	}

	r = f.say(t, "p1", "12")
	if len(r.Suggestions) != 2 || r.Suggestions[0] != "Online" {
		t.Fatalf("choice prompt = %+v", r)
	}

	replies = f.h.HandleComponent(ctx, Turn{Identity: "p1"}, pkgdiscord.AnswerPrefix+"Offline", nil)
	if len(replies) != 1 {
		t.Fatalf("replies = %+v", replies)
	}
	expectPrefix(t, replies[0], "flow.completed")

	r = f.say(t, "admin-chat", "/export 1")
	if r.File == nil || r.File.Name != "meeting-1.json" {
		t.Fatalf("export = %+v", r)
	}
	var export input.MeetingExport
	if err := json.Unmarshal(r.File.Data, &export); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(export.Responses) != 1 || len(export.Responses[0].Answers) != 2 || export.Responses[0].Answers[1].Value != "Offline" {
		t.Fatalf("export = %+v", export)
	}
}

func TestDispatchStartWithoutMeetings(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "p1", "/start"), "flow.no_open_meetings")
	expectPrefix(t, f.say(t, "p1", "/start 42"), "❌ errors.meeting_not_open")
	expectPrefix(t, f.say(t, "p1", "/start abc"), "❌ errors.invalid_input")
	expectPrefix(t, f.say(t, "p1", "/cancel"), "flow.nothing_to_cancel")
}

func TestDispatchCancel(t *testing.T) {
	f := newFixture(t)
	f.setupMeeting(t)
	expectPrefix(t, f.say(t, "p1", "/start 1"), "flow.question")
	expectPrefix(t, f.say(t, "p1", "/cancel"), "flow.cancelled")
	expectPrefix(t, f.say(t, "p1", "7"), "❌ errors.no_active_fill")
}

func TestDispatchRoleAdministration(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "a", "/login admin admin-pw"), "auth.login_ok")

	r := f.say(t, "a", "/roles")
	if !strings.Contains(r.Content, "#1 Administrator") || !strings.Contains(r.Content, "#3 Participant") {
		t.Fatalf("roles = %q", r.Content)
	}
	expectPrefix(t, f.say(t, "a", "/addrole Auditor"), "admin.role_created")
	expectPrefix(t, f.say(t, "a", "/addrole Auditor"), "❌ errors.role_exists")
	expectPrefix(t, f.say(t, "a", "/renamerole 4"), "usage.renamerole")
	expectPrefix(t, f.say(t, "a", "/renamerole 4 Reviewer"), "admin.role_renamed")
	expectPrefix(t, f.say(t, "a", "/adduser bob bob-pw 3"), "admin.user_created")
	expectPrefix(t, f.say(t, "a", "/setrole bob 4"), "admin.role_set")
	expectPrefix(t, f.say(t, "a", "/delrole 4"), "❌ errors.role_in_use")
	expectPrefix(t, f.say(t, "a", "/setrole bob 3"), "admin.role_set")
	expectPrefix(t, f.say(t, "a", "/delrole 4"), "admin.role_deleted")
	expectPrefix(t, f.say(t, "a", "/setrole ghost 1"), "❌ errors.user_not_found")
	expectPrefix(t, f.say(t, "a", "/delrole"), "usage.id")
}

func TestDispatchAdminFormErrors(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "a", "/login admin admin-pw"), "auth.login_ok")
	expectPrefix(t, f.say(t, "a", "/new_meeting"), "usage.new_meeting")
	expectPrefix(t, f.say(t, "a", "/new_meeting T | | | | someday"), "❌ errors.invalid_input")
	expectPrefix(t, f.say(t, "a", "/add_q 1 | text"), "❌ errors.invalid_input")
	expectPrefix(t, f.say(t, "a", "/add_q 9 | text | 0 | yes | Q"), "❌ errors.meeting_not_found")
	expectPrefix(t, f.say(t, "a", "/open_meeting"), "usage.id")
	expectPrefix(t, f.say(t, "a", "/close_meeting 9"), "❌ errors.meeting_not_found")
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string]string
}

func (n *recordingNotifier) Notify(identity, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent[identity] = content
	return nil
}

func TestExpireFillsNotifies(t *testing.T) {
	f := newFixture(t)
	f.setupMeeting(t)
	expectPrefix(t, f.say(t, "p1", "/start 1"), "flow.question")

	n := &recordingNotifier{sent: map[string]string{}}
	if got := f.h.expireFills(n, time.Now().Add(-time.Hour)); len(got) != 0 {
		t.Fatalf("fresh fill expired: %v", got)
	}
	got := f.h.expireFills(n, time.Now().Add(time.Second))
	if len(got) != 1 || got[0] != "p1" || n.sent["p1"] != "flow.expired" {
		t.Fatalf("expired=%v sent=%v", got, n.sent)
	}
	if f.flow.InProgress("p1") {
		t.Fatal("fill should be gone")
	}
}

func TestRunScheduledTasksStops(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.h.RunScheduledTasks(ctx, nil, time.Millisecond, time.Hour) }()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRenderReply(t *testing.T) {
	f := newFixture(t)
	m := f.h.render("", Reply{Content: "hi", Suggestions: []string{"a", "b"}, File: &File{Name: "x.json", Data: []byte("{}")}})
	if m.content != "hi" || len(m.components) != 1 || len(m.files) != 1 || m.embeds != nil {
		t.Fatalf("message = %+v", m)
	}
	if send := m.send(); send.Content != "hi" || len(send.Files) != 1 {
		t.Fatalf("send = %+v", send)
	}
}

func TestStartResumesFillInProgress(t *testing.T) {
	f := newFixture(t)
	f.setupMeeting(t)
	expectPrefix(t, f.say(t, "p1", "/start 1"), "flow.question")
	f.say(t, "p1", "3")

	r := f.say(t, "p1", "/start")
	expectPrefix(t, r, "flow.resumed")
	if !strings.Contains(r.Content, "Index:2") || len(r.Meetings) != 0 {
		t.Fatalf("resume = %+v", r)
	}
}

func TestDispatchMyResponses(t *testing.T) {
	f := newFixture(t)
	expectPrefix(t, f.say(t, "p1", "/my"), "my.none")

	f.setupMeeting(t)
	expectPrefix(t, f.say(t, "p1", "/start 1"), "flow.question")
	expectPrefix(t, f.say(t, "p1", "7"), "flow.question")

	r := f.say(t, "p1", "/my")
	expectPrefix(t, r, "my.header")
	if !strings.Contains(r.Content, "Status:my.draft") || !strings.Contains(r.Content, "Answers:1") {
		t.Fatalf("draft listing = %q", r.Content)
	}

	f.say(t, "p1", "Online")
	r = f.say(t, "p1", "/my")
	if !strings.Contains(r.Content, "Status:my.submitted") || !strings.Contains(r.Content, "Answers:2") || !strings.Contains(r.Content, "Title:Retro") {
		t.Fatalf("submitted listing = %q", r.Content)
	}
	expectPrefix(t, f.say(t, "p2", "/my"), "my.none")
}
