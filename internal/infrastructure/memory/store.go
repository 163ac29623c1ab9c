// Package memory keeps every repository in process memory. It backs STORAGE=memory
// and the application tests.
package memory

import (
	"sync"
	"time"

	"surveybot/internal/domain/entities"
)

// Store is the shared state behind the memory repositories. Cross-table rules
// (cascades, role joins) are applied under a single lock.
type Store struct {
	mu  sync.Mutex
	now func() time.Time
	seq map[string]uint

	meetings  map[uint]*entities.Meeting
	questions map[uint]*entities.Question
	responses map[uint]*entities.Response
	answers   map[uint]*entities.Answer
	users     map[uint]*entities.User
	roles     map[uint]*entities.Role
	sessions  map[uint]*entities.AuthSession
}

// NewStore returns an empty store seeded with the three built-in roles.
func NewStore() *Store {
	s := &Store{
		now:       func() time.Time { return time.Now().UTC() },
		seq:       make(map[string]uint),
		meetings:  make(map[uint]*entities.Meeting),
		questions: make(map[uint]*entities.Question),
		responses: make(map[uint]*entities.Response),
		answers:   make(map[uint]*entities.Answer),
		users:     make(map[uint]*entities.User),
		roles:     make(map[uint]*entities.Role),
		sessions:  make(map[uint]*entities.AuthSession),
	}
	for _, name := range []string{entities.RoleAdministrator, entities.RoleModerator, entities.RoleParticipant} {
		id := s.nextID(tableRoles)
		s.roles[id] = &entities.Role{ID: id, Name: name}
	}
	return s
}

const (
	tableMeetings  = "meetings"
	tableQuestions = "questions"
	tableOptions   = "options"
	tableResponses = "responses"
	tableAnswers   = "answers"
	tableUsers     = "users"
	tableRoles     = "roles"
	tableSessions  = "sessions"
)

// nextID mimics a per-table identity column. Callers hold mu.
func (s *Store) nextID(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

// Repositories returns every repository bound to s.
func (s *Store) Repositories() (*MeetingRepository, *ResponseRepository, *UserRepository, *RoleRepository, *AuthSessionRepository) {
	return &MeetingRepository{s: s}, &ResponseRepository{s: s}, &UserRepository{s: s}, &RoleRepository{s: s}, &AuthSessionRepository{s: s}
}

// userCopy returns a detached copy of u with its role attached. Callers hold mu.
func (s *Store) userCopy(u *entities.User) *entities.User {
	out := *u
	if r, ok := s.roles[u.RoleID]; ok {
		rc := *r
		out.Role = &rc
	} else {
		out.Role = nil
	}
	return &out
}

// DumpResponses returns a snapshot of every response.
func (s *Store) DumpResponses() []entities.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.Response, 0, len(s.responses))
	for _, r := range s.responses {
		out = append(out, *r)
	}
	return out
}
