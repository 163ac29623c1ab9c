package memory

import (
	"context"
	"sort"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/output"
)

var (
	_ output.UserRepository        = (*UserRepository)(nil)
	_ output.RoleRepository        = (*RoleRepository)(nil)
	_ output.AuthSessionRepository = (*AuthSessionRepository)(nil)
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if user.Username != "" && u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	if _, ok := r.s.roles[user.RoleID]; !ok {
		return domain.ErrRoleNotFound
	}
	user.ID = r.s.nextID(tableUsers)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.now()
	}
	u := *user
	u.Role = nil
	r.s.users[u.ID] = &u
	user.Role = r.s.userCopy(&u).Role
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.s.userCopy(u), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if username != "" && u.Username == username {
			return r.s.userCopy(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetOrCreateByChatID returns the user bound to chatID, creating a Participant.
func (r *UserRepository) GetOrCreateByChatID(_ context.Context, chatID, fullName string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ChatID == chatID {
			return r.s.userCopy(u), nil
		}
	}
	var roleID uint
	for _, role := range r.s.roles {
		if role.Name == entities.RoleParticipant {
			roleID = role.ID
		}
	}
	if roleID == 0 {
		return nil, domain.ErrRoleNotFound
	}
	u := &entities.User{
		ID:        r.s.nextID(tableUsers),
		ChatID:    chatID,
		FullName:  fullName,
		RoleID:    roleID,
		IsActive:  true,
		CreatedAt: r.s.now(),
	}
	r.s.users[u.ID] = u
	return r.s.userCopy(u), nil
}

func (r *UserRepository) SetRole(_ context.Context, userID, roleID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := r.s.roles[roleID]; !ok {
		return domain.ErrRoleNotFound
	}
	u.RoleID = roleID
	return nil
}

func (r *UserRepository) CountByRole(_ context.Context, roleID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

type RoleRepository struct {
	s *Store
}

func (r *RoleRepository) List(_ context.Context) ([]entities.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		out = append(out, *role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepository) FindByID(_ context.Context, id uint) (*entities.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	out := *role
	return &out, nil
}

func (r *RoleRepository) FindByName(_ context.Context, name string) (*entities.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			out := *role
			return &out, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *RoleRepository) Create(_ context.Context, role *entities.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.roles {
		if existing.Name == role.Name {
			return domain.ErrRoleExists
		}
	}
	role.ID = r.s.nextID(tableRoles)
	rc := *role
	r.s.roles[rc.ID] = &rc
	return nil
}

func (r *RoleRepository) Rename(_ context.Context, id uint, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return domain.ErrRoleNotFound
	}
	role.Name = name
	return nil
}

func (r *RoleRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	for _, u := range r.s.users {
		if u.RoleID == id {
			return domain.ErrRoleInUse
		}
	}
	delete(r.s.roles, id)
	return nil
}

type AuthSessionRepository struct {
	s *Store
}

func (r *AuthSessionRepository) Activate(_ context.Context, chatID string, userID uint) (*entities.AuthSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, sess := range r.s.sessions {
		if sess.ChatID == chatID {
			sess.IsActive = false
		}
	}
	sess := &entities.AuthSession{
		ID:        r.s.nextID(tableSessions),
		ChatID:    chatID,
		UserID:    userID,
		IsActive:  true,
		CreatedAt: r.s.now(),
	}
	r.s.sessions[sess.ID] = sess
	out := *sess
	out.User = r.s.userCopy(u)
	return &out, nil
}

func (r *AuthSessionRepository) FindActive(_ context.Context, chatID string) (*entities.AuthSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entities.AuthSession
	for _, sess := range r.s.sessions {
		if sess.ChatID != chatID || !sess.IsActive {
			continue
		}
		if best == nil || sess.ID > best.ID {
			best = sess
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	if u, ok := r.s.users[best.UserID]; ok {
		out.User = r.s.userCopy(u)
	}
	return &out, nil
}

func (r *AuthSessionRepository) DeactivateAll(_ context.Context, chatID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sess := range r.s.sessions {
		if sess.ChatID == chatID {
			sess.IsActive = false
		}
	}
	return nil
}

// ActiveCount reports the active sessions of chatID.
func (r *AuthSessionRepository) ActiveCount(chatID string) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sess := range r.s.sessions {
		if sess.ChatID == chatID && sess.IsActive {
			n++
		}
	}
	return n
}
