package entities

import "time"

// Seeded role names.
const (
	RoleAdministrator = "Administrator"
	RoleModerator     = "Moderator"
	RoleParticipant   = "Participant"
)

type Role struct {
	ID   uint
	Name string
}

// User may exist only as a chat identity (no Username / PasswordHash)
// or only as a login account (no ChatID).
type User struct {
	ID           uint
	Username     string
	PasswordHash string
	ChatID       string
	FullName     string
	RoleID       uint // 0 = no role
	Role         *Role
	IsActive     bool
	CreatedAt    time.Time
}

func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// DisplayName prefers the login name, then the full name, then the chat identity.
func (u *User) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.FullName != "":
		return u.FullName
	default:
		return u.ChatID
	}
}

// AuthSession records which user is logged in for a chat identity.
type AuthSession struct {
	ID        uint
	ChatID    string
	UserID    uint
	User      *User
	IsActive  bool
	CreatedAt time.Time
}
