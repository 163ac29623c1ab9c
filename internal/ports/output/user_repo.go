package output

import (
	"context"

	"surveybot/internal/domain/entities"
)

// UserRepository loads users with their role attached.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	GetOrCreateByChatID(ctx context.Context, chatID, fullName string) (*entities.User, error)
	SetRole(ctx context.Context, userID, roleID uint) error
	CountByRole(ctx context.Context, roleID uint) (int64, error)
}

type RoleRepository interface {
	List(ctx context.Context) ([]entities.Role, error)
	FindByID(ctx context.Context, id uint) (*entities.Role, error)
	FindByName(ctx context.Context, name string) (*entities.Role, error)
	Create(ctx context.Context, role *entities.Role) error
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

// AuthSessionRepository owns the auth session table.
type AuthSessionRepository interface {
	// Activate deactivates every active session of chatID and inserts a new active one, atomically.
	Activate(ctx context.Context, chatID string, userID uint) (*entities.AuthSession, error)
	// FindActive returns the most recent active session with its user and role, or nil when there is none.
	FindActive(ctx context.Context, chatID string) (*entities.AuthSession, error)
	DeactivateAll(ctx context.Context, chatID string) error
}
