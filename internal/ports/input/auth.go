package input

import (
	"context"

	"surveybot/internal/domain/entities"
)

type AuthUseCase interface {
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)
	Login(ctx context.Context, identity, username, password string) (*entities.User, error)
	SetActiveSession(ctx context.Context, identity string, userID uint) (*entities.AuthSession, error)
	GetActiveUser(ctx context.Context, identity string) (*entities.User, error)
	Logout(ctx context.Context, identity string) error
}

// Decision is the verdict of the role gate.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Principal is the resolved caller handed to every guarded handler.
type Principal struct {
	Identity string
	User     *entities.User
	Role     string
	Session  *entities.AuthSession
}

// GateUseCase maps (identity, required role) to a decision. An empty
// required role only asks for an active session.
type GateUseCase interface {
	Check(ctx context.Context, identity, requiredRole string) (Decision, Principal, error)
	Authorize(ctx context.Context, identity, requiredRole string) (Principal, error)
}
