package application

import (
	"context"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
)

var _ input.GateUseCase = (*Gate)(nil)

type activeSessionSource interface {
	ActiveSession(ctx context.Context, identity string) (*entities.AuthSession, error)
}

// Gate is the role gate in front of privileged commands. It never mutates sessions.
type Gate struct {
	sessions activeSessionSource
}

func NewGate(sessions activeSessionSource) *Gate {
	return &Gate{sessions: sessions}
}

// Decide applies the role rule: administrators pass every gate, everybody
// else needs the exact role. An empty required role accepts any role.
func Decide(roleName, requiredRole string) input.Decision {
	if roleName == entities.RoleAdministrator || requiredRole == "" || roleName == requiredRole {
		return input.Allow
	}
	return input.Forbidden
}

func (g *Gate) Check(ctx context.Context, identity, requiredRole string) (input.Decision, input.Principal, error) {
	p := input.Principal{Identity: identity}
	sess, err := g.sessions.ActiveSession(ctx, identity)
	if err != nil {
		return input.Unauthenticated, p, err
	}
	if sess == nil || sess.User == nil || !sess.User.IsActive {
		return input.Unauthenticated, p, nil
	}
	p.Session = sess
	p.User = sess.User
	p.Role = sess.User.RoleName()
	return Decide(p.Role, requiredRole), p, nil
}

// Authorize is Check with the denials turned into domain errors.
func (g *Gate) Authorize(ctx context.Context, identity, requiredRole string) (input.Principal, error) {
	d, p, err := g.Check(ctx, identity, requiredRole)
	if err != nil {
		return p, err
	}
	switch d {
	case input.Allow:
		return p, nil
	case input.Unauthenticated:
		return p, domain.ErrUnauthenticated
	case input.Forbidden:
		return p, domain.ErrForbidden
	default:
		return p, domain.ErrForbidden
	}
}
