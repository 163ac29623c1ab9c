package input

import (
	"context"

	"surveybot/internal/domain/entities"
)

type RoleUseCase interface {
	ListRoles(ctx context.Context) ([]entities.Role, error)
	CreateRole(ctx context.Context, name string) (*entities.Role, error)
	RenameRole(ctx context.Context, id uint, name string) error
	DeleteRole(ctx context.Context, id uint) error
	SetUserRole(ctx context.Context, username string, roleID uint) error
	CreateUser(ctx context.Context, username, password string, roleID uint) (*entities.User, error)
	EnsureAdmin(ctx context.Context, username, password string) (*entities.User, error)
}
