package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
	"surveybot/internal/ports/output"
)

var _ input.RoleUseCase = (*RoleService)(nil)

type RoleService struct {
	roles    output.RoleRepository
	users    output.UserRepository
	verifier output.CredentialVerifier
}

func NewRoleService(
	roles output.RoleRepository,
	users output.UserRepository,
	verifier output.CredentialVerifier,
) *RoleService {
	return &RoleService{
		roles:    roles,
		users:    users,
		verifier: verifier,
	}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]entities.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return roles, nil
}

func (s *RoleService) CreateRole(ctx context.Context, name string) (*entities.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("role name is empty")
	}
	if _, err := s.roles.FindByName(ctx, name); err == nil {
		return nil, domain.ErrRoleExists
	} else if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, storageErr(err)
	}
	r := &entities.Role{Name: name}
	if err := s.roles.Create(ctx, r); err != nil {
		return nil, storageErr(err)
	}
	return r, nil
}

func (s *RoleService) RenameRole(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Invalid("role name is empty")
	}
	if existing, err := s.roles.FindByName(ctx, name); err == nil && existing.ID != id {
		return domain.ErrRoleExists
	}
	if err := s.roles.Rename(ctx, id, name); err != nil {
		return storageErr(err)
	}
	return nil
}

// DeleteRole refuses to delete a role that users still reference.
func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return storageErr(err)
	}
	used, err := s.users.CountByRole(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if used > 0 {
		return fmt.Errorf("%w: %d user(s)", domain.ErrRoleInUse, used)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *RoleService) SetUserRole(ctx context.Context, username string, roleID uint) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return storageErr(err)
	}
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return storageErr(err)
	}
	if err := s.users.SetRole(ctx, u.ID, roleID); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *RoleService) CreateUser(ctx context.Context, username, password string, roleID uint) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.Invalid("username and password are required")
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, storageErr(err)
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storageErr(err)
	}
	hash, err := s.verifier.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entities.User{
		Username:     username,
		PasswordHash: hash,
		RoleID:       role.ID,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storageErr(err)
	}
	return u, nil
}

// EnsureAdmin makes sure the bootstrap administrator account exists. An
// existing account is left untouched.
func (s *RoleService) EnsureAdmin(ctx context.Context, username, password string) (*entities.User, error) {
	role, err := s.roles.FindByName(ctx, entities.RoleAdministrator)
	if errors.Is(err, domain.ErrRoleNotFound) {
		role = &entities.Role{Name: entities.RoleAdministrator}
		err = s.roles.Create(ctx, role)
	}
	if err != nil {
		return nil, storageErr(err)
	}
	if u, err := s.users.FindByUsername(ctx, username); err == nil {
		return u, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storageErr(err)
	}
	return s.CreateUser(ctx, username, password, role.ID)
}
