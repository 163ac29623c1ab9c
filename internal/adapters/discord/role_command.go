package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"surveybot/internal/ports/input"
	pkgdiscord "surveybot/pkg/discord"
)

func (h *Handler) cmdRoles(ctx context.Context, turn Turn, _ string, _ input.Principal) []Reply {
	roles, err := h.roles.ListRoles(ctx)
	if err != nil {
		return h.fail(turn, err)
	}
	var b strings.Builder
	b.WriteString(h.t.T(turn.Locale, "admin.roles_header", nil))
	for _, r := range roles {
		fmt.Fprintf(&b, "\n#%d %s", r.ID, r.Name)
	}
	return []Reply{{Content: b.String()}}
}

func (h *Handler) cmdAddRole(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	if args == "" {
		return h.text(turn, "usage.addrole", nil)
	}
	r, err := h.roles.CreateRole(ctx, args)
	if err != nil {
		return h.fail(turn, err)
	}
	return h.text(turn, "admin.role_created", map[string]any{"ID": r.ID, "Name": r.Name})
}

func (h *Handler) cmdRenameRole(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	idStr, name, ok := strings.Cut(args, " ")
	if !ok || strings.TrimSpace(name) == "" {
		return h.text(turn, "usage.renamerole", nil)
	}
	id, err := pkgdiscord.ParseID(idStr)
	if err != nil {
		return h.fail(turn, err)
	}
	name = strings.TrimSpace(name)
	if err := h.roles.RenameRole(ctx, id, name); err != nil {
		return h.fail(turn, err)
	}
	return h.text(turn, "admin.role_renamed", map[string]any{"ID": id, "Name": name})
}

func (h *Handler) cmdDeleteRole(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	if args == "" {
		return h.text(turn, "usage.id", map[string]any{"Command": "/delrole"})
	}
	id, err := pkgdiscord.ParseID(args)
	if err != nil {
		return h.fail(turn, err)
	}
	if err := h.roles.DeleteRole(ctx, id); err != nil {
		return h.fail(turn, err)
	}
	return h.text(turn, "admin.role_deleted", map[string]any{"ID": id})
}

func (h *Handler) cmdSetRole(ctx context.Context, turn Turn, args string, p input.Principal) []Reply {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return h.text(turn, "usage.setrole", nil)
	}
	roleID, err := pkgdiscord.ParseID(fields[1])
	if err != nil {
		return h.fail(turn, err)
	}
	if err := h.roles.SetUserRole(ctx, fields[0], roleID); err != nil {
		return h.fail(turn, err)
	}
	log.Printf("👤 Rôle #%d attribué à %s par %s", roleID, fields[0], p.User.DisplayName())
	return h.text(turn, "admin.role_set", map[string]any{"Username": fields[0], "RoleID": roleID})
}

func (h *Handler) cmdAddUser(ctx context.Context, turn Turn, args string, _ input.Principal) []Reply {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return h.text(turn, "usage.adduser", nil)
	}
	roleID, err := pkgdiscord.ParseID(fields[2])
	if err != nil {
		return h.fail(turn, err)
	}
	u, err := h.roles.CreateUser(ctx, fields[0], fields[1], roleID)
	if err != nil {
		return h.fail(turn, err)
	}
	return h.text(turn, "admin.user_created", map[string]any{"Username": u.Username})
}
