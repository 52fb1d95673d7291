package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/session"
)

type PermissionRepository interface {
	ListGrants(ctx context.Context, userID uuid.UUID) ([]model.PermissionGrant, error)
	ReplaceGrants(ctx context.Context, userID uuid.UUID, grants []model.PermissionGrant) error
}

// PermissionService answers "may this session do action on module". Grants are read on every call.
type PermissionService struct {
	repo PermissionRepository
}

func NewPermissionService(repo PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

func (s *PermissionService) Resolve(ctx context.Context, sess session.Context, module string) (model.ModulePermissions, error) {
	module = strings.TrimSpace(module)
	perms := model.ModulePermissions{Module: module}

	if sess.IsAdminGeral() {
		perms.View, perms.Edit, perms.Delete, perms.Create = true, true, true, true
		return perms, nil
	}
	if !sess.Authenticated() {
		return perms, nil
	}

	grants, err := s.repo.ListGrants(ctx, sess.UserID())
	if err != nil {
		return perms, err
	}
	for _, grant := range grants {
		if grant.Modulo != module {
			continue
		}
		switch grant.Acao {
		case model.ActionView:
			perms.View = true
		case model.ActionEdit:
			perms.Edit = true
		case model.ActionDelete:
			perms.Delete = true
		case model.ActionCreate:
			perms.Create = true
		}
	}
	return perms, nil
}

func (s *PermissionService) Allowed(ctx context.Context, sess session.Context, module string, action model.Action) (bool, error) {
	perms, err := s.Resolve(ctx, sess, module)
	if err != nil {
		return false, err
	}
	return perms.Allows(action), nil
}
