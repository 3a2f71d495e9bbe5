package service

import (
	"context"
	"fmt"

	"github.com/qs3c/blog_server/internal/model"
	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
	"github.com/qs3c/blog_server/internal/repository"
)

type RoleService struct {
	roleRepo *repository.RoleRepository
	events   *Notifier
}

func NewRoleService(roleRepo *repository.RoleRepository, events *Notifier) *RoleService {
	return &RoleService{roleRepo: roleRepo, events: events}
}

func (s *RoleService) List(ctx context.Context) ([]*dto.RoleItem, error) {
	roles, err := s.roleRepo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, ErrRoleNotFound
	}
	return buildRoleItems(roles), nil
}

func (s *RoleService) Get(ctx context.Context, id int64) (*dto.RoleItem, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoleNotFound)
	}
	return buildRoleItem(role), nil
}

func (s *RoleService) Create(ctx context.Context, reqs []dto.RoleCreate) ([]*dto.RoleItem, error) {
	roles := make([]*model.Role, 0, len(reqs))
	for _, req := range reqs {
		roles = append(roles, &model.Role{Name: req.Name, Description: req.Description})
	}

	if err := s.roleRepo.CreateBatch(ctx, roles); err != nil {
		return nil, fmt.Errorf("create roles: %w", err)
	}

	s.events.notify(ctx, ResourceRole, pubsub.ActionCreated, idsOf(roles, func(r *model.Role) int64 { return r.ID })...)
	return buildRoleItems(roles), nil
}

func (s *RoleService) Update(ctx context.Context, id int64, req *dto.RoleUpdate) (*dto.RoleItem, error) {
	if _, err := s.roleRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, ErrRoleNotFound)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}

	if len(fields) > 0 {
		if err := s.roleRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update role %d: %w", id, err)
		}
		s.events.notify(ctx, ResourceRole, pubsub.ActionUpdated, id)
	}
	return s.Get(ctx, id)
}

// Delete 删除角色，用户保留
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrRoleNotFound)
	}
	s.events.notify(ctx, ResourceRole, pubsub.ActionDeleted, id)
	return nil
}

func buildRoleItems(roles []*model.Role) []*dto.RoleItem {
	items := make([]*dto.RoleItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, buildRoleItem(r))
	}
	return items
}
