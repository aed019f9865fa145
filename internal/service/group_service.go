package service

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/util"
	"clever_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type GroupService struct {
	Groups GroupStore
}

func NewGroupService(groups GroupStore) *GroupService {
	return &GroupService{Groups: groups}
}

// Create adds a group owned by the teacher. Names are trimmed and compared
// without regard to case.
func (s *GroupService) Create(ctx context.Context, p grading.Principal, req CreateGroupRequest) (*model.Group, error) {
	if p.Role != grading.RoleTeacher {
		return nil, util.ErrAccessDenied
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is empty", util.ErrInvalidInput)
	}

	exists, err := s.Groups.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrGroupExists
	}

	group := &model.Group{Name: name, CreatedByID: p.UserID}
	if err := s.Groups.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrGroupExists
		}
		return nil, err
	}

	logger.Log.Info("group created", zap.Uint("group_id", group.ID), zap.Uint("teacher_id", p.UserID))
	return group, nil
}

func (s *GroupService) ListOwned(ctx context.Context, p grading.Principal) ([]model.Group, error) {
	if p.Role != grading.RoleTeacher {
		return nil, util.ErrAccessDenied
	}
	return s.Groups.ListByOwner(ctx, p.UserID)
}

// ListAll is the public listing shown on the registration form.
func (s *GroupService) ListAll(ctx context.Context) ([]model.Group, error) {
	return s.Groups.ListAll(ctx)
}
