package repository

import (
	"clever_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.DB.WithContext(ctx).Create(group).Error
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	if err := r.DB.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ExistsByName matches names case-insensitively.
func (r *GroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Group{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

func (r *GroupRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.WithContext(ctx).Where("created_by_id = ?", ownerID).Order("name asc").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) ListAll(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.WithContext(ctx).Order("name asc").Find(&groups).Error
	return groups, err
}

// FindOwnedByIDs returns the groups among ids that ownerID created.
func (r *GroupRepository) FindOwnedByIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Group, error) {
	var groups []model.Group
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.DB.WithContext(ctx).
		Where("id IN ? AND created_by_id = ?", ids, ownerID).
		Find(&groups).Error
	return groups, err
}
