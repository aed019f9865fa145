package repository

import (
	"clever_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) ListByTest(ctx context.Context, testID uint) ([]model.Level, error) {
	var levels []model.Level
	err := r.DB.WithContext(ctx).Where("test_id = ?", testID).Order(byOrder()).Find(&levels).Error
	return levels, err
}

// Replace deletes every level of the test and inserts levels in its place.
func (r *LevelRepository) Replace(ctx context.Context, testID uint, levels []model.Level) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("test_id = ?", testID).Delete(&model.Level{}).Error; err != nil {
			return err
		}
		for i := range levels {
			levels[i].TestID = testID
		}
		if len(levels) == 0 {
			return nil
		}
		return tx.Create(&levels).Error
	})
}
