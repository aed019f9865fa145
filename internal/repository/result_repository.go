package repository

import (
	"clever_backend/internal/model"
	"clever_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Exists(ctx context.Context, testID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.TestResult{}).
		Where("test_id = ? AND student_id = ?", testID, studentID).
		Count(&count).Error
	return count > 0, err
}

// CreateWithAnswers inserts the result only if none exists for
// (test, student), then its answers. A conflict on the unique index returns
// util.ErrAlreadyCompleted and writes nothing.
func (r *ResultRepository) CreateWithAnswers(ctx context.Context, result *model.TestResult, answers []model.StudentAnswer) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "test_id"}, {Name: "student_id"}},
				DoNothing: true,
			}).
			Create(result)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyCompleted
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAlreadyCompleted
		}

		for i := range answers {
			answers[i].ResultID = result.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		result.Answers = answers
		return nil
	})
}

func (r *ResultRepository) FindByTestAndStudent(ctx context.Context, testID, studentID uint) (*model.TestResult, error) {
	var result model.TestResult
	err := r.DB.WithContext(ctx).
		Preload("Answers").
		Where("test_id = ? AND student_id = ?", testID, studentID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) ListByTest(ctx context.Context, testID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.WithContext(ctx).
		Preload("Student").
		Where("test_id = ?", testID).
		Order("completed_at desc").
		Find(&results).Error
	return results, err
}

func (r *ResultRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.WithContext(ctx).
		Preload("Test").
		Where("student_id = ?", studentID).
		Order("completed_at desc").
		Find(&results).Error
	return results, err
}
