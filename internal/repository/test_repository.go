package repository

import (
	"clever_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// CreateWithQuestions stores the test, its group links, then the questions
// (with options) in the given order, all in one transaction.
func (r *TestRepository) CreateWithQuestions(ctx context.Context, test *model.Test, questions []model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Levels").Create(test).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].TestID = test.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		test.Questions = questions
		return nil
	})
}

func (r *TestRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).Preload("Groups").First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// ListQuestions returns the test's questions with options, both by order.
func (r *TestRepository) ListQuestions(ctx context.Context, testID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(byOrder("id"))
		}).
		Where("test_id = ?", testID).
		Order(byOrder()).
		Find(&qs).Error
	return qs, err
}

func (r *TestRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.DB.WithContext(ctx).Model(&model.Test{}).Where("id = ?", id).Update("is_active", active).Error
}

type TestListRow struct {
	model.Test
	QuestionCount int64 `json:"question_count"`
	ResultCount   int64 `json:"result_count"`
}

func (r *TestRepository) ListByOwner(ctx context.Context, ownerID uint) ([]TestListRow, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).Preload("Groups").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}

	rows := make([]TestListRow, 0, len(tests))
	for _, t := range tests {
		row := TestListRow{Test: t}
		if err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("test_id = ?", t.ID).Count(&row.QuestionCount).Error; err != nil {
			return nil, err
		}
		if err := r.DB.WithContext(ctx).Model(&model.TestResult{}).Where("test_id = ?", t.ID).Count(&row.ResultCount).Error; err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListActiveForGroup returns active tests assigned to the group, newest first.
func (r *TestRepository) ListActiveForGroup(ctx context.Context, groupID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).
		Joins("JOIN test_groups tg ON tg.test_id = tests.id").
		Where("tg.group_id = ? AND tests.is_active = ?", groupID, true).
		Order("tests.created_at desc").
		Find(&tests).Error
	return tests, err
}
