package repository

import (
	"clever_backend/internal/model"
	"clever_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models...))
	return db
}

// seedQuiz stores a teacher, a student and a one-question test they share.
func seedQuiz(t *testing.T, db *gorm.DB) (test *model.Test, question *model.Question, studentID uint) {
	t.Helper()
	group := &model.Group{Name: "9A"}
	require.NoError(t, db.Create(group).Error)

	owner := &model.User{Name: "Tess", Email: "tess@example.com", Password: "x", Role: model.Teacher}
	require.NoError(t, db.Create(owner).Error)
	student := &model.User{Name: "Ann", Email: "ann@example.com", Password: "x", Role: model.Student, GroupID: &group.ID}
	require.NoError(t, db.Create(student).Error)

	test = &model.Test{Title: "Basics", OwnerID: owner.ID, IsActive: true}
	require.NoError(t, db.Create(test).Error)
	question = &model.Question{TestID: test.ID, Order: 1, Type: model.QuestionOpen, Text: "Capital of France?", CorrectAnswer: "Paris"}
	require.NoError(t, db.Create(question).Error)
	return test, question, student.ID
}
