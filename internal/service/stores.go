package service

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/repository"
	"context"
	"io"
	"time"
)

// The interfaces below are what the services need from persistence. The
// repository package provides the gorm and Redis implementations.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type GroupStore interface {
	Create(ctx context.Context, group *model.Group) error
	FindByID(ctx context.Context, id uint) (*model.Group, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Group, error)
	ListAll(ctx context.Context) ([]model.Group, error)
	FindOwnedByIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Group, error)
}

type TestStore interface {
	CreateWithQuestions(ctx context.Context, test *model.Test, questions []model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	ListQuestions(ctx context.Context, testID uint) ([]model.Question, error)
	SetActive(ctx context.Context, id uint, active bool) error
	ListByOwner(ctx context.Context, ownerID uint) ([]repository.TestListRow, error)
	ListActiveForGroup(ctx context.Context, groupID uint) ([]model.Test, error)
}

type LevelStore interface {
	ListByTest(ctx context.Context, testID uint) ([]model.Level, error)
	Replace(ctx context.Context, testID uint, levels []model.Level) error
}

type ResultStore interface {
	Exists(ctx context.Context, testID, studentID uint) (bool, error)
	// CreateWithAnswers must fail with util.ErrAlreadyCompleted, writing
	// nothing, when a result for (test, student) already exists.
	CreateWithAnswers(ctx context.Context, result *model.TestResult, answers []model.StudentAnswer) error
	FindByTestAndStudent(ctx context.Context, testID, studentID uint) (*model.TestResult, error)
	ListByTest(ctx context.Context, testID uint) ([]model.TestResult, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.TestResult, error)
}

type CatalogCache interface {
	Get(ctx context.Context, testID uint) (*grading.CatalogView, bool)
	Set(ctx context.Context, testID uint, view *grading.CatalogView)
}

type TokenBlocklist interface {
	Block(ctx context.Context, tokenID string, ttl time.Duration) error
	IsBlocked(ctx context.Context, tokenID string) (bool, error)
}

// AssetStore stores uploaded files and returns a URL to fetch them.
type AssetStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
}
