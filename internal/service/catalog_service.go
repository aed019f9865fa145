package service

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

// CatalogService builds the student-facing view of a test.
type CatalogService struct {
	Tests TestStore
	Cache CatalogCache
}

func NewCatalogService(tests TestStore, cache CatalogCache) *CatalogService {
	return &CatalogService{Tests: tests, Cache: cache}
}

// Load returns the sanitized catalog of test. The result is cached because
// questions and options never change after the test is created.
func (s *CatalogService) Load(ctx context.Context, test *model.Test) (*grading.CatalogView, error) {
	if s.Cache != nil {
		if view, ok := s.Cache.Get(ctx, test.ID); ok {
			return view, nil
		}
	}

	qs, err := s.Tests.ListQuestions(ctx, test.ID)
	if err != nil {
		return nil, err
	}
	view := grading.Sanitize(test.ID, test.Title, test.Description, toGradingQuestions(qs))

	if s.Cache != nil {
		s.Cache.Set(ctx, test.ID, &view)
	}
	return &view, nil
}

func findTest(ctx context.Context, tests TestStore, id uint) (*model.Test, error) {
	test, err := tests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return test, nil
}

// findManagedTest loads a test the teacher owns. Tests owned by someone else
// are reported as missing.
func findManagedTest(ctx context.Context, tests TestStore, p grading.Principal, id uint) (*model.Test, error) {
	if p.Role != grading.RoleTeacher {
		return nil, util.ErrAccessDenied
	}
	test, err := findTest(ctx, tests, id)
	if err != nil {
		return nil, err
	}
	if !grading.CanManage(p, testAccess(test)) {
		return nil, util.ErrTestNotFound
	}
	return test, nil
}

// withCurrentGroup replaces the group carried by the token with the student's
// stored group, so a group change applies before the token expires. A student
// that no longer exists has no group.
func withCurrentGroup(ctx context.Context, users UserStore, p grading.Principal) (grading.Principal, error) {
	if users == nil || p.Role != grading.RoleStudent {
		return p, nil
	}
	user, err := users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.GroupID = nil
			return p, nil
		}
		return p, err
	}
	p.GroupID = user.GroupID
	return p, nil
}
