package service

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/util"
	"clever_backend/pkg/logger"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LevelSpecRequest is one level as submitted by the teacher. MaxPercent is
// lenient: anything that is not an integer is treated as missing.
type LevelSpecRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Description     string          `json:"description"`
	Recommendations string          `json:"recommendations"`
	MaxPercent      util.FlexString `json:"max_percent"`
}

type ReplaceLevelsRequest struct {
	Levels []LevelSpecRequest `json:"levels" binding:"dive"`
}

type LevelService struct {
	Tests  TestStore
	Levels LevelStore
}

func NewLevelService(tests TestStore, levels LevelStore) *LevelService {
	return &LevelService{Tests: tests, Levels: levels}
}

// Replace deletes the test's levels and rebuilds them from req in the
// submitted order.
func (s *LevelService) Replace(ctx context.Context, p grading.Principal, testID uint, req ReplaceLevelsRequest) ([]model.Level, error) {
	if _, err := findManagedTest(ctx, s.Tests, p, testID); err != nil {
		return nil, err
	}

	specs := make([]grading.LevelSpec, 0, len(req.Levels))
	for _, l := range req.Levels {
		title := strings.TrimSpace(l.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: level title is empty", util.ErrInvalidInput)
		}
		spec := grading.LevelSpec{
			Title:           title,
			Description:     l.Description,
			Recommendations: l.Recommendations,
		}
		if v, ok := l.MaxPercent.Int(); ok {
			spec.MaxPercent = &v
		}
		specs = append(specs, spec)
	}

	built := grading.BuildLevels(specs)
	levels := make([]model.Level, 0, len(built))
	for _, b := range built {
		levels = append(levels, model.Level{
			TestID:          testID,
			Order:           b.Order,
			Title:           b.Title,
			MinPercent:      b.MinPercent,
			MaxPercent:      b.MaxPercent,
			Description:     b.Description,
			Recommendations: b.Recommendations,
		})
	}

	if err := s.Levels.Replace(ctx, testID, levels); err != nil {
		return nil, err
	}

	logger.Log.Info("levels replaced", zap.Uint("test_id", testID), zap.Int("levels", len(levels)))
	return levels, nil
}

func (s *LevelService) List(ctx context.Context, p grading.Principal, testID uint) ([]model.Level, error) {
	if _, err := findManagedTest(ctx, s.Tests, p, testID); err != nil {
		return nil, err
	}
	return s.Levels.ListByTest(ctx, testID)
}
