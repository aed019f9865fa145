package service

import (
	"bytes"
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/repository"
	"clever_backend/internal/util"
	"clever_backend/pkg/logger"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageFile is an uploaded question image.
type ImageFile struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// QuestionSpec describes one question of a new test. Choice questions use
// Answers, AnswersCount and the one-based Correct index; open questions use
// CorrectAnswer.
type QuestionSpec struct {
	Order         int                `json:"order" validate:"gte=0"`
	Text          string             `json:"text" validate:"required"`
	Type          model.QuestionType `json:"type" validate:"required,oneof=choice open"`
	Answers       []string           `json:"answers"`
	AnswersCount  util.FlexString    `json:"answers_count"`
	Correct       util.FlexString    `json:"correct"`
	CorrectAnswer string             `json:"correct_answer"`
	Image         *ImageFile         `json:"-" validate:"-"`
}

type CreateTestRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description"`
	GroupIDs    []uint         `json:"group_ids" validate:"required,min=1"`
	Questions   []QuestionSpec `json:"questions" validate:"dive"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// StudentTestItem is one row of a student's test list.
type StudentTestItem struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type TestService struct {
	Tests    TestStore
	Groups   GroupStore
	Levels   LevelStore
	Results  ResultStore
	Users    UserStore
	Catalog  *CatalogService
	Assets   AssetStore
	Settings *QuizSettings
	validate *validator.Validate
}

func NewTestService(tests TestStore, groups GroupStore, levels LevelStore, results ResultStore, users UserStore, catalog *CatalogService, assets AssetStore, settings *QuizSettings) *TestService {
	return &TestService{
		Tests:    tests,
		Groups:   groups,
		Levels:   levels,
		Results:  results,
		Users:    users,
		Catalog:  catalog,
		Assets:   assets,
		Settings: settings,
		validate: validator.New(),
	}
}

// CreateTest stores a test with all its questions and options. Questions are
// persisted in ascending order. Every group must belong to the teacher.
func (s *TestService) CreateTest(ctx context.Context, p grading.Principal, req CreateTestRequest) (*model.Test, error) {
	if p.Role != grading.RoleTeacher {
		return nil, util.ErrAccessDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}

	groups, err := s.ownedGroups(ctx, p.UserID, req.GroupIDs)
	if err != nil {
		return nil, err
	}

	specs := make([]QuestionSpec, len(req.Questions))
	copy(specs, req.Questions)
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Order < specs[j].Order })

	strict := s.Settings != nil && s.Settings.StrictAuthoring()
	questions := make([]model.Question, 0, len(specs))
	for i, spec := range specs {
		if i > 0 && specs[i-1].Order == spec.Order {
			return nil, fmt.Errorf("%w: duplicate order %d", util.ErrInvalidQuestion, spec.Order)
		}
		q, err := buildQuestion(spec, strict)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	var uploaded []string
	for i, spec := range specs {
		if spec.Image == nil {
			continue
		}
		name, url, err := s.uploadImage(ctx, spec.Image)
		if err != nil {
			s.discard(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, name)
		questions[i].ImageURL = url
	}

	test := &model.Test{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     p.UserID,
		IsActive:    true,
		Groups:      groups,
	}
	if err := s.Tests.CreateWithQuestions(ctx, test, questions); err != nil {
		s.discard(ctx, uploaded)
		return nil, err
	}

	logger.Log.Info("test created",
		zap.Uint("test_id", test.ID),
		zap.Uint("teacher_id", p.UserID),
		zap.Int("questions", len(questions)),
	)
	return test, nil
}

func (s *TestService) ownedGroups(ctx context.Context, ownerID uint, ids []uint) ([]model.Group, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	groups, err := s.Groups.FindOwnedByIDs(ctx, ownerID, unique)
	if err != nil {
		return nil, err
	}
	if len(groups) != len(unique) {
		return nil, util.ErrGroupNotFound
	}
	return groups, nil
}

// buildQuestion turns a spec into a question record. Without strict
// authoring a malformed answers_count yields no options and a missing or
// out-of-range correct index yields no correct option.
func buildQuestion(spec QuestionSpec, strict bool) (model.Question, error) {
	q := model.Question{
		Order: spec.Order,
		Type:  spec.Type,
		Text:  strings.TrimSpace(spec.Text),
	}

	switch spec.Type {
	case model.QuestionChoice:
		count := spec.AnswersCount.IntOrZero()
		if count < 0 {
			count = 0
		}
		if count > util.MaxOptionsPerQuestion {
			count = util.MaxOptionsPerQuestion
		}
		correct := strings.TrimSpace(spec.Correct.String())
		correctCount := 0
		for i := 1; i <= count; i++ {
			text := ""
			if i <= len(spec.Answers) {
				text = strings.TrimSpace(spec.Answers[i-1])
			}
			isCorrect := correct == strconv.Itoa(i)
			if isCorrect {
				correctCount++
			}
			q.Options = append(q.Options, model.AnswerOption{Order: i, Text: text, IsCorrect: isCorrect})
		}
		if strict && (count < 2 || correctCount != 1) {
			return q, fmt.Errorf("%w: question %d needs at least two options and exactly one correct", util.ErrInvalidQuestion, spec.Order)
		}
	case model.QuestionOpen:
		q.CorrectAnswer = strings.TrimSpace(spec.CorrectAnswer)
		if strict && q.CorrectAnswer == "" {
			return q, fmt.Errorf("%w: question %d has no correct answer", util.ErrInvalidQuestion, spec.Order)
		}
	default:
		return q, fmt.Errorf("%w: unknown type %q", util.ErrInvalidQuestion, spec.Type)
	}
	return q, nil
}

func (s *TestService) uploadImage(ctx context.Context, img *ImageFile) (string, string, error) {
	if img.Size > util.MaxQuestionImageSize {
		return "", "", fmt.Errorf("%w: %s exceeds %d bytes", util.ErrInvalidImage, img.Filename, util.MaxQuestionImageSize)
	}
	if !util.HasAllowedExtension(img.Filename, util.AllowedImageExtensions) {
		return "", "", fmt.Errorf("%w: unsupported extension %q", util.ErrInvalidImage, filepath.Ext(img.Filename))
	}

	var head bytes.Buffer
	mimeType, err := util.ValidateMimeType(io.TeeReader(img.Reader, &head), []string{util.MimeImage})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", util.ErrInvalidImage, err)
	}

	name := "questions/" + uuid.New().String() + strings.ToLower(filepath.Ext(img.Filename))
	url, err := s.Assets.Upload(ctx, name, io.MultiReader(&head, img.Reader), img.Size, mimeType)
	if err != nil {
		return "", "", err
	}
	return name, url, nil
}

func (s *TestService) discard(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.Assets.Delete(ctx, name); err != nil {
			logger.Log.Warn("failed to remove orphaned image", zap.String("file", name), zap.Error(err))
		}
	}
}

func (s *TestService) ListOwned(ctx context.Context, p grading.Principal) ([]repository.TestListRow, error) {
	if p.Role != grading.RoleTeacher {
		return nil, util.ErrAccessDenied
	}
	return s.Tests.ListByOwner(ctx, p.UserID)
}

// GetFull returns the test with questions, correct answers and levels.
func (s *TestService) GetFull(ctx context.Context, p grading.Principal, id uint) (*model.Test, error) {
	test, err := findManagedTest(ctx, s.Tests, p, id)
	if err != nil {
		return nil, err
	}
	if test.Questions, err = s.Tests.ListQuestions(ctx, id); err != nil {
		return nil, err
	}
	if test.Levels, err = s.Levels.ListByTest(ctx, id); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) SetActive(ctx context.Context, p grading.Principal, id uint, active bool) (*model.Test, error) {
	test, err := findManagedTest(ctx, s.Tests, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.Tests.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	test.IsActive = active
	logger.Log.Info("test active flag changed", zap.Uint("test_id", id), zap.Bool("active", active))
	return test, nil
}

// Preview shows the owner exactly what students will see.
func (s *TestService) Preview(ctx context.Context, p grading.Principal, id uint) (*grading.CatalogView, error) {
	test, err := findManagedTest(ctx, s.Tests, p, id)
	if err != nil {
		return nil, err
	}
	return s.Catalog.Load(ctx, test)
}

// ListForStudent returns the active tests assigned to the student's group,
// flagging the ones already completed.
func (s *TestService) ListForStudent(ctx context.Context, p grading.Principal) ([]StudentTestItem, error) {
	if p.Role != grading.RoleStudent {
		return nil, util.ErrAccessDenied
	}
	p, err := withCurrentGroup(ctx, s.Users, p)
	if err != nil {
		return nil, err
	}
	items := []StudentTestItem{}
	if p.GroupID == nil {
		return items, nil
	}

	tests, err := s.Tests.ListActiveForGroup(ctx, *p.GroupID)
	if err != nil {
		return nil, err
	}
	results, err := s.Results.ListByStudent(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(results))
	for _, r := range results {
		done[r.TestID] = true
	}

	for _, t := range tests {
		items = append(items, StudentTestItem{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   done[t.ID],
		})
	}
	return items, nil
}
