package service

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/util"
	"clever_backend/pkg/logger"
	"clever_backend/pkg/monitoring"
	"clever_backend/pkg/tracing"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitRequest carries the student's answers keyed by question id. Choice
// answers are option ids, open answers are free text. Values that are not
// strings or numbers are treated as blank.
type SubmitRequest struct {
	Answers   map[string]util.FlexString `json:"answers"`
	TimeSpent util.FlexString            `json:"time_spent"`
}

type AnswerDetail struct {
	QuestionID    uint   `json:"question_id"`
	QuestionText  string `json:"question_text"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// ScoreReport is returned after a submission and when a student reviews a
// result. Level fields are empty when the test has no levels.
type ScoreReport struct {
	ResultID             uint           `json:"result_id"`
	TestID               uint           `json:"test_id"`
	Correct              int            `json:"correct"`
	Total                int            `json:"total"`
	Percentage           float64        `json:"percentage"`
	Passed               bool           `json:"passed"`
	TimeSpent            int            `json:"time_spent"`
	CompletedAt          time.Time      `json:"completed_at"`
	Details              []AnswerDetail `json:"details"`
	LevelTitle           string         `json:"level_title"`
	LevelDescription     string         `json:"level_description"`
	LevelRecommendations string         `json:"level_recommendations"`
}

// StudentResultItem is one row of a student's own result list.
type StudentResultItem struct {
	ResultID    uint      `json:"result_id"`
	TestID      uint      `json:"test_id"`
	TestTitle   string    `json:"test_title"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completed_at"`
}

// TestResultItem is one row of the results a teacher sees for a test.
type TestResultItem struct {
	ResultID    uint      `json:"result_id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	Passed      bool      `json:"passed"`
	TimeSpent   int       `json:"time_spent"`
	CompletedAt time.Time `json:"completed_at"`
	LevelTitle  string    `json:"level_title"`
}

const (
	outcomeGraded    = "graded"
	outcomeCompleted = "already_completed"
	outcomeDenied    = "denied"
	outcomeNotFound  = "not_found"
	outcomeError     = "error"
)

type AttemptService struct {
	Tests    TestStore
	Levels   LevelStore
	Results  ResultStore
	Users    UserStore
	Catalog  *CatalogService
	Settings *QuizSettings
	now      func() time.Time
}

func NewAttemptService(tests TestStore, levels LevelStore, results ResultStore, users UserStore, catalog *CatalogService, settings *QuizSettings) *AttemptService {
	return &AttemptService{
		Tests:    tests,
		Levels:   levels,
		Results:  results,
		Users:    users,
		Catalog:  catalog,
		Settings: settings,
		now:      time.Now,
	}
}

func (s *AttemptService) passThreshold() float64 {
	if s.Settings == nil {
		return grading.DefaultPassThreshold
	}
	return s.Settings.PassThreshold()
}

// loadForStudent fetches the test and checks that p may take it and has not
// taken it yet.
func (s *AttemptService) loadForStudent(ctx context.Context, p grading.Principal, testID uint) (*model.Test, error) {
	test, err := findTest(ctx, s.Tests, testID)
	if err != nil {
		return nil, err
	}
	if p, err = withCurrentGroup(ctx, s.Users, p); err != nil {
		return nil, err
	}
	if err := grading.CanTake(p, testAccess(test)); err != nil {
		return nil, err
	}
	done, err := s.Results.Exists(ctx, testID, p.UserID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, util.ErrAlreadyCompleted
	}
	return test, nil
}

// Start returns the sanitized catalog for a test the student can still take.
func (s *AttemptService) Start(ctx context.Context, p grading.Principal, testID uint) (*grading.CatalogView, error) {
	ctx, span := tracing.StartAttemptSpan(ctx, "attempt.start", testID, p.UserID)
	defer span.End()

	test, err := s.loadForStudent(ctx, p, testID)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	return s.Catalog.Load(ctx, test)
}

// Submit grades the answers, stores the result and one answer per question,
// and returns the score report. A second submission for the same test fails
// with util.ErrAlreadyCompleted, even when both race past the early check.
func (s *AttemptService) Submit(ctx context.Context, p grading.Principal, testID uint, req SubmitRequest) (report *ScoreReport, err error) {
	ctx, span := tracing.StartAttemptSpan(ctx, "attempt.submit", testID, p.UserID)
	defer span.End()

	defer func() {
		outcome := outcomeGraded
		pct := 0.0
		switch {
		case err == nil:
			pct = report.Percentage
		case errors.Is(err, util.ErrAlreadyCompleted):
			outcome = outcomeCompleted
		case errors.Is(err, util.ErrAccessDenied):
			outcome = outcomeDenied
		case errors.Is(err, util.ErrTestNotFound):
			outcome = outcomeNotFound
		default:
			outcome = outcomeError
		}
		monitoring.ObserveSubmission(outcome, pct)
		if err != nil {
			tracing.Fail(span, err)
			logger.Log.Info("submission rejected",
				zap.Uint("test_id", testID),
				zap.Uint("student_id", p.UserID),
				zap.String("outcome", outcome),
				zap.Error(err),
			)
		}
	}()

	if _, err := s.loadForStudent(ctx, p, testID); err != nil {
		return nil, err
	}

	qs, err := s.Tests.ListQuestions(ctx, testID)
	if err != nil {
		return nil, err
	}
	// Everything the report needs is read before the result is stored, so a
	// failed read cannot leave a saved attempt behind an error response.
	levels, err := s.Levels.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	graded := grading.Grade(toGradingQuestions(qs), parseAnswers(req.Answers))

	timeSpent := req.TimeSpent.IntOrZero()
	if timeSpent < 0 {
		timeSpent = 0
	}

	result := &model.TestResult{
		TestID:         testID,
		StudentID:      p.UserID,
		Score:          graded.Score,
		TotalQuestions: graded.TotalQuestions,
		TimeSpent:      timeSpent,
		CompletedAt:    s.now(),
	}
	answers := make([]model.StudentAnswer, 0, len(graded.Details))
	for _, d := range graded.Details {
		answers = append(answers, model.StudentAnswer{
			QuestionID:       d.QuestionID,
			SelectedOptionID: d.SelectedOptionID,
			TextAnswer:       d.TextAnswer,
			IsCorrect:        d.IsCorrect,
		})
	}

	if err := s.Results.CreateWithAnswers(ctx, result, answers); err != nil {
		return nil, err
	}

	report = s.buildReport(result, graded, levels)
	span.SetAttributes(attribute.Float64("quiz.percentage", report.Percentage))
	logger.Log.Info("test submitted",
		zap.Uint("test_id", testID),
		zap.Uint("student_id", p.UserID),
		zap.Int("score", report.Correct),
		zap.Int("total", report.Total),
		zap.Float64("percentage", report.Percentage),
	)
	return report, nil
}

// parseAnswers keys the submitted answers by question id, dropping keys that
// are not ids.
func parseAnswers(raw map[string]util.FlexString) map[uint]string {
	out := make(map[uint]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(k), 10, 64)
		if err != nil {
			continue
		}
		out[uint(id)] = v.String()
	}
	return out
}

func (s *AttemptService) buildReport(result *model.TestResult, graded grading.Report, levels []model.Level) *ScoreReport {
	pct := grading.Percentage(result.Score, result.TotalQuestions)
	report := &ScoreReport{
		ResultID:    result.ID,
		TestID:      result.TestID,
		Correct:     result.Score,
		Total:       result.TotalQuestions,
		Percentage:  pct,
		Passed:      grading.Passed(pct, s.passThreshold()),
		TimeSpent:   result.TimeSpent,
		CompletedAt: result.CompletedAt,
		Details:     make([]AnswerDetail, 0, len(graded.Details)),
	}
	for _, d := range graded.Details {
		report.Details = append(report.Details, AnswerDetail{
			QuestionID:    d.QuestionID,
			QuestionText:  d.QuestionText,
			UserAnswer:    d.UserAnswer,
			CorrectAnswer: d.CorrectAnswer,
			IsCorrect:     d.IsCorrect,
		})
	}
	if lvl := grading.ResolveLevel(toGradingLevels(levels), pct); lvl != nil {
		report.LevelTitle = lvl.Title
		report.LevelDescription = lvl.Description
		report.LevelRecommendations = lvl.Recommendations
	}
	return report
}

// MyResult rebuilds the report of the student's result from the stored
// answers. The level is resolved against the test's current levels.
func (s *AttemptService) MyResult(ctx context.Context, p grading.Principal, testID uint) (*ScoreReport, error) {
	if p.Role != grading.RoleStudent {
		return nil, util.ErrAccessDenied
	}
	if _, err := findTest(ctx, s.Tests, testID); err != nil {
		return nil, err
	}

	result, err := s.Results.FindByTestAndStudent(ctx, testID, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}

	qs, err := s.Tests.ListQuestions(ctx, testID)
	if err != nil {
		return nil, err
	}
	levels, err := s.Levels.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	return s.buildReport(result, storedReport(toGradingQuestions(qs), result), levels), nil
}

// storedReport reconstructs per-question details from persisted answers
// without regrading. Questions with no stored answer show as blank.
func storedReport(qs []grading.Question, result *model.TestResult) grading.Report {
	grading.SortByOrder(qs)
	byQuestion := make(map[uint]model.StudentAnswer, len(result.Answers))
	for _, a := range result.Answers {
		byQuestion[a.QuestionID] = a
	}

	report := grading.Report{Score: result.Score, TotalQuestions: result.TotalQuestions}
	for _, q := range qs {
		d := grading.Graded{QuestionID: q.ID, QuestionText: q.Text, Kind: q.Body.Kind()}
		a, answered := byQuestion[q.ID]
		d.IsCorrect = answered && a.IsCorrect

		switch body := q.Body.(type) {
		case grading.Choice:
			if correct, ok := body.Correct(); ok {
				d.CorrectAnswer = correct.Text
			}
			if answered && a.SelectedOptionID != nil {
				if opt, ok := body.Option(*a.SelectedOptionID); ok {
					d.UserAnswer = opt.Text
				}
			}
		case grading.Open:
			d.CorrectAnswer = body.Canonical
			if answered && a.TextAnswer != nil {
				d.UserAnswer = *a.TextAnswer
			}
		}
		report.Details = append(report.Details, d)
	}
	return report
}

func (s *AttemptService) MyResults(ctx context.Context, p grading.Principal) ([]StudentResultItem, error) {
	if p.Role != grading.RoleStudent {
		return nil, util.ErrAccessDenied
	}
	results, err := s.Results.ListByStudent(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	threshold := s.passThreshold()
	items := make([]StudentResultItem, 0, len(results))
	for _, r := range results {
		pct := grading.Percentage(r.Score, r.TotalQuestions)
		item := StudentResultItem{
			ResultID:    r.ID,
			TestID:      r.TestID,
			Correct:     r.Score,
			Total:       r.TotalQuestions,
			Percentage:  pct,
			Passed:      grading.Passed(pct, threshold),
			CompletedAt: r.CompletedAt,
		}
		if r.Test != nil {
			item.TestTitle = r.Test.Title
		}
		items = append(items, item)
	}
	return items, nil
}

// TestResults lists every result of a test owned by the teacher.
func (s *AttemptService) TestResults(ctx context.Context, p grading.Principal, testID uint) ([]TestResultItem, error) {
	if _, err := findManagedTest(ctx, s.Tests, p, testID); err != nil {
		return nil, err
	}

	results, err := s.Results.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	levels, err := s.Levels.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	gl := toGradingLevels(levels)

	threshold := s.passThreshold()
	items := make([]TestResultItem, 0, len(results))
	for _, r := range results {
		pct := grading.Percentage(r.Score, r.TotalQuestions)
		item := TestResultItem{
			ResultID:    r.ID,
			StudentID:   r.StudentID,
			Correct:     r.Score,
			Total:       r.TotalQuestions,
			Percentage:  pct,
			Passed:      grading.Passed(pct, threshold),
			TimeSpent:   r.TimeSpent,
			CompletedAt: r.CompletedAt,
		}
		if r.Student != nil {
			item.StudentName = r.Student.Name
		}
		if lvl := grading.ResolveLevel(gl, pct); lvl != nil {
			item.LevelTitle = lvl.Title
		}
		items = append(items, item)
	}
	return items, nil
}
