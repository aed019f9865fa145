package controller

import (
	"clever_backend/internal/model"
	"clever_backend/internal/service"
	"clever_backend/internal/util"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Only the methods the attempt endpoints reach are implemented; the embedded
// interfaces panic if anything else is called.
type stubTests struct {
	service.TestStore
	test *model.Test
	qs   []model.Question
}

func (s *stubTests) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	if s.test == nil || s.test.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s.test
	return &cp, nil
}

func (s *stubTests) ListQuestions(ctx context.Context, testID uint) ([]model.Question, error) {
	return s.qs, nil
}

type stubLevels struct{ service.LevelStore }

func (stubLevels) ListByTest(ctx context.Context, testID uint) ([]model.Level, error) {
	return []model.Level{{Order: 1, Title: "All", MinPercent: 0, MaxPercent: 100}}, nil
}

type stubResults struct {
	service.ResultStore
	done  bool
	saved []model.StudentAnswer
}

func (s *stubResults) Exists(ctx context.Context, testID, studentID uint) (bool, error) {
	return s.done, nil
}

func (s *stubResults) CreateWithAnswers(ctx context.Context, r *model.TestResult, answers []model.StudentAnswer) error {
	if s.done {
		return util.ErrAlreadyCompleted
	}
	s.done = true
	r.ID = 77
	s.saved = answers
	return nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T, claims *util.Claims) (*gin.Engine, *stubResults) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	test := &model.Test{Title: "Quiz", OwnerID: 1, IsActive: true, Groups: []model.Group{{BaseModel: model.BaseModel{ID: 3}}}}
	test.ID = 5
	q := model.Question{Order: 1, Type: model.QuestionChoice, Text: "2+2?", Options: []model.AnswerOption{
		{BaseModel: model.BaseModel{ID: 10}, Order: 1, Text: "4", IsCorrect: true},
		{BaseModel: model.BaseModel{ID: 11}, Order: 2, Text: "5"},
	}}
	q.ID = 9

	tests := &stubTests{test: test, qs: []model.Question{q}}
	results := &stubResults{}
	svc := service.NewAttemptService(tests, stubLevels{}, results, nil, service.NewCatalogService(tests, nil), nil)
	ctrl := NewAttemptController(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set("user", claims)
		}
		c.Next()
	})
	r.GET("/api/student/tests/:id", ctrl.Start)
	r.POST("/api/student/tests/:id/submit", ctrl.Submit)
	return r, results
}

func studentClaims(group uint) *util.Claims {
	return &util.Claims{UserID: 2, Role: model.Student, GroupID: &group}
}

func call(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestStartEndpoint(t *testing.T) {
	r, results := setup(t, studentClaims(3))

	w, env := call(r, http.MethodGet, "/api/student/tests/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"text":"4"`)
	assert.NotContains(t, string(env.Data), "is_correct")

	w, _ = call(r, http.MethodGet, "/api/student/tests/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(r, http.MethodGet, "/api/student/tests/6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	results.done = true
	w, _ = call(r, http.MethodGet, "/api/student/tests/5", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStartEndpointAccess(t *testing.T) {
	r, _ := setup(t, studentClaims(4))
	w, _ := call(r, http.MethodGet, "/api/student/tests/5", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	r, _ = setup(t, nil)
	w, _ = call(r, http.MethodGet, "/api/student/tests/5", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitEndpoint(t *testing.T) {
	r, results := setup(t, studentClaims(3))

	w, env := call(r, http.MethodPost, "/api/student/tests/5/submit", `{"answers":{"9":10},"time_spent":"31"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report service.ScoreReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 100.0, report.Percentage)
	assert.True(t, report.Passed)
	assert.Equal(t, 31, report.TimeSpent)
	assert.Equal(t, "All", report.LevelTitle)
	require.Len(t, results.saved, 1)

	w, _ = call(r, http.MethodPost, "/api/student/tests/5/submit", `{"answers":{"9":10}}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitEndpointToleratesOddValues(t *testing.T) {
	r, results := setup(t, studentClaims(3))

	w, env := call(r, http.MethodPost, "/api/student/tests/5/submit", `{"answers":{"9":{"id":10}},"time_spent":[1]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report service.ScoreReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 0, report.Correct)
	assert.Equal(t, 0, report.TimeSpent)
	require.Len(t, results.saved, 1)
	assert.Nil(t, results.saved[0].SelectedOptionID)
}
