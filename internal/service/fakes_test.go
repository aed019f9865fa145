package service

import (
	"bytes"
	"clever_backend/internal/config"
	"clever_backend/internal/grading"
	"clever_backend/internal/model"
	"clever_backend/internal/repository"
	"clever_backend/internal/util"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// memDB is an in-memory stand-in for every store the services use.
type memDB struct {
	mu      sync.Mutex
	nextID  uint
	users   map[uint]*model.User
	groups  map[uint]*model.Group
	tests   map[uint]*model.Test
	qs      map[uint][]model.Question
	levels  map[uint][]model.Level
	results []*model.TestResult

	failCreateTest bool
}

func newMemDB() *memDB {
	return &memDB{
		users:  map[uint]*model.User{},
		groups: map[uint]*model.Group{},
		tests:  map[uint]*model.Test{},
		qs:     map[uint][]model.Question{},
		levels: map[uint][]model.Level{},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

type memUsers struct{ *memDB }

func (s memUsers) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = s.id()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s memUsers) FindByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memGroups struct{ *memDB }

func (s memGroups) Create(ctx context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

func (s memGroups) FindByID(ctx context.Context, id uint) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (s memGroups) ExistsByName(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if strings.EqualFold(g.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s memGroups) ListByOwner(ctx context.Context, ownerID uint) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Group
	for _, g := range s.groups {
		if g.CreatedByID == ownerID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memGroups) ListAll(ctx context.Context) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Group
	for _, g := range s.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s memGroups) FindOwnedByIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Group
	for _, id := range ids {
		if g, ok := s.groups[id]; ok && g.CreatedByID == ownerID {
			out = append(out, *g)
		}
	}
	return out, nil
}

type memTests struct{ *memDB }

func (s memTests) CreateWithQuestions(ctx context.Context, t *model.Test, questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateTest {
		return gorm.ErrInvalidTransaction
	}
	t.ID = s.id()
	for i := range questions {
		questions[i].ID = s.id()
		questions[i].TestID = t.ID
		for j := range questions[i].Options {
			questions[i].Options[j].ID = s.id()
			questions[i].Options[j].QuestionID = questions[i].ID
		}
	}
	cp := *t
	cp.Questions = nil
	s.tests[t.ID] = &cp
	s.qs[t.ID] = questions
	t.Questions = questions
	return nil
}

func (s memTests) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (s memTests) ListQuestions(ctx context.Context, testID uint) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Question, len(s.qs[testID]))
	copy(out, s.qs[testID])
	return out, nil
}

func (s memTests) SetActive(ctx context.Context, id uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tests[id]; ok {
		t.IsActive = active
	}
	return nil
}

func (s memTests) ListByOwner(ctx context.Context, ownerID uint) ([]repository.TestListRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []repository.TestListRow
	for _, t := range s.tests {
		if t.OwnerID != ownerID {
			continue
		}
		row := repository.TestListRow{Test: *t, QuestionCount: int64(len(s.qs[t.ID]))}
		for _, r := range s.results {
			if r.TestID == t.ID {
				row.ResultCount++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s memTests) ListActiveForGroup(ctx context.Context, groupID uint) ([]model.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Test
	for _, t := range s.tests {
		if !t.IsActive {
			continue
		}
		for _, g := range t.Groups {
			if g.ID == groupID {
				out = append(out, *t)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memLevels struct{ *memDB }

func (s memLevels) ListByTest(ctx context.Context, testID uint) ([]model.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Level, len(s.levels[testID]))
	copy(out, s.levels[testID])
	return out, nil
}

func (s memLevels) Replace(ctx context.Context, testID uint, levels []model.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range levels {
		levels[i].ID = s.id()
		levels[i].TestID = testID
	}
	s.levels[testID] = append([]model.Level(nil), levels...)
	return nil
}

type memResults struct{ *memDB }

func (s memResults) Exists(ctx context.Context, testID, studentID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.TestID == testID && r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s memResults) CreateWithAnswers(ctx context.Context, result *model.TestResult, answers []model.StudentAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.TestID == result.TestID && r.StudentID == result.StudentID {
			return util.ErrAlreadyCompleted
		}
	}
	result.ID = s.id()
	for i := range answers {
		answers[i].ID = s.id()
		answers[i].ResultID = result.ID
	}
	result.Answers = answers
	cp := *result
	s.results = append(s.results, &cp)
	return nil
}

func (s memResults) find(testID, studentID uint) *model.TestResult {
	for _, r := range s.results {
		if r.TestID == testID && r.StudentID == studentID {
			return r
		}
	}
	return nil
}

func (s memResults) FindByTestAndStudent(ctx context.Context, testID, studentID uint) (*model.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.find(testID, studentID)
	if r == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (s memResults) ListByTest(ctx context.Context, testID uint) ([]model.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TestResult
	for _, r := range s.results {
		if r.TestID == testID {
			cp := *r
			if u, ok := s.users[r.StudentID]; ok {
				student := *u
				cp.Student = &student
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (s memResults) ListByStudent(ctx context.Context, studentID uint) ([]model.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TestResult
	for _, r := range s.results {
		if r.StudentID == studentID {
			cp := *r
			if t, ok := s.tests[r.TestID]; ok {
				test := *t
				cp.Test = &test
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

type memCache struct {
	mu    sync.Mutex
	views map[uint]*grading.CatalogView
	hits  int
}

func newMemCache() *memCache {
	return &memCache{views: map[uint]*grading.CatalogView{}}
}

func (c *memCache) Get(ctx context.Context, testID uint) (*grading.CatalogView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[testID]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *memCache) Set(ctx context.Context, testID uint, view *grading.CatalogView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[testID] = view
}

type memBlocklist struct {
	mu      sync.Mutex
	blocked map[string]time.Duration
}

func (b *memBlocklist) Block(ctx context.Context, tokenID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.blocked == nil {
		b.blocked = map[string]time.Duration{}
	}
	b.blocked[tokenID] = ttl
	return nil
}

func (b *memBlocklist) IsBlocked(ctx context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.blocked[tokenID]
	return ok, nil
}

type memAssets struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func (a *memAssets) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	a.files[filename] = buf.Bytes()
	return "/uploads/" + filename, nil
}

func (a *memAssets) Delete(ctx context.Context, filename string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.files, filename)
	a.deleted = append(a.deleted, filename)
	return nil
}

// fixture wires every service over one memDB.
type fixture struct {
	db       *memDB
	cache    *memCache
	assets   *memAssets
	settings *QuizSettings
	groups   *GroupService
	tests    *TestService
	levels   *LevelService
	attempts *AttemptService
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:       db,
		cache:    newMemCache(),
		assets:   &memAssets{},
		settings: NewQuizSettings(configQuiz(60, false)),
	}
	catalog := NewCatalogService(memTests{db}, f.cache)
	f.groups = NewGroupService(memGroups{db})
	f.tests = NewTestService(memTests{db}, memGroups{db}, memLevels{db}, memResults{db}, memUsers{db}, catalog, f.assets, f.settings)
	f.levels = NewLevelService(memTests{db}, memLevels{db})
	f.attempts = NewAttemptService(memTests{db}, memLevels{db}, memResults{db}, memUsers{db}, catalog, f.settings)
	return f
}

func teacher(id uint) grading.Principal {
	return grading.Principal{UserID: id, Role: grading.RoleTeacher}
}

func student(id, group uint) grading.Principal {
	return grading.Principal{UserID: id, Role: grading.RoleStudent, GroupID: &group}
}

// seedGroup creates a group owned by teacherID and returns its id.
func (f *fixture) seedGroup(teacherID uint, name string) uint {
	g := &model.Group{Name: name, CreatedByID: teacherID}
	_ = memGroups{f.db}.Create(context.Background(), g)
	return g.ID
}

// seedStudent stores a student user so result listings can show a name.
func (f *fixture) seedStudent(name string, group uint) grading.Principal {
	u := &model.User{Name: name, Email: strings.ToLower(name) + "@example.com", Role: model.Student, GroupID: &group}
	_ = memUsers{f.db}.Create(context.Background(), u)
	return student(u.ID, group)
}

// moveStudent changes the stored group of a user without touching any token.
func (f *fixture) moveStudent(userID, group uint) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.users[userID].GroupID = &group
}

func configQuiz(threshold float64, strict bool) config.QuizConfig {
	return config.QuizConfig{PassThreshold: threshold, StrictAuthoring: strict}
}
