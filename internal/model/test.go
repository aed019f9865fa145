package model

type QuestionType string

const (
	QuestionChoice QuestionType = "choice"
	QuestionOpen   QuestionType = "open"
)

// swagger:model Test
type Test struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	OwnerID     uint       `gorm:"index;not null" json:"owner_id"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	Groups      []Group    `gorm:"many2many:test_groups;" json:"groups,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
	Levels      []Level    `json:"levels,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// GroupIDs returns the ids of the groups the test is assigned to.
func (t *Test) GroupIDs() []uint {
	ids := make([]uint, 0, len(t.Groups))
	for _, g := range t.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

type Question struct {
	BaseModel
	TestID        uint           `gorm:"not null;uniqueIndex:idx_question_test_order" json:"test_id"`
	Order         int            `gorm:"not null;uniqueIndex:idx_question_test_order" json:"order"`
	Type          QuestionType   `gorm:"size:10;not null" json:"type"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	ImageURL      string         `gorm:"size:500" json:"image_url,omitempty"`
	CorrectAnswer string         `gorm:"type:text" json:"correct_answer,omitempty"`
	Options       []AnswerOption `json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

type AnswerOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	Order      int    `gorm:"default:0" json:"order"`
	Text       string `gorm:"size:500" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

// Level is a band of percentage scores with feedback authored by the teacher.
type Level struct {
	BaseModel
	TestID          uint   `gorm:"index;not null" json:"test_id"`
	Order           int    `gorm:"default:0" json:"order"`
	Title           string `gorm:"size:200;not null" json:"title"`
	MinPercent      int    `json:"min_percent"`
	MaxPercent      int    `json:"max_percent"`
	Description     string `gorm:"type:text" json:"description"`
	Recommendations string `gorm:"type:text" json:"recommendations"`
}

func (Level) TableName() string {
	return "levels"
}
