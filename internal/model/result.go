package model

import "time"

// TestResult is the single outcome of a student completing a test.
type TestResult struct {
	BaseModel
	TestID         uint            `gorm:"not null;uniqueIndex:idx_result_test_student" json:"test_id"`
	StudentID      uint            `gorm:"not null;uniqueIndex:idx_result_test_student" json:"student_id"`
	Score          int             `gorm:"default:0" json:"score"`
	TotalQuestions int             `gorm:"default:0" json:"total_questions"`
	TimeSpent      int             `gorm:"default:0" json:"time_spent"` // seconds, client reported
	CompletedAt    time.Time       `json:"completed_at"`
	Test           *Test           `json:"test,omitempty"`
	Student        *User           `json:"student,omitempty"`
	Answers        []StudentAnswer `gorm:"foreignKey:ResultID" json:"answers,omitempty"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// StudentAnswer holds either SelectedOptionID (choice) or TextAnswer (open).
type StudentAnswer struct {
	BaseModel
	ResultID         uint    `gorm:"index;not null" json:"result_id"`
	QuestionID       uint    `gorm:"index;not null" json:"question_id"`
	SelectedOptionID *uint   `json:"selected_option_id,omitempty"`
	TextAnswer       *string `gorm:"type:text" json:"text_answer,omitempty"`
	IsCorrect        bool    `gorm:"default:false" json:"is_correct"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
