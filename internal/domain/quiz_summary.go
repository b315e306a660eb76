package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuizSummary is the graded record of one submission. Rows are immutable
// once created; correctness is captured at submission time and never
// recomputed, so historical results survive later quiz edits.
type QuizSummary struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_summary_user_course" json:"user_id"`
	User     *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID uuid.UUID  `gorm:"type:uuid;not null;index:idx_summary_user_course" json:"course_id"`
	QuizID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"quiz_id"`
	LessonID *uuid.UUID `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	Role     QuizRole   `gorm:"column:role;not null;index" json:"role"`
	Score    int        `gorm:"column:score;not null" json:"score"`

	QuestionSummaries []*QuestionSummary `gorm:"foreignKey:QuizSummaryID;references:ID" json:"question_summaries,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuizSummary) TableName() string { return "quiz_summary" }

type QuestionSummary struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizSummaryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_summary_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Index          int       `gorm:"column:index;not null" json:"index"`
	SelectedOption int       `gorm:"column:selected_option;not null" json:"selected_option"`
	Correct        bool      `gorm:"column:correct;not null" json:"correct"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuestionSummary) TableName() string { return "question_summary" }
