package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	ImageURL    string     `gorm:"column:image_url" json:"image_url,omitempty"`
	IntroQuizID *uuid.UUID `gorm:"type:uuid;index" json:"intro_quiz_id,omitempty"`
	IntroQuiz   *Quiz      `gorm:"constraint:OnDelete:SET NULL;foreignKey:IntroQuizID;references:ID" json:"intro_quiz,omitempty"`
	FinalQuizID *uuid.UUID `gorm:"type:uuid;index" json:"final_quiz_id,omitempty"`
	FinalQuiz   *Quiz      `gorm:"constraint:OnDelete:SET NULL;foreignKey:FinalQuizID;references:ID" json:"final_quiz,omitempty"`

	// Lesson order is significant and fixed once persisted; readers must sort
	// by Index.
	Lessons []*Lesson `gorm:"foreignKey:CourseID;references:ID" json:"lessons,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

type Lesson struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *Course    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Index       int        `gorm:"column:index;not null" json:"index"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	VideoURL    string     `gorm:"column:video_url" json:"video_url,omitempty"`
	Difficulty  string     `gorm:"column:difficulty;not null;default:'easy'" json:"difficulty"`
	QuizID      *uuid.UUID `gorm:"type:uuid;index" json:"quiz_id,omitempty"`
	Quiz        *Quiz      `gorm:"constraint:OnDelete:SET NULL;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
