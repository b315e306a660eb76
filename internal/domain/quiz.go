package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizRole is not stored on the quiz itself; it is determined by where the
// quiz is attached (course intro, lesson, course final) and recorded on the
// summary at submission time.
type QuizRole string

const (
	QuizRoleIntroductory QuizRole = "introductory"
	QuizRoleLesson       QuizRole = "lesson"
	QuizRoleFinal        QuizRole = "final"
)

type Quiz struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`

	Questions []*Question `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

type Question struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz   *Quiz     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Index  int       `gorm:"column:index;not null" json:"index"`
	Name   string    `gorm:"column:name;not null" json:"name"`

	// Ordered option list stored as jsonb in canonical form (text/correct).
	Options datatypes.JSON `gorm:"column:options;type:jsonb" json:"options"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// UnmarshalJSON accepts the legacy field aliases seen in authoring payloads
// ("name" for text, "isCorrect"/"is_correct" for correct) and resolves them
// into the canonical schema in one place. Everything downstream sees only
// Text/Correct.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text      *string `json:"text"`
		Name      *string `json:"name"`
		Correct   *bool   `json:"correct"`
		IsCorrect *bool   `json:"isCorrect"`
		IsSnake   *bool   `json:"is_correct"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Text != nil:
		o.Text = *raw.Text
	case raw.Name != nil:
		o.Text = *raw.Name
	}
	switch {
	case raw.Correct != nil:
		o.Correct = *raw.Correct
	case raw.IsCorrect != nil:
		o.Correct = *raw.IsCorrect
	case raw.IsSnake != nil:
		o.Correct = *raw.IsSnake
	}
	return nil
}

// DecodedOptions returns the ordered option list for scoring and display.
func (q *Question) DecodedOptions() ([]Option, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []Option
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
	}
	return opts, nil
}

// SetOptions stores options in canonical jsonb form.
func (q *Question) SetOptions(opts []Option) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(raw)
	return nil
}
