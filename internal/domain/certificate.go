package domain

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records an issued certificate. Issuance is monotonic: once a
// qualifying final-quiz summary exists the record is never revoked.
type Certificate struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_certificate_user_course,unique" json:"user_id"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null;index:idx_certificate_user_course,unique" json:"course_id"`
	QuizSummaryID uuid.UUID `gorm:"type:uuid;not null" json:"quiz_summary_id"`
	ImagePath     string    `gorm:"column:image_path" json:"image_path,omitempty"`
	IssuedAt      time.Time `gorm:"column:issued_at;not null" json:"issued_at"`
}

func (Certificate) TableName() string { return "certificate" }
