package db

import (
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// AutoMigrateAll creates or updates every table. Order matters only for
// readability; FK constraints are disabled during migration.
func AutoMigrateAll(handle *gorm.DB) error {
	return handle.AutoMigrate(
		&domain.User{},
		&domain.UserToken{},
		&domain.Quiz{},
		&domain.Question{},
		&domain.Course{},
		&domain.Lesson{},
		&domain.Enrollment{},
		&domain.LessonCompletion{},
		&domain.QuizSummary{},
		&domain.QuestionSummary{},
		&domain.Certificate{},
	)
}
