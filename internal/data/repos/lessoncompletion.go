package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type LessonCompletionRepo interface {
	// Record inserts the completion if absent and reports whether a row
	// already existed. A lesson is completed at most once per user.
	Record(ctx context.Context, tx *gorm.DB, row *domain.LessonCompletion) (created bool, err error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*domain.LessonCompletion, error)
}

type lessonCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return &lessonCompletionRepo{db: db, log: baseLog.With("repo", "LessonCompletionRepo")}
}

func (r *lessonCompletionRepo) Record(ctx context.Context, tx *gorm.DB, row *domain.LessonCompletion) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lessonCompletionRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*domain.LessonCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonCompletion
	if userID == uuid.Nil || courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
