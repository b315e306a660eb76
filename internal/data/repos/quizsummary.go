package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type QuizSummaryRepo interface {
	// Create persists a summary together with its question summaries.
	Create(ctx context.Context, tx *gorm.DB, row *domain.QuizSummary) (*domain.QuizSummary, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.QuizSummary, error)
	// GetByUserCourseRole returns summaries newest first.
	GetByUserCourseRole(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, role domain.QuizRole) ([]*domain.QuizSummary, error)
}

type quizSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizSummaryRepo(db *gorm.DB, baseLog *logger.Logger) QuizSummaryRepo {
	return &quizSummaryRepo{db: db, log: baseLog.With("repo", "QuizSummaryRepo")}
}

func (r *quizSummaryRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.QuizSummary) (*domain.QuizSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *quizSummaryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.QuizSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.QuizSummary
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Preload("QuestionSummaries", orderByIndex).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizSummaryRepo) GetByUserCourseRole(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, role domain.QuizRole) ([]*domain.QuizSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.QuizSummary
	if userID == uuid.Nil || courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND role = ?", userID, courseID, role).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
