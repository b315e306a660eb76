package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestQuizSummaryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuizSummaryRepo(db, testutil.Logger(t))

	userID := uuid.New()
	courseID := uuid.New()
	quizID := uuid.New()
	now := time.Now().UTC()

	older := &domain.QuizSummary{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		QuizID:    quizID,
		Role:      domain.QuizRoleIntroductory,
		Score:     40,
		CreatedAt: now.Add(-time.Hour),
	}
	newer := &domain.QuizSummary{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		QuizID:   quizID,
		Role:     domain.QuizRoleIntroductory,
		Score:    80,
		QuestionSummaries: []*domain.QuestionSummary{
			{ID: uuid.New(), QuestionID: uuid.New(), Index: 1, SelectedOption: 2, Correct: false},
			{ID: uuid.New(), QuestionID: uuid.New(), Index: 0, SelectedOption: 0, Correct: true},
		},
		CreatedAt: now,
	}

	for _, row := range []*domain.QuizSummary{older, newer} {
		if _, err := repo.Create(ctx, tx, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := repo.GetByUserCourseRole(ctx, tx, userID, courseID, domain.QuizRoleIntroductory)
	if err != nil {
		t.Fatalf("GetByUserCourseRole: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ID != newer.ID {
		t.Fatalf("expected newest first, got %s", rows[0].ID)
	}

	// Role filter isolates summaries.
	rows, err = repo.GetByUserCourseRole(ctx, tx, userID, courseID, domain.QuizRoleFinal)
	if err != nil || len(rows) != 0 {
		t.Fatalf("final rows = %d err=%v, want empty", len(rows), err)
	}

	// Question summaries come back ordered by index.
	loaded, err := repo.GetByIDs(ctx, tx, []uuid.UUID{newer.ID})
	if err != nil || len(loaded) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(loaded))
	}
	qs := loaded[0].QuestionSummaries
	if len(qs) != 2 || qs[0].Index != 0 || qs[1].Index != 1 {
		t.Fatalf("question summaries out of order: %+v", qs)
	}
}
