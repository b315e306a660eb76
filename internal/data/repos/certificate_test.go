package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestCertificateRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCertificateRepo(db, testutil.Logger(t))

	userID := uuid.New()
	courseID := uuid.New()

	first := &domain.Certificate{
		ID:            uuid.New(),
		UserID:        userID,
		CourseID:      courseID,
		QuizSummaryID: uuid.New(),
		ImagePath:     "certificates/first.png",
		IssuedAt:      time.Now().UTC(),
	}
	created, err := repo.Issue(ctx, tx, first)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !created {
		t.Fatal("first Issue should create")
	}

	// Issuance is write-once per (user, course).
	created, err = repo.Issue(ctx, tx, &domain.Certificate{
		ID:            uuid.New(),
		UserID:        userID,
		CourseID:      courseID,
		QuizSummaryID: uuid.New(),
		IssuedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Issue duplicate: %v", err)
	}
	if created {
		t.Fatal("duplicate Issue must be a no-op")
	}

	row, err := repo.GetByUserAndCourse(ctx, tx, userID, courseID)
	if err != nil || row == nil {
		t.Fatalf("GetByUserAndCourse: row=%v err=%v", row, err)
	}
	if row.ID != first.ID {
		t.Fatalf("row = %s, want the original certificate %s", row.ID, first.ID)
	}

	all, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil || len(all) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(all))
	}
}
