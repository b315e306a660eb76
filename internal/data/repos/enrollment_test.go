package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestEnrollmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewEnrollmentRepo(db, testutil.Logger(t))

	userID := uuid.New()
	courseID := uuid.New()

	if row, err := repo.GetByUserAndCourse(ctx, tx, userID, courseID); err != nil || row != nil {
		t.Fatalf("GetByUserAndCourse before enroll: row=%v err=%v, want nil,nil", row, err)
	}

	first := &domain.Enrollment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Status:   domain.EnrollmentEnrolled,
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Second upsert for the same (user, course) is a no-op.
	dup := &domain.Enrollment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Status:   domain.EnrollmentCompleted,
	}
	if err := repo.Upsert(ctx, tx, dup); err != nil {
		t.Fatalf("Upsert duplicate: %v", err)
	}

	row, err := repo.GetByUserAndCourse(ctx, tx, userID, courseID)
	if err != nil {
		t.Fatalf("GetByUserAndCourse: %v", err)
	}
	if row == nil || row.ID != first.ID || row.Status != domain.EnrollmentEnrolled {
		t.Fatalf("row = %+v, want the original enrollment untouched", row)
	}

	if err := repo.UpdateStatus(ctx, tx, userID, courseID, domain.EnrollmentInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	row, err = repo.GetByUserAndCourse(ctx, tx, userID, courseID)
	if err != nil || row == nil {
		t.Fatalf("GetByUserAndCourse after update: row=%v err=%v", row, err)
	}
	if row.Status != domain.EnrollmentInProgress {
		t.Fatalf("status = %s, want %s", row.Status, domain.EnrollmentInProgress)
	}

	all, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil || len(all) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(all))
	}
}
