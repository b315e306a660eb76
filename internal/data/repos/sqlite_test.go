package repos

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/skillforge/skillforge-backend/internal/data/db"
	"github.com/skillforge/skillforge-backend/internal/data/repos/testutil"
	"github.com/skillforge/skillforge-backend/internal/domain"
)

// sqliteDB opens a throwaway file-backed sqlite database and runs the full
// migration over it. A file, not :memory:, because gorm's pool would hand
// each connection its own empty in-memory database.
func sqliteDB(t *testing.T) *gorm.DB {
	t.Helper()
	handle, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repos.db")), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrateAll(handle); err != nil {
		t.Fatalf("AutoMigrateAll on sqlite: %v", err)
	}
	return handle
}

// The dev fallback driver must accept the same schema as postgres: no
// server-side defaults in the DDL, and reserved words like "index" quoted
// in queries.
func TestSQLiteDevDatabase(t *testing.T) {
	handle := sqliteDB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	courses := NewCourseRepo(handle, log)
	quiz := testQuiz(t, "checkpoint", 2)
	course := &domain.Course{
		ID:   uuid.New(),
		Name: "SQL Basics",
	}
	course.Lessons = []*domain.Lesson{
		{ID: uuid.New(), CourseID: course.ID, Index: 1, Name: "Joins", Difficulty: domain.DifficultyMedium},
		{ID: uuid.New(), CourseID: course.ID, Index: 0, Name: "Selects", Difficulty: domain.DifficultyEasy, QuizID: &quiz.ID, Quiz: quiz},
	}
	if _, err := courses.Create(ctx, nil, []*domain.Course{course}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	loaded, err := courses.GetByIDs(ctx, nil, []uuid.UUID{course.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(loaded) != 1 || len(loaded[0].Lessons) != 2 {
		t.Fatalf("course round trip: %+v", loaded)
	}
	if loaded[0].Lessons[0].Name != "Selects" || loaded[0].Lessons[1].Name != "Joins" {
		t.Fatalf("lessons not ordered by index: %s, %s", loaded[0].Lessons[0].Name, loaded[0].Lessons[1].Name)
	}
	lessonQuiz := loaded[0].Lessons[0].Quiz
	if lessonQuiz == nil || len(lessonQuiz.Questions) != 2 || lessonQuiz.Questions[0].Index != 0 {
		t.Fatalf("lesson quiz not preloaded in order: %+v", lessonQuiz)
	}

	// The idempotent-insert path goes through ON CONFLICT, which sqlite
	// must also honor.
	completions := NewLessonCompletionRepo(handle, log)
	userID := uuid.New()
	row := &domain.LessonCompletion{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: course.ID,
		LessonID: course.Lessons[0].ID,
	}
	created, err := completions.Record(ctx, nil, row)
	if err != nil || !created {
		t.Fatalf("Record: created=%v err=%v", created, err)
	}
	dup := &domain.LessonCompletion{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: course.ID,
		LessonID: course.Lessons[0].ID,
	}
	created, err = completions.Record(ctx, nil, dup)
	if err != nil || created {
		t.Fatalf("duplicate Record: created=%v err=%v", created, err)
	}
}
