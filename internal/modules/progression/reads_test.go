package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

func TestListEnrollments(t *testing.T) {
	store := newMemStore()
	courseA, user := seedLearner(t, store, 1)
	courseB := buildCourse(t, 1)
	store.courses[courseB.ID] = courseB
	uc := newTestUsecases(t, store)
	ctx := context.Background()

	for _, c := range []*domain.Course{courseA, courseB} {
		if _, err := uc.Enroll(ctx, EnrollInput{UserID: user.ID, CourseID: c.ID}); err != nil {
			t.Fatalf("Enroll: %v", err)
		}
	}

	out, err := uc.ListEnrollments(ctx, ListEnrollmentsInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("ListEnrollments: %v", err)
	}
	if len(out.Enrollments) != 2 {
		t.Fatalf("enrollments = %d, want 2", len(out.Enrollments))
	}

	// Complete course A's single lesson to move it to in_progress; the
	// status filter should then see exactly one row per status.
	if _, err := uc.SubmitIntroQuiz(ctx, SubmitIntroQuizInput{
		UserID: user.ID, CourseID: courseA.ID,
		Selections: answerQuiz(courseA.IntroQuiz, 5),
	}); err != nil {
		t.Fatalf("intro: %v", err)
	}
	if _, err := uc.SubmitLessonQuiz(ctx, SubmitLessonQuizInput{
		UserID: user.ID, CourseID: courseA.ID, LessonID: courseA.Lessons[0].ID,
		Selections: answerQuiz(courseA.Lessons[0].Quiz, 4),
	}); err != nil {
		t.Fatalf("lesson: %v", err)
	}

	inProgress, err := uc.ListEnrollments(ctx, ListEnrollmentsInput{UserID: user.ID, Status: domain.EnrollmentInProgress})
	if err != nil {
		t.Fatalf("ListEnrollments(in_progress): %v", err)
	}
	if len(inProgress.Enrollments) != 1 || inProgress.Enrollments[0].CourseID != courseA.ID {
		t.Fatalf("in_progress = %+v, want course A only", inProgress.Enrollments)
	}

	none, err := uc.ListEnrollments(ctx, ListEnrollmentsInput{UserID: uuid.New()})
	if err != nil || len(none.Enrollments) != 0 {
		t.Fatalf("stranger enrollments = %d err=%v, want empty", len(none.Enrollments), err)
	}
}

func TestGetQuizStripsAnswers(t *testing.T) {
	store := newMemStore()
	course, user := seedLearner(t, store, 1)
	uc := newTestUsecases(t, store)
	ctx := context.Background()

	if _, err := uc.Enroll(ctx, EnrollInput{UserID: user.ID, CourseID: course.ID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	out, err := uc.GetQuiz(ctx, GetQuizInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleIntroductory,
	})
	if err != nil {
		t.Fatalf("GetQuiz(intro): %v", err)
	}
	quiz := out.Quiz
	if quiz.ID != course.IntroQuiz.ID || quiz.Role != domain.QuizRoleIntroductory {
		t.Fatalf("quiz = %+v", quiz)
	}
	if len(quiz.Questions) != len(course.IntroQuiz.Questions) {
		t.Fatalf("questions = %d, want %d", len(quiz.Questions), len(course.IntroQuiz.Questions))
	}
	for i, q := range quiz.Questions {
		if q.Index != i {
			t.Fatalf("question %d has index %d", i, q.Index)
		}
		if len(q.Options) != 4 {
			t.Fatalf("question %d options = %d, want 4", i, len(q.Options))
		}
		for _, o := range q.Options {
			if o.Text == "" {
				t.Fatalf("question %d has an empty option text", i)
			}
		}
	}

	// The final quiz is viewable before the lessons are done; only the
	// submission is gated.
	if _, err := uc.GetQuiz(ctx, GetQuizInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleFinal,
	}); err != nil {
		t.Fatalf("GetQuiz(final): %v", err)
	}
}

func TestGetLessonQuizHonorsGate(t *testing.T) {
	store := newMemStore()
	course, user := seedLearner(t, store, 2)
	uc := newTestUsecases(t, store)
	ctx := context.Background()

	if _, err := uc.Enroll(ctx, EnrollInput{UserID: user.ID, CourseID: course.ID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	// Gated before the intro quiz.
	_, err := uc.GetQuiz(ctx, GetQuizInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleLesson,
		LessonID: course.Lessons[0].ID,
	})
	mustOutOfOrder(t, err)

	if _, err := uc.SubmitIntroQuiz(ctx, SubmitIntroQuizInput{
		UserID: user.ID, CourseID: course.ID,
		Selections: answerQuiz(course.IntroQuiz, 5),
	}); err != nil {
		t.Fatalf("intro: %v", err)
	}

	if _, err := uc.GetQuiz(ctx, GetQuizInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleLesson,
		LessonID: course.Lessons[0].ID,
	}); err != nil {
		t.Fatalf("GetQuiz(lesson 0): %v", err)
	}

	// Second lesson stays gated until the first is completed.
	_, err = uc.GetQuiz(ctx, GetQuizInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleLesson,
		LessonID: course.Lessons[1].ID,
	})
	mustOutOfOrder(t, err)

	if _, err := uc.GetQuiz(ctx, GetQuizInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleLesson,
		LessonID: uuid.New(),
	}); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("unknown lesson err = %v, want ErrLessonNotFound", err)
	}
}

func TestQuizSummaryReads(t *testing.T) {
	store := newMemStore()
	course, user := seedLearner(t, store, 1)
	uc := newTestUsecases(t, store)
	ctx := context.Background()

	if _, err := uc.Enroll(ctx, EnrollInput{UserID: user.ID, CourseID: course.ID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	var last *domain.QuizSummary
	for _, correct := range []int{2, 4} {
		out, err := uc.SubmitIntroQuiz(ctx, SubmitIntroQuizInput{
			UserID: user.ID, CourseID: course.ID,
			Selections: answerQuiz(course.IntroQuiz, correct),
		})
		if err != nil {
			t.Fatalf("intro (%d correct): %v", correct, err)
		}
		last = out.Summary
	}

	list, err := uc.ListQuizSummaries(ctx, ListQuizSummariesInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRoleIntroductory,
	})
	if err != nil {
		t.Fatalf("ListQuizSummaries: %v", err)
	}
	if len(list.Summaries) != 2 || list.Summaries[0].ID != last.ID {
		t.Fatalf("summaries = %+v, want 2 newest first", list.Summaries)
	}

	if _, err := uc.ListQuizSummaries(ctx, ListQuizSummariesInput{
		UserID: user.ID, CourseID: course.ID, Role: domain.QuizRole("bogus"),
	}); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("bogus role err = %v, want ErrQuizNotFound", err)
	}

	single, err := uc.GetQuizSummary(ctx, GetQuizSummaryInput{UserID: user.ID, SummaryID: last.ID})
	if err != nil {
		t.Fatalf("GetQuizSummary: %v", err)
	}
	if single.Summary.ID != last.ID || len(single.Summary.QuestionSummaries) != 5 {
		t.Fatalf("summary = %+v", single.Summary)
	}

	// Another user's summary reads as not found.
	if _, err := uc.GetQuizSummary(ctx, GetQuizSummaryInput{UserID: uuid.New(), SummaryID: last.ID}); !errors.Is(err, ErrSummaryNotFound) {
		t.Fatalf("foreign summary err = %v, want ErrSummaryNotFound", err)
	}
	if _, err := uc.GetQuizSummary(ctx, GetQuizSummaryInput{UserID: user.ID, SummaryID: uuid.New()}); !errors.Is(err, ErrSummaryNotFound) {
		t.Fatalf("unknown summary err = %v, want ErrSummaryNotFound", err)
	}
}
