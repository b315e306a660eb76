package progression

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// The three progress signals, each independently fetched and independently
// failable. Transport-agnostic; the data layer provides adapters.
type EnrollmentSource interface {
	GetEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error)
}

type CompletionSource interface {
	GetCompletedLessons(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error)
}

type QuizSummarySource interface {
	GetQuizSummaries(ctx context.Context, userID, courseID uuid.UUID, role domain.QuizRole) ([]*domain.QuizSummary, error)
}

// DegradedSignals marks which upstream reads failed and were replaced by
// empty fallbacks. Callers may render a reduced view; they must not treat
// the zero values as authoritative.
type DegradedSignals struct {
	Enrollment    bool `json:"enrollment"`
	Completions   bool `json:"completions"`
	QuizSummaries bool `json:"quiz_summaries"`
}

func (d DegradedSignals) Any() bool {
	return d.Enrollment || d.Completions || d.QuizSummaries
}

type LessonProgress struct {
	LessonID uuid.UUID   `json:"lesson_id"`
	State    LessonState `json:"state"`
}

// CourseProgress is the derived progress view for one user and course.
// Recomputed on demand, cached at most briefly, never the source of truth.
type CourseProgress struct {
	UserID   uuid.UUID `json:"user_id"`
	CourseID uuid.UUID `json:"course_id"`

	Enrolled        bool        `json:"enrolled"`
	IntroQuizPassed bool        `json:"intro_quiz_passed"`
	Completed       bool        `json:"completed"`
	State           CourseState `json:"state"`

	CompletedLessonIDs   []uuid.UUID      `json:"completed_lesson_ids"`
	PassedQuizSummaryIDs []uuid.UUID      `json:"passed_quiz_summary_ids"`
	CompletionPercent    int              `json:"completion_percent"`
	Lessons              []LessonProgress `json:"lessons"`

	Degraded DegradedSignals `json:"degraded"`
}

// Aggregate merges the three signals into one consistent view. The reads
// run concurrently and the call waits for all of them to settle; a failed
// branch degrades to its empty value instead of failing the whole call.
// Arrival order never changes the result.
func Aggregate(
	ctx context.Context,
	course *domain.Course,
	userID uuid.UUID,
	enrollments EnrollmentSource,
	completions CompletionSource,
	summaries QuizSummarySource,
) CourseProgress {
	var (
		wg sync.WaitGroup

		enrollment    *domain.Enrollment
		enrollmentErr error

		completedIDs  []uuid.UUID
		completionErr error

		introSums  []*domain.QuizSummary
		lessonSums []*domain.QuizSummary
		finalSums  []*domain.QuizSummary
		summaryErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		enrollment, enrollmentErr = enrollments.GetEnrollment(ctx, userID, course.ID)
	}()
	go func() {
		defer wg.Done()
		completedIDs, completionErr = completions.GetCompletedLessons(ctx, userID, course.ID)
	}()
	go func() {
		defer wg.Done()
		introSums, summaryErr = summaries.GetQuizSummaries(ctx, userID, course.ID, domain.QuizRoleIntroductory)
		if summaryErr != nil {
			return
		}
		lessonSums, summaryErr = summaries.GetQuizSummaries(ctx, userID, course.ID, domain.QuizRoleLesson)
		if summaryErr != nil {
			return
		}
		finalSums, summaryErr = summaries.GetQuizSummaries(ctx, userID, course.ID, domain.QuizRoleFinal)
	}()
	wg.Wait()

	progress := CourseProgress{
		UserID:   userID,
		CourseID: course.ID,
	}

	if enrollmentErr != nil {
		progress.Degraded.Enrollment = true
		enrollment = nil
	}
	if completionErr != nil {
		progress.Degraded.Completions = true
		completedIDs = nil
	}
	if summaryErr != nil {
		progress.Degraded.QuizSummaries = true
		introSums, lessonSums, finalSums = nil, nil, nil
	}

	progress.Enrolled = enrollment != nil

	completedSet := make(map[uuid.UUID]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	hasIntroQuiz := course.IntroQuizID != nil
	introAttempted := len(introSums) > 0
	progress.IntroQuizPassed = !hasIntroQuiz
	for _, s := range introSums {
		if Passed(domain.QuizRoleIntroductory, s.Score) {
			progress.IntroQuizPassed = true
			break
		}
	}
	// Availability over gating, same as the completion signal: an unreadable
	// summary store must not lock content the learner may already have
	// earned. The pass is provisional and disappears once the signal heals.
	if progress.Degraded.QuizSummaries {
		progress.IntroQuizPassed = true
	}

	// Completion is decided by the final quiz alone; every lesson completed
	// is a precondition enforced at submission time.
	for _, s := range finalSums {
		if Passed(domain.QuizRoleFinal, s.Score) {
			progress.Completed = true
			break
		}
	}

	for _, s := range append(append(append([]*domain.QuizSummary{}, introSums...), lessonSums...), finalSums...) {
		if Passed(s.Role, s.Score) {
			progress.PassedQuizSummaryIDs = append(progress.PassedQuizSummaryIDs, s.ID)
		}
	}

	attempted := make(map[uuid.UUID]bool, len(lessonSums))
	for _, s := range lessonSums {
		if s.LessonID != nil {
			attempted[*s.LessonID] = true
		}
	}

	unlocked := UnlockedLessons(UnlockInput{
		Lessons:                course.Lessons,
		CompletedLessonIDs:     completedSet,
		IntroQuizPassed:        progress.IntroQuizPassed,
		CompletionsUnavailable: progress.Degraded.Completions,
	})

	completedCount := 0
	for _, l := range course.Lessons {
		done := completedSet[l.ID]
		if done {
			completedCount++
			progress.CompletedLessonIDs = append(progress.CompletedLessonIDs, l.ID)
		}
		progress.Lessons = append(progress.Lessons, LessonProgress{
			LessonID: l.ID,
			State:    lessonState(unlocked[l.ID], attempted[l.ID], done),
		})
	}
	progress.CompletionPercent = percentage(completedCount, len(course.Lessons))

	progress.State = courseState(
		progress.Enrolled,
		hasIntroQuiz,
		introAttempted,
		progress.IntroQuizPassed,
		progress.Completed,
	)

	return progress
}
