package progression

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrAlreadyCompleted rejects resubmission of a final quiz that already has
// a passing summary for the (user, course). The guard applies to the final
// quiz only; intro and lesson quizzes accept retakes.
var ErrAlreadyCompleted = errors.New("final quiz already passed")

// ErrCourseNotFound covers course, quiz, or lesson lookups that come back
// empty. Distinct from the three recoverable progress signals.
var ErrCourseNotFound = errors.New("course not found")

var ErrQuizNotFound = errors.New("quiz not found")

var ErrLessonNotFound = errors.New("lesson not found")

var ErrNotEnrolled = errors.New("user not enrolled in course")

var ErrCertificateNotEarned = errors.New("certificate not earned")

// ErrSummaryNotFound also covers summaries owned by another user; ownership
// is not disclosed.
var ErrSummaryNotFound = errors.New("quiz summary not found")

// IncompleteSubmissionError names every question missing from a submission.
// Partial answers are a caller error, never silently padded.
type IncompleteSubmissionError struct {
	Missing []uuid.UUID
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("incomplete submission: %d unanswered question(s)", len(e.Missing))
}

// InvalidSelectionError reports an option index outside the question's
// option list.
type InvalidSelectionError struct {
	QuestionID uuid.UUID
	Selected   int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection %d for question %s", e.Selected, e.QuestionID)
}

// OutOfOrderAccessError reports an attempt to open a lesson or sit a quiz
// that is still gated.
type OutOfOrderAccessError struct {
	LessonID uuid.UUID
	Reason   string
}

func (e *OutOfOrderAccessError) Error() string {
	if e.LessonID != uuid.Nil {
		return fmt.Sprintf("out of order access to lesson %s: %s", e.LessonID, e.Reason)
	}
	return fmt.Sprintf("out of order access: %s", e.Reason)
}
