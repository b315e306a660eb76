package progression

import (
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// buildQuiz returns a quiz with n four-option questions; option 0 is the
// correct one on every question.
func buildQuiz(t *testing.T, n int) *domain.Quiz {
	t.Helper()

	quiz := &domain.Quiz{ID: uuid.New(), Name: "fixture quiz"}
	for i := 0; i < n; i++ {
		q := &domain.Question{
			ID:     uuid.New(),
			QuizID: quiz.ID,
			Index:  i,
			Name:   "question",
		}
		err := q.SetOptions([]domain.Option{
			{Text: "right", Correct: true},
			{Text: "wrong a"},
			{Text: "wrong b"},
			{Text: "wrong c"},
		})
		if err != nil {
			t.Fatalf("set options: %v", err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

// answerQuiz selects the correct option on the first `correct` questions
// and a wrong one everywhere else.
func answerQuiz(quiz *domain.Quiz, correct int) Selections {
	selections := make(Selections, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if i < correct {
			selections[q.ID] = 0
		} else {
			selections[q.ID] = 1
		}
	}
	return selections
}

// buildLessons returns n ordered lessons for the given course, each with
// its own quiz.
func buildLessons(t *testing.T, courseID uuid.UUID, n int) []*domain.Lesson {
	t.Helper()

	lessons := make([]*domain.Lesson, 0, n)
	for i := 0; i < n; i++ {
		quiz := buildQuiz(t, 4)
		lessons = append(lessons, &domain.Lesson{
			ID:       uuid.New(),
			CourseID: courseID,
			Index:    i,
			Name:     "lesson",
			QuizID:   &quiz.ID,
			Quiz:     quiz,
		})
	}
	return lessons
}

// buildCourse returns a course with an intro quiz, a final quiz, and n
// lessons, all graded out of a handful of questions.
func buildCourse(t *testing.T, n int) *domain.Course {
	t.Helper()

	intro := buildQuiz(t, 5)
	final := buildQuiz(t, 5)
	course := &domain.Course{
		ID:          uuid.New(),
		Name:        "fixture course",
		IntroQuizID: &intro.ID,
		IntroQuiz:   intro,
		FinalQuizID: &final.ID,
		FinalQuiz:   final,
	}
	course.Lessons = buildLessons(t, course.ID, n)
	return course
}
