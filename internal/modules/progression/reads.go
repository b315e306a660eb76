package progression

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// OptionView is a single answer choice with the correct flag stripped.
type OptionView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type QuestionView struct {
	ID      uuid.UUID    `json:"id"`
	Index   int          `json:"index"`
	Name    string       `json:"name"`
	Options []OptionView `json:"options"`
}

// QuizView is the learner-facing rendition of a quiz. Answer flags never
// leave the server; grading happens against the stored definition.
type QuizView struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Role      domain.QuizRole `json:"role"`
	Questions []QuestionView  `json:"questions"`
}

func NewQuizView(quiz *domain.Quiz, role domain.QuizRole) (*QuizView, error) {
	view := &QuizView{
		ID:   quiz.ID,
		Name: quiz.Name,
		Role: role,
	}
	for _, q := range orderedQuestions(quiz) {
		opts, err := q.DecodedOptions()
		if err != nil {
			return nil, err
		}
		qv := QuestionView{
			ID:    q.ID,
			Index: q.Index,
			Name:  q.Name,
		}
		for i, o := range opts {
			qv.Options = append(qv.Options, OptionView{Index: i, Text: o.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}

type ListEnrollmentsInput struct {
	UserID uuid.UUID
	// Status filters to one enrollment status when non-empty.
	Status string
}

type ListEnrollmentsOutput struct {
	Enrollments []*domain.Enrollment
}

func (u *usecases) ListEnrollments(ctx context.Context, input ListEnrollmentsInput) (*ListEnrollmentsOutput, error) {
	rows, err := u.enrollments.GetByUserID(ctx, nil, input.UserID)
	if err != nil {
		return nil, err
	}
	if input.Status == "" {
		return &ListEnrollmentsOutput{Enrollments: rows}, nil
	}
	filtered := make([]*domain.Enrollment, 0, len(rows))
	for _, row := range rows {
		if row.Status == input.Status {
			filtered = append(filtered, row)
		}
	}
	return &ListEnrollmentsOutput{Enrollments: filtered}, nil
}

type GetQuizInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	Role     domain.QuizRole
	// LessonID is required for the lesson role and ignored otherwise.
	LessonID uuid.UUID
}

type GetQuizOutput struct {
	Quiz *QuizView
}

// GetQuiz serves a quiz for taking, with answer flags stripped. Lesson
// quizzes honor the same in-order gate as lesson content; intro and final
// quizzes are viewable to any enrolled learner (the final submission gate
// still applies at submit time).
func (u *usecases) GetQuiz(ctx context.Context, input GetQuizInput) (*GetQuizOutput, error) {
	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if err := u.requireEnrollment(ctx, input.UserID, input.CourseID); err != nil {
		return nil, err
	}

	var quiz *domain.Quiz
	switch input.Role {
	case domain.QuizRoleIntroductory:
		quiz = course.IntroQuiz
	case domain.QuizRoleFinal:
		quiz = course.FinalQuiz
	case domain.QuizRoleLesson:
		lesson := findLesson(course, input.LessonID)
		if lesson == nil {
			return nil, ErrLessonNotFound
		}
		quiz = lesson.Quiz
		if quiz != nil {
			progress := u.aggregate(ctx, course, input.UserID)
			accessible := false
			for _, lp := range progress.Lessons {
				if lp.LessonID == input.LessonID && lp.State != LessonLocked {
					accessible = true
				}
			}
			if !accessible {
				if !progress.IntroQuizPassed {
					return nil, &OutOfOrderAccessError{LessonID: input.LessonID, Reason: "introductory quiz not passed"}
				}
				return nil, &OutOfOrderAccessError{LessonID: input.LessonID, Reason: "previous lesson not completed"}
			}
		}
	default:
		return nil, ErrQuizNotFound
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	view, err := NewQuizView(quiz, input.Role)
	if err != nil {
		return nil, err
	}
	return &GetQuizOutput{Quiz: view}, nil
}

type ListQuizSummariesInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	Role     domain.QuizRole
}

type ListQuizSummariesOutput struct {
	Summaries []*domain.QuizSummary
}

// ListQuizSummaries returns the caller's graded attempts for one course and
// role, newest first.
func (u *usecases) ListQuizSummaries(ctx context.Context, input ListQuizSummariesInput) (*ListQuizSummariesOutput, error) {
	switch input.Role {
	case domain.QuizRoleIntroductory, domain.QuizRoleLesson, domain.QuizRoleFinal:
	default:
		return nil, ErrQuizNotFound
	}
	rows, err := u.summaries.GetByUserCourseRole(ctx, nil, input.UserID, input.CourseID, input.Role)
	if err != nil {
		return nil, err
	}
	return &ListQuizSummariesOutput{Summaries: rows}, nil
}

type GetQuizSummaryInput struct {
	UserID    uuid.UUID
	SummaryID uuid.UUID
}

type GetQuizSummaryOutput struct {
	Summary *domain.QuizSummary
}

// GetQuizSummary loads a single attempt with its per-question results.
// Summaries belong to the learner who sat the quiz; anyone else sees not
// found.
func (u *usecases) GetQuizSummary(ctx context.Context, input GetQuizSummaryInput) (*GetQuizSummaryOutput, error) {
	rows, err := u.summaries.GetByIDs(ctx, nil, []uuid.UUID{input.SummaryID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].UserID != input.UserID {
		return nil, ErrSummaryNotFound
	}
	return &GetQuizSummaryOutput{Summary: rows[0]}, nil
}
