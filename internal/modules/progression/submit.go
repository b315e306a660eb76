package progression

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

type EnrollInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

type EnrollOutput struct {
	Enrollment *domain.Enrollment
}

// Enroll registers the user on the course. Re-enrolling is a no-op; the
// existing row and its status are preserved.
func (u *usecases) Enroll(ctx context.Context, input EnrollInput) (*EnrollOutput, error) {
	if _, err := u.getCourse(ctx, input.CourseID); err != nil {
		return nil, err
	}

	row := &domain.Enrollment{
		ID:       uuid.New(),
		UserID:   input.UserID,
		CourseID: input.CourseID,
		Status:   domain.EnrollmentEnrolled,
	}
	err := u.withTx(ctx, func(tx *gorm.DB) error {
		return u.enrollments.Upsert(ctx, tx, row)
	})
	if err != nil {
		return nil, err
	}

	enrollment, err := u.enrollments.GetByUserAndCourse(ctx, nil, input.UserID, input.CourseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		enrollment = row
	}

	u.invalidateProgress(ctx, input.UserID, input.CourseID)
	u.log.Info("user enrolled", "user_id", input.UserID, "course_id", input.CourseID)
	return &EnrollOutput{Enrollment: enrollment}, nil
}

type GetProgressInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

type GetProgressOutput struct {
	Progress CourseProgress
}

// GetProgress returns the aggregated progress view, read through the cache
// when one is configured. Degraded views are never cached.
func (u *usecases) GetProgress(ctx context.Context, input GetProgressInput) (*GetProgressOutput, error) {
	if u.cache != nil {
		if cached, ok := u.cache.GetProgress(ctx, input.UserID, input.CourseID); ok {
			return &GetProgressOutput{Progress: *cached}, nil
		}
	}

	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	progress := u.aggregate(ctx, course, input.UserID)
	if progress.Degraded.Any() {
		u.log.Warn("progress view degraded",
			"user_id", input.UserID,
			"course_id", input.CourseID,
			"enrollment", progress.Degraded.Enrollment,
			"completions", progress.Degraded.Completions,
			"quiz_summaries", progress.Degraded.QuizSummaries)
	} else if u.cache != nil {
		u.cache.SetProgress(ctx, progress)
	}

	return &GetProgressOutput{Progress: progress}, nil
}

type OpenLessonInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	LessonID uuid.UUID
}

type OpenLessonOutput struct {
	Lesson *domain.Lesson
	State  LessonState
}

// OpenLesson gates access to lesson content. A locked lesson comes back as
// OutOfOrderAccessError; when the completion signal is down every lesson is
// provisionally open.
func (u *usecases) OpenLesson(ctx context.Context, input OpenLessonInput) (*OpenLessonOutput, error) {
	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	lesson := findLesson(course, input.LessonID)
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	progress := u.aggregate(ctx, course, input.UserID)
	if !progress.Enrolled && !progress.Degraded.Enrollment {
		return nil, ErrNotEnrolled
	}

	state := LessonLocked
	for _, lp := range progress.Lessons {
		if lp.LessonID == input.LessonID {
			state = lp.State
		}
	}
	if state == LessonLocked {
		if !progress.IntroQuizPassed {
			return nil, &OutOfOrderAccessError{LessonID: input.LessonID, Reason: "introductory quiz not passed"}
		}
		return nil, &OutOfOrderAccessError{LessonID: input.LessonID, Reason: "previous lesson not completed"}
	}

	return &OpenLessonOutput{Lesson: lesson, State: state}, nil
}

type SubmitIntroQuizInput struct {
	UserID     uuid.UUID
	CourseID   uuid.UUID
	Selections Selections
}

type SubmitLessonQuizInput struct {
	UserID     uuid.UUID
	CourseID   uuid.UUID
	LessonID   uuid.UUID
	Selections Selections
}

type SubmitFinalQuizInput struct {
	UserID     uuid.UUID
	CourseID   uuid.UUID
	Selections Selections
}

type SubmitQuizOutput struct {
	Summary   *domain.QuizSummary
	Passed    bool
	Threshold int

	// Lesson submissions only: whether this attempt completed the lesson.
	LessonCompleted bool

	// Final submissions only.
	CourseCompleted bool
	Certificate     *domain.Certificate

	// Advisory feedback from the insight service, empty when unavailable.
	Advice string
}

// SubmitIntroQuiz grades an introductory attempt. Retakes are always
// allowed, pass or fail; the best attempt governs unlocking.
func (u *usecases) SubmitIntroQuiz(ctx context.Context, input SubmitIntroQuizInput) (*SubmitQuizOutput, error) {
	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course.IntroQuiz == nil {
		return nil, ErrQuizNotFound
	}
	if err := u.requireEnrollment(ctx, input.UserID, input.CourseID); err != nil {
		return nil, err
	}

	summary, err := Grade(course.IntroQuiz, input.Selections)
	if err != nil {
		return nil, err
	}
	stampSummary(summary, input.UserID, input.CourseID, domain.QuizRoleIntroductory, nil)

	err = u.withTx(ctx, func(tx *gorm.DB) error {
		_, err := u.summaries.Create(ctx, tx, summary)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.invalidateProgress(ctx, input.UserID, input.CourseID)

	out := &SubmitQuizOutput{
		Summary:   summary,
		Passed:    Passed(domain.QuizRoleIntroductory, summary.Score),
		Threshold: ThresholdIntroductory,
	}
	out.Advice = u.advise(ctx, summary)
	u.log.Info("introductory quiz graded",
		"user_id", input.UserID, "course_id", input.CourseID,
		"score", summary.Score, "passed", out.Passed)
	return out, nil
}

// SubmitLessonQuiz grades a lesson attempt. The lesson must be accessible
// under the in-order rule; passing records the lesson completion, which is
// permanent. Retakes of an already-completed lesson are allowed and change
// nothing downstream.
func (u *usecases) SubmitLessonQuiz(ctx context.Context, input SubmitLessonQuizInput) (*SubmitQuizOutput, error) {
	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	lesson := findLesson(course, input.LessonID)
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if lesson.Quiz == nil {
		return nil, ErrQuizNotFound
	}
	if err := u.requireEnrollment(ctx, input.UserID, input.CourseID); err != nil {
		return nil, err
	}

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

	summary, err := Grade(lesson.Quiz, input.Selections)
	if err != nil {
		return nil, err
	}
	stampSummary(summary, input.UserID, input.CourseID, domain.QuizRoleLesson, &lesson.ID)

	passed := Passed(domain.QuizRoleLesson, summary.Score)
	var completedNow bool
	err = u.withTx(ctx, func(tx *gorm.DB) error {
		if _, err := u.summaries.Create(ctx, tx, summary); err != nil {
			return err
		}
		if !passed {
			return nil
		}
		created, err := u.completions.Record(ctx, tx, &domain.LessonCompletion{
			ID:       uuid.New(),
			UserID:   input.UserID,
			CourseID: input.CourseID,
			LessonID: lesson.ID,
		})
		if err != nil {
			return err
		}
		completedNow = created
		if created {
			return u.enrollments.UpdateStatus(ctx, tx, input.UserID, input.CourseID, domain.EnrollmentInProgress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.invalidateProgress(ctx, input.UserID, input.CourseID)

	out := &SubmitQuizOutput{
		Summary:         summary,
		Passed:          passed,
		Threshold:       ThresholdLesson,
		LessonCompleted: completedNow,
	}
	out.Advice = u.advise(ctx, summary)
	u.log.Info("lesson quiz graded",
		"user_id", input.UserID, "course_id", input.CourseID, "lesson_id", lesson.ID,
		"score", summary.Score, "passed", passed, "completed", completedNow)
	return out, nil
}

// SubmitFinalQuiz grades a final attempt. Every lesson must be completed
// first, and a course with a passing final summary on record rejects
// further submissions with ErrAlreadyCompleted. Failed attempts may be
// retried without limit.
func (u *usecases) SubmitFinalQuiz(ctx context.Context, input SubmitFinalQuizInput) (*SubmitQuizOutput, error) {
	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course.FinalQuiz == nil {
		return nil, ErrQuizNotFound
	}
	if err := u.requireEnrollment(ctx, input.UserID, input.CourseID); err != nil {
		return nil, err
	}

	progress := u.aggregate(ctx, course, input.UserID)
	if progress.Completed {
		return nil, ErrAlreadyCompleted
	}
	// With the summary signal down the guard cannot be evaluated; the
	// attempt proceeds and the unique certificate row absorbs duplicates.
	if !progress.Degraded.Completions && len(progress.CompletedLessonIDs) < len(course.Lessons) {
		return nil, &OutOfOrderAccessError{Reason: "not all lessons completed"}
	}

	summary, err := Grade(course.FinalQuiz, input.Selections)
	if err != nil {
		return nil, err
	}
	stampSummary(summary, input.UserID, input.CourseID, domain.QuizRoleFinal, nil)

	passed := Passed(domain.QuizRoleFinal, summary.Score)
	var certificate *domain.Certificate
	err = u.withTx(ctx, func(tx *gorm.DB) error {
		if _, err := u.summaries.Create(ctx, tx, summary); err != nil {
			return err
		}
		if !passed {
			return nil
		}
		if err := u.enrollments.UpdateStatus(ctx, tx, input.UserID, input.CourseID, domain.EnrollmentCompleted); err != nil {
			return err
		}
		cert, err := u.issueCertificate(ctx, tx, course, summary)
		if err != nil {
			return err
		}
		certificate = cert
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.invalidateProgress(ctx, input.UserID, input.CourseID)

	out := &SubmitQuizOutput{
		Summary:         summary,
		Passed:          passed,
		Threshold:       ThresholdFinal,
		CourseCompleted: passed,
		Certificate:     certificate,
	}
	out.Advice = u.advise(ctx, summary)
	u.log.Info("final quiz graded",
		"user_id", input.UserID, "course_id", input.CourseID,
		"score", summary.Score, "passed", passed)
	return out, nil
}

type GetCertificateInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

type GetCertificateOutput struct {
	Certificate *domain.Certificate
}

// GetCertificate returns the issued certificate, lazily issuing one when
// eligibility was reached but the issuance write was missed (a crash
// between the summary insert and the certificate insert, or an earlier
// version without issuance).
func (u *usecases) GetCertificate(ctx context.Context, input GetCertificateInput) (*GetCertificateOutput, error) {
	cert, err := u.certificates.GetByUserAndCourse(ctx, nil, input.UserID, input.CourseID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		return &GetCertificateOutput{Certificate: cert}, nil
	}

	course, err := u.getCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	progress := u.aggregate(ctx, course, input.UserID)
	if !CertificateEligible(progress) {
		return nil, ErrCertificateNotEarned
	}

	finals, err := u.summaries.GetByUserCourseRole(ctx, nil, input.UserID, input.CourseID, domain.QuizRoleFinal)
	if err != nil {
		return nil, err
	}
	qualifying := QualifyingFinalSummary(finals)
	if qualifying == nil {
		return nil, ErrCertificateNotEarned
	}

	err = u.withTx(ctx, func(tx *gorm.DB) error {
		issued, err := u.issueCertificate(ctx, tx, course, qualifying)
		if err != nil {
			return err
		}
		cert = issued
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &GetCertificateOutput{Certificate: cert}, nil
}

func (u *usecases) issueCertificate(ctx context.Context, tx *gorm.DB, course *domain.Course, summary *domain.QuizSummary) (*domain.Certificate, error) {
	issuedAt := time.Now().UTC()

	imagePath := ""
	if u.renderer != nil {
		users, err := u.users.GetByIDs(ctx, nil, []uuid.UUID{summary.UserID})
		if err == nil && len(users) == 1 {
			path, renderErr := u.renderer.Render(ctx, users[0], course, issuedAt)
			if renderErr != nil {
				u.log.Warn("certificate render failed", "user_id", summary.UserID, "course_id", course.ID, "error", renderErr)
			} else {
				imagePath = path
			}
		}
	}

	row := &domain.Certificate{
		ID:            uuid.New(),
		UserID:        summary.UserID,
		CourseID:      course.ID,
		QuizSummaryID: summary.ID,
		ImagePath:     imagePath,
		IssuedAt:      issuedAt,
	}
	created, err := u.certificates.Issue(ctx, tx, row)
	if err != nil {
		return nil, err
	}
	if !created {
		existing, err := u.certificates.GetByUserAndCourse(ctx, tx, summary.UserID, course.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	u.log.Info("certificate issued", "user_id", summary.UserID, "course_id", course.ID)
	return row, nil
}

func (u *usecases) requireEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	enrollment, err := u.enrollments.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		// Availability wins: an unreadable enrollment signal does not block
		// the submission.
		u.log.Warn("enrollment check degraded", "user_id", userID, "course_id", courseID, "error", err)
		return nil
	}
	if enrollment == nil {
		return ErrNotEnrolled
	}
	return nil
}

func (u *usecases) invalidateProgress(ctx context.Context, userID, courseID uuid.UUID) {
	if u.cache != nil {
		u.cache.Invalidate(ctx, userID, courseID)
	}
}

func (u *usecases) advise(ctx context.Context, summary *domain.QuizSummary) string {
	if u.insight == nil {
		return ""
	}
	advice, err := u.insight.Advise(ctx, summary)
	if err != nil {
		u.log.Debug("insight unavailable", "quiz_summary_id", summary.ID, "error", err)
		return ""
	}
	return advice
}

func stampSummary(summary *domain.QuizSummary, userID, courseID uuid.UUID, role domain.QuizRole, lessonID *uuid.UUID) {
	summary.UserID = userID
	summary.CourseID = courseID
	summary.Role = role
	summary.LessonID = lessonID
	for _, qs := range summary.QuestionSummaries {
		qs.QuizSummaryID = summary.ID
	}
}

func findLesson(course *domain.Course, lessonID uuid.UUID) *domain.Lesson {
	for _, l := range course.Lessons {
		if l.ID == lessonID {
			return l
		}
	}
	return nil
}
