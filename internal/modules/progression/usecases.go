package progression

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/data/repos"
	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// ProgressCache is an optional read-through cache for derived progress
// views. Implementations are best-effort; a miss or a failure is never an
// error here.
type ProgressCache interface {
	GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*CourseProgress, bool)
	SetProgress(ctx context.Context, progress CourseProgress)
	Invalidate(ctx context.Context, userID, courseID uuid.UUID)
}

// InsightClient asks the insight service for feedback on a graded
// submission. Strictly advisory: failures are logged and swallowed.
type InsightClient interface {
	Advise(ctx context.Context, summary *domain.QuizSummary) (string, error)
}

// CertificateRenderer produces the certificate artifact and returns its
// storage path.
type CertificateRenderer interface {
	Render(ctx context.Context, user *domain.User, course *domain.Course, issuedAt time.Time) (string, error)
}

type Usecases interface {
	Enroll(ctx context.Context, input EnrollInput) (*EnrollOutput, error)
	ListEnrollments(ctx context.Context, input ListEnrollmentsInput) (*ListEnrollmentsOutput, error)
	GetProgress(ctx context.Context, input GetProgressInput) (*GetProgressOutput, error)
	OpenLesson(ctx context.Context, input OpenLessonInput) (*OpenLessonOutput, error)
	GetQuiz(ctx context.Context, input GetQuizInput) (*GetQuizOutput, error)
	SubmitIntroQuiz(ctx context.Context, input SubmitIntroQuizInput) (*SubmitQuizOutput, error)
	SubmitLessonQuiz(ctx context.Context, input SubmitLessonQuizInput) (*SubmitQuizOutput, error)
	SubmitFinalQuiz(ctx context.Context, input SubmitFinalQuizInput) (*SubmitQuizOutput, error)
	ListQuizSummaries(ctx context.Context, input ListQuizSummariesInput) (*ListQuizSummariesOutput, error)
	GetQuizSummary(ctx context.Context, input GetQuizSummaryInput) (*GetQuizSummaryOutput, error)
	GetCertificate(ctx context.Context, input GetCertificateInput) (*GetCertificateOutput, error)
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Users        repos.UserRepo
	Courses      repos.CourseRepo
	Enrollments  repos.EnrollmentRepo
	Completions  repos.LessonCompletionRepo
	Summaries    repos.QuizSummaryRepo
	Certificates repos.CertificateRepo

	// Optional collaborators; nil disables the feature.
	Cache    ProgressCache
	Insight  InsightClient
	Renderer CertificateRenderer
}

type usecases struct {
	db  *gorm.DB
	log *logger.Logger

	users        repos.UserRepo
	courses      repos.CourseRepo
	enrollments  repos.EnrollmentRepo
	completions  repos.LessonCompletionRepo
	summaries    repos.QuizSummaryRepo
	certificates repos.CertificateRepo

	cache    ProgressCache
	insight  InsightClient
	renderer CertificateRenderer
}

func NewUsecases(deps UsecasesDeps) Usecases {
	return &usecases{
		db:           deps.DB,
		log:          deps.Log.With("module", "progression"),
		users:        deps.Users,
		courses:      deps.Courses,
		enrollments:  deps.Enrollments,
		completions:  deps.Completions,
		summaries:    deps.Summaries,
		certificates: deps.Certificates,
		cache:        deps.Cache,
		insight:      deps.Insight,
		renderer:     deps.Renderer,
	}
}

// withTx runs fn inside a transaction. With no DB configured (fake-backed
// tests), fn runs once with a nil handle and the repos fall back to their
// own roots.
func (u *usecases) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if u.db == nil {
		return fn(nil)
	}
	return u.db.WithContext(ctx).Transaction(fn)
}

func (u *usecases) getCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	courses, err := u.courses.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrCourseNotFound
	}
	return courses[0], nil
}

// Repo-backed adapters for the aggregator's three signal sources. Reads go
// through the root handle, never a transaction; a failed signal degrades,
// it does not abort.

type enrollmentSource struct{ repo repos.EnrollmentRepo }

func (s enrollmentSource) GetEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	return s.repo.GetByUserAndCourse(ctx, nil, userID, courseID)
}

type completionSource struct{ repo repos.LessonCompletionRepo }

func (s completionSource) GetCompletedLessons(ctx context.Context, userID, courseID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.repo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.LessonID)
	}
	return ids, nil
}

type summarySource struct{ repo repos.QuizSummaryRepo }

func (s summarySource) GetQuizSummaries(ctx context.Context, userID, courseID uuid.UUID, role domain.QuizRole) ([]*domain.QuizSummary, error) {
	return s.repo.GetByUserCourseRole(ctx, nil, userID, courseID, role)
}

func (u *usecases) aggregate(ctx context.Context, course *domain.Course, userID uuid.UUID) CourseProgress {
	return Aggregate(ctx, course, userID,
		enrollmentSource{repo: u.enrollments},
		completionSource{repo: u.completions},
		summarySource{repo: u.summaries},
	)
}
