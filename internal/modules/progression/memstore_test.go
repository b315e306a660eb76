package progression

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// memStore is an in-memory stand-in for the repo layer. The fail* toggles
// break individual read paths so degraded behavior can be exercised.
type memStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*domain.User
	courses      map[uuid.UUID]*domain.Course
	enrollments  map[string]*domain.Enrollment
	completions  map[string]*domain.LessonCompletion
	summaries    []*domain.QuizSummary
	certificates map[string]*domain.Certificate

	failEnrollmentReads bool
	failCompletionReads bool
	failSummaryReads    bool

	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]*domain.User{},
		courses:      map[uuid.UUID]*domain.Course{},
		enrollments:  map[string]*domain.Enrollment{},
		completions:  map[string]*domain.LessonCompletion{},
		certificates: map[string]*domain.Certificate{},
		clock:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func pairKey(a, b uuid.UUID) string { return a.String() + "/" + b.String() }

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

var errStoreDown = errors.New("store down")

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(_ context.Context, _ *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range users {
		r.s.users[u.ID] = u
	}
	return users, nil
}

func (r memUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memUserRepo) GetByEmails(_ context.Context, _ *gorm.DB, emails []string) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.User
	for _, email := range emails {
		for _, u := range r.s.users {
			if u.Email == email {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r memUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	rows, err := r.GetByEmails(ctx, tx, []string{email})
	return len(rows) > 0, err
}

func (r memUserRepo) Update(_ context.Context, _ *gorm.DB, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

type memCourseRepo struct{ s *memStore }

func (r memCourseRepo) Create(_ context.Context, _ *gorm.DB, courses []*domain.Course) ([]*domain.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range courses {
		r.s.courses[c.ID] = c
	}
	return courses, nil
}

func (r memCourseRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Course
	for _, id := range ids {
		if c, ok := r.s.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCourseRepo) List(_ context.Context, _ *gorm.DB) ([]*domain.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Course
	for _, c := range r.s.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r memCourseRepo) SoftDeleteByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.courses, id)
	}
	return nil
}

type memEnrollmentRepo struct{ s *memStore }

func (r memEnrollmentRepo) Upsert(_ context.Context, _ *gorm.DB, row *domain.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(row.UserID, row.CourseID)
	if _, exists := r.s.enrollments[key]; exists {
		return nil
	}
	row.CreatedAt = r.s.tick()
	row.UpdatedAt = row.CreatedAt
	r.s.enrollments[key] = row
	return nil
}

func (r memEnrollmentRepo) GetByUserAndCourse(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID) (*domain.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failEnrollmentReads {
		return nil, errStoreDown
	}
	return r.s.enrollments[pairKey(userID, courseID)], nil
}

func (r memEnrollmentRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Enrollment
	for _, e := range r.s.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEnrollmentRepo) UpdateStatus(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.enrollments[pairKey(userID, courseID)]; ok {
		e.Status = status
		e.UpdatedAt = r.s.tick()
	}
	return nil
}

type memCompletionRepo struct{ s *memStore }

func (r memCompletionRepo) Record(_ context.Context, _ *gorm.DB, row *domain.LessonCompletion) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(row.UserID, row.LessonID)
	if _, exists := r.s.completions[key]; exists {
		return false, nil
	}
	row.CreatedAt = r.s.tick()
	r.s.completions[key] = row
	return true, nil
}

func (r memCompletionRepo) GetByUserAndCourse(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID) ([]*domain.LessonCompletion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCompletionReads {
		return nil, errStoreDown
	}
	var out []*domain.LessonCompletion
	for _, c := range r.s.completions {
		if c.UserID == userID && c.CourseID == courseID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

type memSummaryRepo struct{ s *memStore }

func (r memSummaryRepo) Create(_ context.Context, _ *gorm.DB, row *domain.QuizSummary) (*domain.QuizSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row.CreatedAt = r.s.tick()
	r.s.summaries = append(r.s.summaries, row)
	return row, nil
}

func (r memSummaryRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.QuizSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*domain.QuizSummary
	for _, s := range r.s.summaries {
		if wanted[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memSummaryRepo) GetByUserCourseRole(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID, role domain.QuizRole) ([]*domain.QuizSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSummaryReads {
		return nil, errStoreDown
	}
	var out []*domain.QuizSummary
	for _, s := range r.s.summaries {
		if s.UserID == userID && s.CourseID == courseID && s.Role == role {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

type memCertificateRepo struct{ s *memStore }

func (r memCertificateRepo) Issue(_ context.Context, _ *gorm.DB, row *domain.Certificate) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey(row.UserID, row.CourseID)
	if _, exists := r.s.certificates[key]; exists {
		return false, nil
	}
	r.s.certificates[key] = row
	return true, nil
}

func (r memCertificateRepo) GetByUserAndCourse(_ context.Context, _ *gorm.DB, userID, courseID uuid.UUID) (*domain.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.certificates[pairKey(userID, courseID)], nil
}

func (r memCertificateRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*domain.Certificate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Certificate
	for _, c := range r.s.certificates {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestUsecases(t *testing.T, store *memStore, opts ...func(*UsecasesDeps)) Usecases {
	t.Helper()

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	deps := UsecasesDeps{
		Log:          log,
		Users:        memUserRepo{s: store},
		Courses:      memCourseRepo{s: store},
		Enrollments:  memEnrollmentRepo{s: store},
		Completions:  memCompletionRepo{s: store},
		Summaries:    memSummaryRepo{s: store},
		Certificates: memCertificateRepo{s: store},
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return NewUsecases(deps)
}
