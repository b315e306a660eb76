package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/data/repos"
	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// CatalogService owns the course catalog: reads for the API and idempotent
// seeding from YAML fixture files at boot.
type CatalogService interface {
	ListCourses(ctx context.Context) ([]*domain.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	SeedFromDir(ctx context.Context, dir string) (int, error)
}

type catalogService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo) CatalogService {
	return &catalogService{
		db:         db,
		log:        log.With("service", "CatalogService"),
		courseRepo: courseRepo,
	}
}

func (cs *catalogService) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	return cs.courseRepo.List(ctx, nil)
}

func (cs *catalogService) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	courses, err := cs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return courses[0], nil
}

// Seed fixture schema. Options accept the same field aliases the API does;
// they are normalized into the canonical form before hitting the database.
type seedOption struct {
	Text      string `yaml:"text"`
	Name      string `yaml:"name"`
	Correct   bool   `yaml:"correct"`
	IsCorrect bool   `yaml:"isCorrect"`
}

type seedQuestion struct {
	Name    string       `yaml:"name"`
	Options []seedOption `yaml:"options"`
}

type seedQuiz struct {
	Name      string         `yaml:"name"`
	Questions []seedQuestion `yaml:"questions"`
}

type seedLesson struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	VideoURL    string    `yaml:"video_url"`
	Difficulty  string    `yaml:"difficulty"`
	Quiz        *seedQuiz `yaml:"quiz"`
}

type seedCourse struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	ImageURL    string       `yaml:"image_url"`
	IntroQuiz   *seedQuiz    `yaml:"intro_quiz"`
	FinalQuiz   *seedQuiz    `yaml:"final_quiz"`
	Lessons     []seedLesson `yaml:"lessons"`
}

// SeedFromDir loads every *.yaml course fixture under dir and creates the
// courses that are not present yet, matched by name. Parsing runs
// concurrently; a single bad fixture fails the whole seed so a typo never
// half-populates the catalog.
func (cs *catalogService) SeedFromDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read seed dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return 0, nil
	}

	var (
		mu     sync.Mutex
		parsed []seedCourse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			var sc seedCourse
			if err := yaml.Unmarshal(raw, &sc); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if sc.Name == "" {
				return fmt.Errorf("%s: course name is required", path)
			}
			mu.Lock()
			parsed = append(parsed, sc)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	sort.Slice(parsed, func(a, b int) bool { return parsed[a].Name < parsed[b].Name })

	existing, err := cs.courseRepo.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list existing courses: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c.Name] = true
	}

	created := 0
	for _, sc := range parsed {
		if present[sc.Name] {
			continue
		}
		course, err := buildSeedCourse(sc)
		if err != nil {
			return created, fmt.Errorf("course %q: %w", sc.Name, err)
		}
		err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := cs.courseRepo.Create(ctx, tx, []*domain.Course{course})
			return err
		})
		if err != nil {
			return created, fmt.Errorf("create course %q: %w", sc.Name, err)
		}
		created++
		cs.log.Info("seeded course", "name", sc.Name, "lessons", len(sc.Lessons))
	}
	return created, nil
}

func buildSeedCourse(sc seedCourse) (*domain.Course, error) {
	course := &domain.Course{
		ID:          uuid.New(),
		Name:        sc.Name,
		Description: sc.Description,
		ImageURL:    sc.ImageURL,
	}

	if sc.IntroQuiz != nil {
		quiz, err := buildSeedQuiz(*sc.IntroQuiz)
		if err != nil {
			return nil, fmt.Errorf("intro quiz: %w", err)
		}
		course.IntroQuizID = &quiz.ID
		course.IntroQuiz = quiz
	}
	if sc.FinalQuiz != nil {
		quiz, err := buildSeedQuiz(*sc.FinalQuiz)
		if err != nil {
			return nil, fmt.Errorf("final quiz: %w", err)
		}
		course.FinalQuizID = &quiz.ID
		course.FinalQuiz = quiz
	}

	for i, sl := range sc.Lessons {
		lesson := &domain.Lesson{
			ID:          uuid.New(),
			CourseID:    course.ID,
			Index:       i,
			Name:        sl.Name,
			Description: sl.Description,
			VideoURL:    sl.VideoURL,
			Difficulty:  sl.Difficulty,
		}
		if lesson.Difficulty == "" {
			lesson.Difficulty = domain.DifficultyEasy
		}
		if sl.Quiz != nil {
			quiz, err := buildSeedQuiz(*sl.Quiz)
			if err != nil {
				return nil, fmt.Errorf("lesson %d quiz: %w", i, err)
			}
			lesson.QuizID = &quiz.ID
			lesson.Quiz = quiz
		}
		course.Lessons = append(course.Lessons, lesson)
	}
	return course, nil
}

func buildSeedQuiz(sq seedQuiz) (*domain.Quiz, error) {
	quiz := &domain.Quiz{ID: uuid.New(), Name: sq.Name}
	for i, q := range sq.Questions {
		question := &domain.Question{
			ID:     uuid.New(),
			QuizID: quiz.ID,
			Index:  i,
			Name:   q.Name,
		}
		opts := make([]domain.Option, 0, len(q.Options))
		hasCorrect := false
		for _, o := range q.Options {
			text := o.Text
			if text == "" {
				text = o.Name
			}
			correct := o.Correct || o.IsCorrect
			if correct {
				hasCorrect = true
			}
			opts = append(opts, domain.Option{Text: text, Correct: correct})
		}
		if len(opts) == 0 {
			return nil, fmt.Errorf("question %d has no options", i)
		}
		if !hasCorrect {
			return nil, fmt.Errorf("question %d has no correct option", i)
		}
		if err := question.SetOptions(opts); err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz, nil
}
