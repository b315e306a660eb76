package progression

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// Selections maps question id to the chosen option index.
type Selections map[uuid.UUID]int

// Grade scores a full submission against a quiz definition and returns an
// unsaved QuizSummary carrying the per-question results and the integer
// percentage score. Grade is pure: identity fields (user, course, role) are
// stamped by the caller, and nothing is persisted here.
//
// Pass/fail is not decided here; the threshold depends on the quiz role and
// belongs to the submission layer.
func Grade(quiz *domain.Quiz, selections Selections) (*domain.QuizSummary, error) {
	if quiz == nil {
		return nil, ErrQuizNotFound
	}

	questions := orderedQuestions(quiz)

	var missing []uuid.UUID
	for _, q := range questions {
		if _, ok := selections[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteSubmissionError{Missing: missing}
	}

	summary := &domain.QuizSummary{
		ID:     uuid.New(),
		QuizID: quiz.ID,
	}

	correct := 0
	for i, q := range questions {
		selected := selections[q.ID]
		opts, err := q.DecodedOptions()
		if err != nil {
			return nil, err
		}
		if selected < 0 || selected >= len(opts) {
			return nil, &InvalidSelectionError{QuestionID: q.ID, Selected: selected}
		}

		// Correctness is the selected option's own flag, captured verbatim.
		// Questions with several options marked correct are tolerated; the
		// flags are never reconciled against each other.
		isCorrect := opts[selected].Correct
		if isCorrect {
			correct++
		}

		summary.QuestionSummaries = append(summary.QuestionSummaries, &domain.QuestionSummary{
			ID:             uuid.New(),
			QuizSummaryID:  summary.ID,
			QuestionID:     q.ID,
			Index:          i,
			SelectedOption: selected,
			Correct:        isCorrect,
		})
	}

	summary.Score = percentage(correct, len(questions))
	return summary, nil
}

// percentage rounds half-up to an integer percent; 0 when total is 0.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}

func orderedQuestions(quiz *domain.Quiz) []*domain.Question {
	questions := make([]*domain.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	sort.SliceStable(questions, func(a, b int) bool {
		return questions[a].Index < questions[b].Index
	})
	return questions
}
