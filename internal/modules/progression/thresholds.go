package progression

import "github.com/skillforge/skillforge-backend/internal/domain"

// Passing thresholds are fixed policy, not per-course configuration.
const (
	ThresholdIntroductory = 60
	ThresholdLesson       = 80
	ThresholdFinal        = 80
)

func PassThreshold(role domain.QuizRole) int {
	switch role {
	case domain.QuizRoleIntroductory:
		return ThresholdIntroductory
	case domain.QuizRoleLesson:
		return ThresholdLesson
	default:
		return ThresholdFinal
	}
}

func Passed(role domain.QuizRole, score int) bool {
	return score >= PassThreshold(role)
}
