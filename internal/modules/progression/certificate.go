package progression

import (
	"github.com/skillforge/skillforge-backend/internal/domain"
)

// CertificateEligible reports whether the progress view has earned a
// certificate: enrolled, with a passing final-quiz summary on record.
// Summaries are immutable, so eligibility is monotonic; once true it
// can never later evaluate false, and issued certificates are never
// revoked even if the course content changes afterwards.
func CertificateEligible(p CourseProgress) bool {
	return p.Enrolled && p.Completed
}

// QualifyingFinalSummary picks the summary that earns the certificate:
// the earliest passing final-quiz attempt. Input order does not matter.
func QualifyingFinalSummary(summaries []*domain.QuizSummary) *domain.QuizSummary {
	var qualifying *domain.QuizSummary
	for _, s := range summaries {
		if s.Role != domain.QuizRoleFinal || !Passed(domain.QuizRoleFinal, s.Score) {
			continue
		}
		if qualifying == nil || s.CreatedAt.Before(qualifying.CreatedAt) {
			qualifying = s
		}
	}
	return qualifying
}
