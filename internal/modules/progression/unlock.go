package progression

import (
	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/domain"
)

// UnlockInput is everything the resolver needs; it never reaches for state
// of its own.
type UnlockInput struct {
	Lessons            []*domain.Lesson
	CompletedLessonIDs map[uuid.UUID]bool
	IntroQuizPassed    bool

	// CompletionsUnavailable marks the degraded path: the completion signal
	// failed upstream and the set is empty because of that, not because the
	// learner has done nothing. Availability wins over strict gating, so
	// every lesson becomes provisionally accessible.
	CompletionsUnavailable bool
}

// UnlockedLessons returns the set of accessible lesson ids. Lessons unlock
// strictly in course order: lesson i is open iff the intro quiz is passed
// and every lesson before i is completed.
func UnlockedLessons(in UnlockInput) map[uuid.UUID]bool {
	unlocked := make(map[uuid.UUID]bool, len(in.Lessons))

	if in.CompletionsUnavailable {
		for _, l := range in.Lessons {
			unlocked[l.ID] = true
		}
		return unlocked
	}

	if !in.IntroQuizPassed {
		return unlocked
	}

	for i, l := range in.Lessons {
		if i == 0 {
			unlocked[l.ID] = true
			continue
		}
		if in.CompletedLessonIDs[in.Lessons[i-1].ID] && unlocked[in.Lessons[i-1].ID] {
			unlocked[l.ID] = true
		}
	}

	// Completed lessons stay accessible regardless of anything later.
	for _, l := range in.Lessons {
		if in.CompletedLessonIDs[l.ID] {
			unlocked[l.ID] = true
		}
	}

	return unlocked
}
