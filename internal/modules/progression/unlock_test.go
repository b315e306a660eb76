package progression

import (
	"testing"

	"github.com/google/uuid"
)

func TestUnlockGatedOnIntroQuiz(t *testing.T) {
	lessons := buildLessons(t, uuid.New(), 3)

	unlocked := UnlockedLessons(UnlockInput{
		Lessons:            lessons,
		CompletedLessonIDs: map[uuid.UUID]bool{},
		IntroQuizPassed:    false,
	})
	if len(unlocked) != 0 {
		t.Fatalf("unlocked %d lesson(s) before intro pass, want 0", len(unlocked))
	}
}

func TestUnlockStrictOrder(t *testing.T) {
	lessons := buildLessons(t, uuid.New(), 4)
	completed := func(idx ...int) map[uuid.UUID]bool {
		set := map[uuid.UUID]bool{}
		for _, i := range idx {
			set[lessons[i].ID] = true
		}
		return set
	}

	cases := []struct {
		name      string
		completed map[uuid.UUID]bool
		want      []bool
	}{
		{"fresh learner", completed(), []bool{true, false, false, false}},
		{"first done", completed(0), []bool{true, true, false, false}},
		{"first two done", completed(0, 1), []bool{true, true, true, false}},
		{"all done", completed(0, 1, 2, 3), []bool{true, true, true, true}},
		// A completion recorded past the frontier keeps that lesson open but
		// never pulls the frontier forward past the gap.
		{"gap in the middle", completed(0, 2), []bool{true, true, true, false}},
		{"orphan completion", completed(2), []bool{true, false, true, false}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unlocked := UnlockedLessons(UnlockInput{
				Lessons:            lessons,
				CompletedLessonIDs: tc.completed,
				IntroQuizPassed:    true,
			})
			for i, l := range lessons {
				if unlocked[l.ID] != tc.want[i] {
					t.Fatalf("lesson %d unlocked = %v, want %v", i, unlocked[l.ID], tc.want[i])
				}
			}
		})
	}
}

func TestUnlockDegradedModeOpensEverything(t *testing.T) {
	lessons := buildLessons(t, uuid.New(), 3)

	unlocked := UnlockedLessons(UnlockInput{
		Lessons:                lessons,
		CompletedLessonIDs:     nil,
		IntroQuizPassed:        false,
		CompletionsUnavailable: true,
	})
	for i, l := range lessons {
		if !unlocked[l.ID] {
			t.Fatalf("lesson %d locked in degraded mode", i)
		}
	}
}

func TestUnlockNoLessons(t *testing.T) {
	unlocked := UnlockedLessons(UnlockInput{
		Lessons:         nil,
		IntroQuizPassed: true,
	})
	if len(unlocked) != 0 {
		t.Fatalf("unlocked = %v, want empty", unlocked)
	}
}

func TestUnlockMonotonicUnderMoreCompletions(t *testing.T) {
	lessons := buildLessons(t, uuid.New(), 5)

	completed := map[uuid.UUID]bool{}
	previous := map[uuid.UUID]bool{}
	for _, l := range lessons {
		unlocked := UnlockedLessons(UnlockInput{
			Lessons:            lessons,
			CompletedLessonIDs: completed,
			IntroQuizPassed:    true,
		})
		for id := range previous {
			if !unlocked[id] {
				t.Fatalf("lesson %s re-locked after more progress", id)
			}
		}
		previous = unlocked
		completed[l.ID] = true
	}
}
