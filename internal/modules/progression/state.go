package progression

// Per-lesson state, per user. Completed is terminal; nothing moves a
// learner out of it.
type LessonState string

const (
	LessonLocked     LessonState = "locked"
	LessonUnlockable LessonState = "unlockable"
	LessonInProgress LessonState = "in_progress"
	LessonCompleted  LessonState = "completed"
)

// Per-course state, per user.
type CourseState string

const (
	CourseNotEnrolled  CourseState = "not_enrolled"
	CourseEnrolled     CourseState = "enrolled"
	CourseIntroPending CourseState = "intro_pending"
	CourseInProgress   CourseState = "in_progress"
	CourseCompleted    CourseState = "completed"
)

func lessonState(unlocked, attempted, completed bool) LessonState {
	switch {
	case completed:
		return LessonCompleted
	case unlocked && attempted:
		return LessonInProgress
	case unlocked:
		return LessonUnlockable
	default:
		return LessonLocked
	}
}

func courseState(enrolled, hasIntroQuiz, introAttempted, introPassed, completed bool) CourseState {
	switch {
	case !enrolled:
		return CourseNotEnrolled
	case completed:
		return CourseCompleted
	case !hasIntroQuiz || introPassed:
		return CourseInProgress
	case introAttempted:
		return CourseIntroPending
	default:
		return CourseEnrolled
	}
}
