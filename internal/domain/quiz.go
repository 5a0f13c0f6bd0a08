package domain

// QuizState is the lifecycle of one quiz invocation:
// Idle -> Posted -> (Matched | Mismatched | TimedOut).
type QuizState string

const (
	QuizIdle       QuizState = "IDLE"
	QuizPosted     QuizState = "POSTED"
	QuizMatched    QuizState = "MATCHED"
	QuizMismatched QuizState = "MISMATCHED"
	QuizTimedOut   QuizState = "TIMED_OUT"
)

func (s QuizState) String() string {
	return string(s)
}

// IsTerminal reports whether the flow has finished.
func (s QuizState) IsTerminal() bool {
	switch s {
	case QuizMatched, QuizMismatched, QuizTimedOut:
		return true
	default:
		return false
	}
}
