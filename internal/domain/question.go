package domain

// Question is one immutable prompt/answer pair of the question bank.
type Question struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// AnswerAttempt is a candidate reply and its normalized form. It lives only
// for a single comparison.
type AnswerAttempt struct {
	Raw        string
	Normalized string
}

// DefaultQuestions is the built-in question set used when no question store is configured.
func DefaultQuestions() []Question {
	return []Question{
		{Prompt: "Quelle est la capitale du Japon ?", Answer: "Tokyo"},
		{Prompt: "Combien de continents y a-t-il sur Terre ?", Answer: "7"},
		{Prompt: "Quelle planète est surnommée la planète rouge ?", Answer: "Mars"},
	}
}
