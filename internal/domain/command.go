package domain

type CommandType string

const (
	CommandCulture CommandType = "culture"
	CommandQuiz    CommandType = "quiz"
	CommandUnknown CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandCulture, CommandQuiz, CommandUnknown:
		return true
	default:
		return false
	}
}

// CommandDefinition is what gets registered on the chat platform.
type CommandDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
