package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	boterrors "github.com/kapu/cultureg-bot-go/pkg/errors"
)

// Bank is the immutable question set shared by every invocation.
type Bank struct {
	questions []domain.Question
}

// NewBank validates and copies the questions. Every answer must keep at least
// one comparable character after normalization, otherwise any reply made only
// of punctuation would be accepted.
func NewBank(questions []domain.Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, boterrors.NewValidationError("question bank is empty", "questions", 0)
	}

	copied := make([]domain.Question, 0, len(questions))
	for i, q := range questions {
		prompt := strings.TrimSpace(q.Prompt)
		if prompt == "" {
			return nil, boterrors.NewValidationError(fmt.Sprintf("question %d has an empty prompt", i), "prompt", q.Prompt)
		}
		if Normalize(q.Answer) == "" {
			return nil, boterrors.NewValidationError(fmt.Sprintf("question %d has no comparable answer", i), "answer", q.Answer)
		}
		copied = append(copied, domain.Question{Prompt: prompt, Answer: strings.TrimSpace(q.Answer)})
	}

	return &Bank{questions: copied}, nil
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns a copy of the set.
func (b *Bank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Pick selects a question uniformly at random. intn must return a value in
// [0, n); nil uses math/rand/v2.
func (b *Bank) Pick(intn func(n int) int) domain.Question {
	if intn == nil {
		intn = rand.IntN
	}
	return b.questions[intn(len(b.questions))]
}
