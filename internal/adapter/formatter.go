package adapter

import (
	"fmt"
	"time"

	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/util"
)

// ResponseFormatter renders the quiz messages
type ResponseFormatter struct{}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

type questionView struct {
	Prompt         string
	TimeoutSeconds int
}

type answerView struct {
	Answer string
}

// FormatQuestion renders the question with the answer window in the footer.
func (f *ResponseFormatter) FormatQuestion(q domain.Question, timeout time.Duration) (string, error) {
	return f.render("question", questionView{
		Prompt:         q.Prompt,
		TimeoutSeconds: int(timeout.Round(time.Second) / time.Second),
	})
}

func (f *ResponseFormatter) FormatSuccess() (string, error) {
	return f.render("success", nil)
}

// FormatFailure reveals the expected answer after a wrong reply.
func (f *ResponseFormatter) FormatFailure(answer string) (string, error) {
	return f.render("failure", answerView{Answer: answer})
}

// FormatTimeout reveals the expected answer after the window closed.
func (f *ResponseFormatter) FormatTimeout(answer string) (string, error) {
	return f.render("timeout", answerView{Answer: answer})
}

func (f *ResponseFormatter) render(name string, data any) (string, error) {
	out, err := executeFormatterTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return util.TruncateString(out, constants.StringLimits.MessageContent), nil
}
