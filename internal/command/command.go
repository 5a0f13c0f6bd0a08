package command

import (
	"context"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/quiz"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext) error
}

// QuizRunner runs one question round.
type QuizRunner interface {
	Run(ctx context.Context, inv quiz.Invocation, responder quiz.Responder) (domain.QuizState, error)
}

type Dependencies struct {
	Quiz         QuizRunner
	NewResponder func(interaction *domain.Interaction) quiz.Responder
	Logger       *zap.Logger
}
