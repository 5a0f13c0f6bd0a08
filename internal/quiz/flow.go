package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kapu/cultureg-bot-go/internal/adapter"
	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/domain"
	boterrors "github.com/kapu/cultureg-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Responder posts the replies of one interaction.
type Responder interface {
	// Acknowledge is the first response to the interaction.
	Acknowledge(ctx context.Context, content string) error
	// FollowUp is any later message.
	FollowUp(ctx context.Context, content string) error
}

// MessageWaiter waits for the first message accepted by filter.
// It returns boterrors.ErrTimeoutExpired when the timeout elapses first and
// boterrors.ErrStreamUnavailable when messages cannot be received at all.
type MessageWaiter interface {
	WaitForMessage(ctx context.Context, filter domain.MessageFilter, timeout time.Duration) (*domain.Message, error)
}

// Invocation identifies who asked for the question and where.
type Invocation struct {
	UserID    string
	ChannelID string
}

type FlowConfig struct {
	AnswerTimeout time.Duration
	// Intn picks the question index; nil means uniform random.
	Intn func(n int) int
}

// Flow runs one question round per call. It keeps no per-invocation state, so
// a single Flow serves concurrent invocations.
type Flow struct {
	bank      *Bank
	waiter    MessageWaiter
	formatter *adapter.ResponseFormatter
	timeout   time.Duration
	intn      func(n int) int
	logger    *zap.Logger
}

func NewFlow(bank *Bank, waiter MessageWaiter, formatter *adapter.ResponseFormatter, cfg FlowConfig, logger *zap.Logger) (*Flow, error) {
	if bank == nil || bank.Len() == 0 {
		return nil, boterrors.NewValidationError("question bank is empty", "bank", nil)
	}
	if waiter == nil {
		return nil, fmt.Errorf("message waiter must not be nil")
	}
	if formatter == nil {
		formatter = adapter.NewResponseFormatter()
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = constants.QuizConfig.AnswerTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Flow{
		bank:      bank,
		waiter:    waiter,
		formatter: formatter,
		timeout:   cfg.AnswerTimeout,
		intn:      cfg.Intn,
		logger:    logger,
	}, nil
}

// Run posts a random question, waits for the invoker's answer in the same
// channel and reports the result. It returns the terminal state reached, or
// the last state together with the error that stopped the round.
func (f *Flow) Run(ctx context.Context, inv Invocation, responder Responder) (domain.QuizState, error) {
	state := domain.QuizIdle
	question := f.bank.Pick(f.intn)

	display, err := f.formatter.FormatQuestion(question, f.timeout)
	if err != nil {
		return state, err
	}
	if err := responder.Acknowledge(ctx, display); err != nil {
		return state, fmt.Errorf("failed to post question: %w", err)
	}
	state = domain.QuizPosted

	msg, err := f.waiter.WaitForMessage(ctx, AnswerFilter(inv), f.timeout)
	if errors.Is(err, boterrors.ErrTimeoutExpired) {
		f.logger.Debug("Answer window expired",
			zap.String("user_id", inv.UserID),
			zap.String("channel_id", inv.ChannelID),
		)
		return f.finish(ctx, responder, state, domain.QuizTimedOut, func() (string, error) {
			return f.formatter.FormatTimeout(question.Answer)
		})
	}
	if err != nil {
		return state, fmt.Errorf("failed to wait for answer: %w", err)
	}

	attempt := NewAnswerAttempt(msg.Content)
	expected := Normalize(question.Answer)

	f.logger.Debug("Answer compared",
		zap.String("raw", attempt.Raw),
		zap.String("normalized", attempt.Normalized),
		zap.String("expected", expected),
	)

	if attempt.Normalized == expected {
		return f.finish(ctx, responder, state, domain.QuizMatched, f.formatter.FormatSuccess)
	}
	return f.finish(ctx, responder, state, domain.QuizMismatched, func() (string, error) {
		return f.formatter.FormatFailure(question.Answer)
	})
}

func (f *Flow) finish(ctx context.Context, responder Responder, current, next domain.QuizState, render func() (string, error)) (domain.QuizState, error) {
	content, err := render()
	if err != nil {
		return current, err
	}
	if err := responder.FollowUp(ctx, content); err != nil {
		return current, fmt.Errorf("failed to send %s result: %w", next, err)
	}
	return next, nil
}

// AnswerFilter accepts messages from the invoker, in the invoking channel,
// written by a human account.
func AnswerFilter(inv Invocation) domain.MessageFilter {
	return func(msg *domain.Message) bool {
		return msg != nil &&
			msg.Author.ID == inv.UserID &&
			msg.ChannelID == inv.ChannelID &&
			!msg.Author.Bot
	}
}
