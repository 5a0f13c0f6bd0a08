package command

import (
	"context"
	"fmt"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/quiz"
	"go.uber.org/zap"
)

type CultureCommand struct {
	deps *Dependencies
}

func NewCultureCommand(deps *Dependencies) *CultureCommand {
	return &CultureCommand{deps: deps}
}

func (c *CultureCommand) Name() string {
	return domain.CommandCulture.String()
}

func (c *CultureCommand) Description() string {
	return "Pose une question CultureG"
}

func (c *CultureCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext) error {
	if cmdCtx == nil || cmdCtx.Interaction == nil {
		return fmt.Errorf("culture command requires an interaction")
	}

	responder := c.deps.NewResponder(cmdCtx.Interaction)
	state, err := c.deps.Quiz.Run(ctx, quiz.Invocation{
		UserID:    cmdCtx.UserID,
		ChannelID: cmdCtx.ChannelID,
	}, responder)
	if err != nil {
		return fmt.Errorf("quiz round failed in state %s: %w", state, err)
	}

	c.deps.Logger.Info("Quiz round finished",
		zap.String("interaction_id", cmdCtx.Interaction.ID),
		zap.String("user_id", cmdCtx.UserID),
		zap.String("channel_id", cmdCtx.ChannelID),
		zap.String("outcome", state.String()),
	)
	return nil
}

// RegisterDefaults installs /culture and its /quiz alias.
func RegisterDefaults(registry *Registry, deps *Dependencies) error {
	registry.Register(NewCultureCommand(deps))
	return registry.RegisterAlias(domain.CommandQuiz.String(), domain.CommandCulture.String(), "Alias de /culture")
}
