package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kapu/cultureg-bot-go/internal/adapter"
	"github.com/kapu/cultureg-bot-go/internal/command"
	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/gateway"
	boterrors "github.com/kapu/cultureg-bot-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// EventStream is the relay connection the bot listens on.
type EventStream interface {
	Connect(ctx context.Context) error
	OnEvent(callback gateway.EventCallback) func()
	OnStateChange(callback gateway.StateCallback) func()
	Disconnect() error
}

// CommandRegistrar publishes slash command definitions.
type CommandRegistrar interface {
	RegisterCommands(ctx context.Context, guildID string, commands []domain.CommandDefinition) error
}

// InteractionClaimer de-duplicates interactions. Optional.
type InteractionClaimer interface {
	ClaimInteraction(ctx context.Context, interactionID string) (bool, error)
}

type Dependencies struct {
	GuildID       string
	MaxConcurrent int
	Logger        *zap.Logger
	Events        EventStream
	Registrar     CommandRegistrar
	Adapter       *adapter.InteractionAdapter
	Registry      *command.Registry
	Claimer       InteractionClaimer
	// Closers release infrastructure after shutdown, in reverse order.
	Closers []func()
}

type Bot struct {
	deps         *Dependencies
	logger       *zap.Logger
	workers      *pool.Pool
	queue        chan *adapter.ParsedCommand
	stopCh       chan struct{}
	stopOnce     sync.Once
	dispatchDone chan struct{}
	started      atomic.Bool
	streamFailed chan struct{}
	failOnce     sync.Once
	mu           sync.Mutex
	unsubscribe  []func()
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies must not be nil")
	}
	if deps.Events == nil || deps.Registrar == nil || deps.Registry == nil || deps.Adapter == nil {
		return nil, fmt.Errorf("bot dependencies are incomplete")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	maxConcurrent := deps.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = constants.QuizConfig.MaxConcurrent
	}

	return &Bot{
		deps:         deps,
		logger:       deps.Logger,
		workers:      pool.New().WithMaxGoroutines(maxConcurrent),
		queue:        make(chan *adapter.ParsedCommand, constants.QuizConfig.QueueSize),
		stopCh:       make(chan struct{}),
		dispatchDone: make(chan struct{}),
		streamFailed: make(chan struct{}),
	}, nil
}

// Start registers the commands, connects to the relay and serves interactions
// until ctx is cancelled. It returns an error wrapping
// errors.ErrStreamUnavailable once the relay stream gave up reconnecting, so
// the process can exit and be restarted.
func (b *Bot) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return fmt.Errorf("bot already started")
	}

	if err := b.syncCommands(ctx); err != nil {
		close(b.dispatchDone)
		return err
	}

	b.mu.Lock()
	b.unsubscribe = append(b.unsubscribe,
		b.deps.Events.OnEvent(b.handleEvent),
		b.deps.Events.OnStateChange(b.handleState),
	)
	b.mu.Unlock()
	go b.dispatchLoop(ctx)

	if err := b.deps.Events.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil
	case <-b.streamFailed:
		b.logger.Error("Gateway relay unreachable, stopping")
		return fmt.Errorf("gateway relay lost: %w", boterrors.ErrStreamUnavailable)
	}
}

// handleState only watches for the terminal FAILED state; a failed first
// connect is already reported by Connect.
func (b *Bot) handleState(state gateway.WebSocketState) {
	if state == gateway.WSStateFailed {
		b.failOnce.Do(func() { close(b.streamFailed) })
	}
}

func (b *Bot) syncCommands(ctx context.Context) error {
	defs := b.deps.Registry.Definitions()
	if err := b.deps.Registrar.RegisterCommands(ctx, b.deps.GuildID, defs); err != nil {
		return fmt.Errorf("failed to sync slash commands: %w", err)
	}

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}

	if b.deps.GuildID != "" {
		b.logger.Info("Slash commands synced to guild",
			zap.String("guild_id", b.deps.GuildID),
			zap.Strings("commands", names),
		)
	} else {
		b.logger.Info("Slash commands synced globally (may take a while to appear)",
			zap.Strings("commands", names),
		)
	}
	return nil
}

// handleEvent runs on the listener goroutine, so it never blocks.
func (b *Bot) handleEvent(event *gateway.Event) {
	if event == nil {
		return
	}

	switch event.Type {
	case gateway.EventReady:
		if event.User != nil {
			b.logger.Info("Connected to gateway",
				zap.String("user", event.User.Username),
				zap.String("user_id", event.User.ID),
			)
		}
	case gateway.EventInteractionCreate:
		parsed := b.deps.Adapter.ParseInteraction(event.Interaction)
		if parsed.Type == domain.CommandUnknown {
			b.logger.Warn("Ignoring interaction", zap.String("command", parsed.Key))
			return
		}
		select {
		case b.queue <- parsed:
		default:
			b.logger.Warn("Interaction queue full, dropping interaction",
				zap.String("interaction_id", event.Interaction.ID),
			)
		}
	}
}

func (b *Bot) dispatchLoop(ctx context.Context) {
	defer close(b.dispatchDone)

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case parsed := <-b.queue:
			b.workers.Go(func() {
				b.execute(ctx, parsed)
			})
		}
	}
}

func (b *Bot) execute(ctx context.Context, parsed *adapter.ParsedCommand) {
	interaction := parsed.Context.Interaction

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Command panicked",
				zap.String("interaction_id", interaction.ID),
				zap.Any("panic", r),
			)
		}
	}()

	if b.deps.Claimer != nil {
		claimed, err := b.deps.Claimer.ClaimInteraction(ctx, interaction.ID)
		if err != nil {
			b.logger.Warn("Failed to claim interaction, handling it anyway",
				zap.String("interaction_id", interaction.ID),
				zap.Error(err),
			)
		} else if !claimed {
			b.logger.Debug("Interaction already handled", zap.String("interaction_id", interaction.ID))
			return
		}
	}

	if err := b.deps.Registry.Execute(ctx, parsed.Context, parsed.Key); err != nil {
		b.logger.Error("Command failed",
			zap.String("command", parsed.Key),
			zap.String("interaction_id", interaction.ID),
			zap.Error(err),
		)
	}
}

// Shutdown stops accepting interactions, disconnects and waits for running
// rounds until ctx expires.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})

	b.mu.Lock()
	for _, unsubscribe := range b.unsubscribe {
		unsubscribe()
	}
	b.unsubscribe = nil
	b.mu.Unlock()

	var firstErr error
	if err := b.deps.Events.Disconnect(); err != nil {
		firstErr = err
	}

	if b.started.Load() {
		<-b.dispatchDone

		done := make(chan struct{})
		go func() {
			b.workers.Wait()
			close(done)
		}()

		select {
		case <-done:
			b.logger.Info("All quiz rounds finished")
		case <-ctx.Done():
			b.logger.Warn("Timeout waiting for quiz rounds to finish")
			if firstErr == nil {
				firstErr = ctx.Err()
			}
		}
	}

	for i := len(b.deps.Closers) - 1; i >= 0; i-- {
		b.deps.Closers[i]()
	}

	return firstErr
}
