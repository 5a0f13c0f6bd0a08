package app

import (
	"context"
	"fmt"

	"github.com/kapu/cultureg-bot-go/internal/adapter"
	"github.com/kapu/cultureg-bot-go/internal/bot"
	"github.com/kapu/cultureg-bot-go/internal/command"
	"github.com/kapu/cultureg-bot-go/internal/config"
	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/gateway"
	"github.com/kapu/cultureg-bot-go/internal/quiz"
	"github.com/kapu/cultureg-bot-go/internal/service/cache"
	"github.com/kapu/cultureg-bot-go/internal/service/database"
	"github.com/kapu/cultureg-bot-go/internal/service/question"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Build assembles the relay connection, the question bank and the optional
// stores, and returns a container capable of creating a fully-wired bot.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	client := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Discord.Token, logger)
	ws := gateway.NewWebSocket(
		cfg.Gateway.WSURL,
		cfg.Discord.Token,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger,
	)

	if !client.Ping(ctx) {
		logger.Warn("Gateway relay health check failed", zap.String("url", cfg.Gateway.BaseURL))
	}

	questions, err := loadQuestions(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	bank, err := quiz.NewBank(questions)
	if err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	logger.Info("Question bank ready", zap.Int("questions", bank.Len()))

	flow, err := quiz.NewFlow(bank, gateway.NewMessageWaiter(ws), adapter.NewResponseFormatter(), quiz.FlowConfig{
		AnswerTimeout: cfg.Quiz.AnswerTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz flow: %w", err)
	}

	registry := command.NewRegistry()
	if err := command.RegisterDefaults(registry, &command.Dependencies{
		Quiz: flow,
		NewResponder: func(interaction *domain.Interaction) quiz.Responder {
			return gateway.NewInteractionResponder(client, interaction)
		},
		Logger: logger,
	}); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	deps := &bot.Dependencies{
		GuildID:       cfg.Discord.GuildID,
		MaxConcurrent: cfg.Quiz.MaxConcurrent,
		Logger:        logger,
		Events:        ws,
		Registrar:     client,
		Adapter:       adapter.NewInteractionAdapter(domain.CommandCulture, domain.CommandQuiz),
		Registry:      registry,
	}

	if cfg.Redis.Enabled() {
		cacheSvc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		deps.Claimer = cacheSvc
	} else {
		logger.Info("Redis not configured, interaction de-duplication disabled")
	}

	deps.Closers = closers

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
	}, nil
}

// loadQuestions reads the question set once. Without PostgreSQL the built-in
// questions are used.
func loadQuestions(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) ([]domain.Question, error) {
	if !cfg.Enabled() {
		logger.Info("PostgreSQL not configured, using built-in questions")
		return domain.DefaultQuestions(), nil
	}

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	// the set is immutable once loaded, so the connection is not kept
	defer postgresSvc.Close()

	repo := question.NewRepository(postgresSvc.GetDB(), logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	questions, err := repo.LoadEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		logger.Warn("No questions in PostgreSQL, using built-in questions")
		return domain.DefaultQuestions(), nil
	}
	return questions, nil
}
