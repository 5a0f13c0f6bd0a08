package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const interactionKeyPrefix = "cultureg:interaction:"

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.ReadyTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

// ClaimInteraction marks an interaction as handled. It returns false when the
// interaction was already claimed, e.g. after the relay replayed it on reconnect.
func (c *CacheService) ClaimInteraction(ctx context.Context, interactionID string) (bool, error) {
	key := interactionKeyPrefix + interactionID
	claimed, err := c.client.SetNX(ctx, key, time.Now().Unix(), constants.CacheTTL.InteractionClaim).Result()
	if err != nil {
		c.logger.Error("Cache setnx failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("setnx failed", "setnx", key, err)
	}
	return claimed, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}
