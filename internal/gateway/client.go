package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/util"
	"github.com/kapu/cultureg-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Client talks to the relay's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.GatewayTimeout,
		},
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
	}
}

// RegisterCommands overwrites the bot's slash commands. An empty guildID
// registers them globally, which can take a while to show up on the platform.
func (c *Client) RegisterCommands(ctx context.Context, guildID string, commands []domain.CommandDefinition) error {
	path := "/commands"
	if guildID != "" {
		path = "/guilds/" + url.PathEscape(guildID) + "/commands"
	}

	if err := c.doRequest(ctx, http.MethodPut, path, commands, nil); err != nil {
		c.logger.Error("Failed to register commands",
			zap.Error(err),
			zap.String("guild_id", guildID),
		)
		return err
	}
	return nil
}

// Acknowledge sends the first response to an interaction.
func (c *Client) Acknowledge(ctx context.Context, interaction *domain.Interaction, content string) error {
	path := "/interactions/" + url.PathEscape(interaction.ID) + "/callback"
	req := InteractionReply{Token: interaction.Token, Content: content}

	if err := c.doRequest(ctx, http.MethodPost, path, req, nil); err != nil {
		c.logger.Error("Failed to acknowledge interaction",
			zap.Error(err),
			zap.String("interaction_id", interaction.ID),
		)
		return err
	}
	return nil
}

// FollowUp sends a message after the interaction was acknowledged.
func (c *Client) FollowUp(ctx context.Context, interaction *domain.Interaction, content string) error {
	path := "/interactions/" + url.PathEscape(interaction.ID) + "/followup"
	req := InteractionReply{Token: interaction.Token, Content: content}

	if err := c.doRequest(ctx, http.MethodPost, path, req, nil); err != nil {
		c.logger.Error("Failed to send follow-up",
			zap.Error(err),
			zap.String("interaction_id", interaction.ID),
		)
		return err
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) bool {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil) == nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody any) error {
	endpoint := c.baseURL + path

	if !c.breaker.CanExecute() {
		return errors.NewAPIError("gateway unavailable", http.StatusServiceUnavailable, map[string]any{
			"url": endpoint,
		}).WithCause(errors.ErrCircuitOpen)
	}

	// a 4xx still proves the relay is up, and it settles a half-open trial
	err := c.send(ctx, method, endpoint, reqBody, respBody)
	if err != nil && isServerSide(err) {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
	return err
}

func (c *Client) send(ctx context.Context, method, endpoint string, reqBody, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return errors.NewAPIError("failed to marshal request", 400, map[string]any{
				"url": endpoint,
			}).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": endpoint,
		}).WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("request failed", 500, map[string]any{
			"url": endpoint,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.NewAPIError(
			fmt.Sprintf("gateway API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  endpoint,
				"body": util.TruncateString(string(bodyBytes), constants.StringLimits.LogPreview),
			},
		)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return errors.NewAPIError("failed to decode response", 500, map[string]any{
				"url": endpoint,
			}).WithCause(err)
		}
	}

	return nil
}

// isServerSide reports whether a failure says something about relay health.
// 4xx answers mean the relay is up and rejected this one request.
func isServerSide(err error) bool {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		return true
	}
	return apiErr.StatusCode >= 500 || apiErr.StatusCode == 0
}
