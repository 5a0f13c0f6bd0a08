package gateway

import (
	"context"

	"github.com/kapu/cultureg-bot-go/internal/domain"
)

// InteractionResponder binds the relay client to one interaction.
type InteractionResponder struct {
	client      *Client
	interaction *domain.Interaction
}

func NewInteractionResponder(client *Client, interaction *domain.Interaction) *InteractionResponder {
	return &InteractionResponder{client: client, interaction: interaction}
}

func (r *InteractionResponder) Acknowledge(ctx context.Context, content string) error {
	return r.client.Acknowledge(ctx, r.interaction, content)
}

func (r *InteractionResponder) FollowUp(ctx context.Context, content string) error {
	return r.client.FollowUp(ctx, r.interaction, content)
}
