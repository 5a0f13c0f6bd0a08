package domain

import "time"

// Interaction is a slash command invocation delivered by the gateway relay.
type Interaction struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	Command   string `json:"command"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	User      User   `json:"user"`
}

// CommandContext carries the invocation a command handler is answering.
type CommandContext struct {
	Interaction *Interaction
	ChannelID   string
	UserID      string
	Timestamp   time.Time
}

func NewCommandContext(interaction *Interaction) *CommandContext {
	cmdCtx := &CommandContext{
		Interaction: interaction,
		Timestamp:   time.Now(),
	}
	if interaction != nil {
		cmdCtx.ChannelID = interaction.ChannelID
		cmdCtx.UserID = interaction.User.ID
	}
	return cmdCtx
}
