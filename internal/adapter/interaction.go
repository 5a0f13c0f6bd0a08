package adapter

import (
	"strings"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/util"
)

// InteractionAdapter converts relay interactions to bot commands
type InteractionAdapter struct {
	known []string
}

// NewInteractionAdapter creates an adapter accepting the given command names.
// Types outside the known command set, and CommandUnknown itself, are ignored.
func NewInteractionAdapter(commands ...domain.CommandType) *InteractionAdapter {
	known := make([]string, 0, len(commands))
	for _, c := range commands {
		if !c.IsValid() || c == domain.CommandUnknown {
			continue
		}
		known = append(known, util.CommandKey(c.String()))
	}
	return &InteractionAdapter{known: known}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Type    domain.CommandType
	Key     string
	Context *domain.CommandContext
}

// ParseInteraction maps an interaction to its registry key. Interactions that
// cannot be answered (no token, no user or no channel) or that name an unknown
// command come back as CommandUnknown.
func (a *InteractionAdapter) ParseInteraction(interaction *domain.Interaction) *ParsedCommand {
	if interaction == nil {
		return &ParsedCommand{Type: domain.CommandUnknown}
	}

	cmdCtx := domain.NewCommandContext(interaction)
	key := util.CommandKey(interaction.Command)

	if strings.TrimSpace(interaction.Token) == "" || cmdCtx.UserID == "" || cmdCtx.ChannelID == "" {
		return &ParsedCommand{Type: domain.CommandUnknown, Key: key, Context: cmdCtx}
	}

	if !util.Contains(a.known, key) {
		return &ParsedCommand{Type: domain.CommandUnknown, Key: key, Context: cmdCtx}
	}

	return &ParsedCommand{
		Type:    domain.CommandType(key),
		Key:     key,
		Context: cmdCtx,
	}
}
