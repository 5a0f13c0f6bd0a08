package domain

// User is the author of a message or the invoker of an interaction.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}

// Message is a chat message delivered by the gateway relay.
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
}

// MessageFilter reports whether a message qualifies for a pending wait.
type MessageFilter func(msg *Message) bool
