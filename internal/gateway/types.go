package gateway

import "github.com/kapu/cultureg-bot-go/internal/domain"

type EventType string

const (
	EventMessageCreate     EventType = "MESSAGE_CREATE"
	EventInteractionCreate EventType = "INTERACTION_CREATE"
	EventReady             EventType = "READY"
)

// Event is one frame of the relay event stream.
type Event struct {
	Type        EventType           `json:"type"`
	Message     *domain.Message     `json:"message,omitempty"`
	Interaction *domain.Interaction `json:"interaction,omitempty"`
	User        *domain.User        `json:"user,omitempty"`
}

type InteractionReply struct {
	Token   string `json:"token"`
	Content string `json:"content"`
}

type WebSocketState string

const (
	WSStateConnecting   WebSocketState = "CONNECTING"
	WSStateConnected    WebSocketState = "CONNECTED"
	WSStateDisconnected WebSocketState = "DISCONNECTED"
	WSStateReconnecting WebSocketState = "RECONNECTING"
	WSStateFailed       WebSocketState = "FAILED"
)

func (s WebSocketState) String() string {
	return string(s)
}
