package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/pkg/errors"
)

// EventSource is anything events can be subscribed on; *WebSocket satisfies it.
type EventSource interface {
	OnEvent(callback EventCallback) func()
	OnStateChange(callback StateCallback) func()
	GetState() WebSocketState
}

// MessageWaiter resolves one-shot waits for the next qualifying message.
type MessageWaiter struct {
	source EventSource
}

func NewMessageWaiter(source EventSource) *MessageWaiter {
	return &MessageWaiter{source: source}
}

// WaitForMessage blocks until a message accepted by filter arrives, the timeout
// elapses (errors.ErrTimeoutExpired) or ctx is done. Only the first accepted
// message is kept. A source that is not connected, or that gives up
// reconnecting during the wait, yields errors.ErrStreamUnavailable.
func (w *MessageWaiter) WaitForMessage(ctx context.Context, filter domain.MessageFilter, timeout time.Duration) (*domain.Message, error) {
	matched := make(chan *domain.Message, 1)
	failed := make(chan struct{})
	var failOnce sync.Once

	unsubscribeState := w.source.OnStateChange(func(state WebSocketState) {
		if state == WSStateFailed {
			failOnce.Do(func() { close(failed) })
		}
	})
	defer unsubscribeState()

	unsubscribe := w.source.OnEvent(func(event *Event) {
		if event == nil || event.Type != EventMessageCreate || event.Message == nil {
			return
		}
		if filter != nil && !filter(event.Message) {
			return
		}
		select {
		case matched <- event.Message:
		default:
		}
	})
	defer unsubscribe()

	// checked after subscribing so a failure in between is not missed
	if state := w.source.GetState(); state != WSStateConnected {
		return nil, fmt.Errorf("%w: state %s", errors.ErrStreamUnavailable, state)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-matched:
		return msg, nil
	case <-failed:
		return nil, fmt.Errorf("%w: state %s", errors.ErrStreamUnavailable, WSStateFailed)
	case <-timer.C:
		return nil, errors.ErrTimeoutExpired
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
