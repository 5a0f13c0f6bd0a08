package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kapu/cultureg-bot-go/internal/adapter"
	"github.com/kapu/cultureg-bot-go/internal/command"
	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/gateway"
	boterrors "github.com/kapu/cultureg-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type fakeStream struct {
	mu           sync.Mutex
	callback     gateway.EventCallback
	stateCb      gateway.StateCallback
	connected    chan struct{}
	disconnected bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{connected: make(chan struct{})}
}

func (f *fakeStream) Connect(context.Context) error {
	close(f.connected)
	return nil
}

func (f *fakeStream) OnEvent(callback gateway.EventCallback) func() {
	f.mu.Lock()
	f.callback = callback
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.callback = nil
		f.mu.Unlock()
	}
}

func (f *fakeStream) OnStateChange(callback gateway.StateCallback) func() {
	f.mu.Lock()
	f.stateCb = callback
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.stateCb = nil
		f.mu.Unlock()
	}
}

func (f *fakeStream) setState(state gateway.WebSocketState) {
	f.mu.Lock()
	cb := f.stateCb
	f.mu.Unlock()
	if cb != nil {
		cb(state)
	}
}

func (f *fakeStream) Disconnect() error {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
	return nil
}

func (f *fakeStream) emit(event *gateway.Event) {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	if cb != nil {
		cb(event)
	}
}

type fakeRegistrar struct {
	guildID string
	defs    []domain.CommandDefinition
	err     error
}

func (f *fakeRegistrar) RegisterCommands(_ context.Context, guildID string, defs []domain.CommandDefinition) error {
	f.guildID = guildID
	f.defs = defs
	return f.err
}

type memoryClaimer struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memoryClaimer) ClaimInteraction(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

type countingCommand struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (c *countingCommand) Name() string        { return "culture" }
func (c *countingCommand) Description() string { return "Pose une question CultureG" }
func (c *countingCommand) Execute(_ context.Context, cmdCtx *domain.CommandContext) error {
	c.mu.Lock()
	c.calls = append(c.calls, cmdCtx.Interaction.ID)
	c.mu.Unlock()
	c.done <- struct{}{}
	return nil
}

func newTestBot(t *testing.T, stream *fakeStream, registrar *fakeRegistrar, claimer InteractionClaimer, cmd *countingCommand) *Bot {
	t.Helper()
	registry := command.NewRegistry()
	registry.Register(cmd)
	if err := registry.RegisterAlias("quiz", "culture", "Alias de /culture"); err != nil {
		t.Fatalf("unexpected alias error: %v", err)
	}

	b, err := NewBot(&Dependencies{
		GuildID:   "42",
		Logger:    zap.NewNop(),
		Events:    stream,
		Registrar: registrar,
		Adapter:   adapter.NewInteractionAdapter(domain.CommandCulture, domain.CommandQuiz),
		Registry:  registry,
		Claimer:   claimer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func interactionEvent(id, name string) *gateway.Event {
	return &gateway.Event{
		Type: gateway.EventInteractionCreate,
		Interaction: &domain.Interaction{
			ID:        id,
			Token:     "tok",
			Command:   name,
			ChannelID: "c1",
			User:      domain.User{ID: "u1"},
		},
	}
}

func waitCall(t *testing.T, cmd *countingCommand) {
	t.Helper()
	select {
	case <-cmd.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("command was not executed")
	}
}

func TestBotRegistersCommandsAndDispatchesInteractions(t *testing.T) {
	stream := newFakeStream()
	registrar := &fakeRegistrar{}
	claimer := &memoryClaimer{seen: make(map[string]bool)}
	cmd := &countingCommand{done: make(chan struct{}, 8)}
	b := newTestBot(t, stream, registrar, claimer, cmd)

	ctx, cancel := context.WithCancel(context.Background())
	startErr := make(chan error, 1)
	go func() { startErr <- b.Start(ctx) }()
	<-stream.connected

	if registrar.guildID != "42" || len(registrar.defs) != 2 {
		t.Fatalf("unexpected registration: guild=%q defs=%+v", registrar.guildID, registrar.defs)
	}

	stream.emit(interactionEvent("i1", "culture"))
	waitCall(t, cmd)
	stream.emit(interactionEvent("i2", "quiz"))
	waitCall(t, cmd)

	// replayed interaction and unknown command are both dropped
	stream.emit(interactionEvent("i1", "culture"))
	stream.emit(interactionEvent("i3", "trivia"))
	select {
	case <-cmd.done:
		t.Fatalf("unexpected extra execution")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	if err := <-startErr; err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := b.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}

	cmd.mu.Lock()
	defer cmd.mu.Unlock()
	if len(cmd.calls) != 2 || cmd.calls[0] != "i1" || cmd.calls[1] != "i2" {
		t.Fatalf("unexpected executions %v", cmd.calls)
	}
	if !stream.disconnected {
		t.Fatalf("shutdown should disconnect the stream")
	}
}

func TestBotStartFailsWhenRegistrationFails(t *testing.T) {
	stream := newFakeStream()
	registrar := &fakeRegistrar{err: errors.New("unauthorized")}
	cmd := &countingCommand{done: make(chan struct{}, 1)}
	b := newTestBot(t, stream, registrar, nil, cmd)

	err := b.Start(context.Background())
	if err == nil || !errors.Is(err, registrar.err) {
		t.Fatalf("expected registration error, got %v", err)
	}

	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown after failed start should succeed, got %v", err)
	}
}

func TestBotStartReturnsWhenStreamFails(t *testing.T) {
	stream := newFakeStream()
	cmd := &countingCommand{done: make(chan struct{}, 1)}
	b := newTestBot(t, stream, &fakeRegistrar{}, nil, cmd)

	startErr := make(chan error, 1)
	go func() { startErr <- b.Start(context.Background()) }()
	<-stream.connected

	// transient states keep the bot running
	stream.setState(gateway.WSStateReconnecting)
	select {
	case err := <-startErr:
		t.Fatalf("start returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	stream.setState(gateway.WSStateFailed)
	select {
	case err := <-startErr:
		if !errors.Is(err, boterrors.ErrStreamUnavailable) {
			t.Fatalf("expected ErrStreamUnavailable, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("start kept blocking after the stream failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestNewBotRejectsIncompleteDependencies(t *testing.T) {
	if _, err := NewBot(&Dependencies{}); err == nil {
		t.Fatalf("expected an error")
	}
}
