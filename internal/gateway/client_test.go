package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	boterrors "github.com/kapu/cultureg-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

func newRecordingServer(t *testing.T, status int) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			Body:   body,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func TestClientAcknowledgeAndFollowUp(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusNoContent)
	client := NewClient(srv.URL+"/", "secret", zap.NewNop())
	interaction := &domain.Interaction{ID: "i1", Token: "tok"}

	if err := client.Acknowledge(context.Background(), interaction, "question"); err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}
	responder := NewInteractionResponder(client, interaction)
	if err := responder.FollowUp(context.Background(), "result"); err != nil {
		t.Fatalf("follow-up failed: %v", err)
	}

	got := requests()
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0].Method != http.MethodPost || got[0].Path != "/interactions/i1/callback" {
		t.Fatalf("unexpected acknowledge request: %+v", got[0])
	}
	if got[1].Path != "/interactions/i1/followup" {
		t.Fatalf("unexpected follow-up path: %s", got[1].Path)
	}
	if got[0].Auth != "Bot secret" {
		t.Fatalf("missing bot authorization header: %q", got[0].Auth)
	}

	var reply InteractionReply
	if err := json.Unmarshal(got[1].Body, &reply); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if reply.Token != "tok" || reply.Content != "result" {
		t.Fatalf("unexpected follow-up body: %+v", reply)
	}
}

func TestClientRegisterCommandsScope(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK)
	client := NewClient(srv.URL, "secret", zap.NewNop())
	defs := []domain.CommandDefinition{{Name: "culture", Description: "Pose une question CultureG"}}

	if err := client.RegisterCommands(context.Background(), "", defs); err != nil {
		t.Fatalf("global registration failed: %v", err)
	}
	if err := client.RegisterCommands(context.Background(), "42", defs); err != nil {
		t.Fatalf("guild registration failed: %v", err)
	}

	got := requests()
	if got[0].Method != http.MethodPut || got[0].Path != "/commands" {
		t.Fatalf("unexpected global registration request: %+v", got[0])
	}
	if got[1].Path != "/guilds/42/commands" {
		t.Fatalf("unexpected guild registration path: %s", got[1].Path)
	}
}

func TestClientReturnsAPIErrorOnFailureStatus(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusBadRequest)
	client := NewClient(srv.URL, "secret", zap.NewNop())

	err := client.FollowUp(context.Background(), &domain.Interaction{ID: "i1"}, "x")
	var apiErr *boterrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", apiErr.StatusCode)
	}
}

func TestClientOpensCircuitOnServerErrors(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusBadGateway)
	client := NewClient(srv.URL, "secret", zap.NewNop())
	interaction := &domain.Interaction{ID: "i1"}

	for i := 0; i < 3; i++ {
		_ = client.FollowUp(context.Background(), interaction, "x")
	}

	err := client.FollowUp(context.Background(), interaction, "x")
	if !errors.Is(err, boterrors.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if n := len(requests()); n != 3 {
		t.Fatalf("open circuit must not reach the relay, got %d requests", n)
	}
}
