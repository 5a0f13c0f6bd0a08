package command

import (
	"context"
	"errors"
	"testing"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/quiz"
	"go.uber.org/zap"
)

type fakeRunner struct {
	invocations []quiz.Invocation
	state       domain.QuizState
	err         error
}

func (f *fakeRunner) Run(_ context.Context, inv quiz.Invocation, _ quiz.Responder) (domain.QuizState, error) {
	f.invocations = append(f.invocations, inv)
	return f.state, f.err
}

type nopResponder struct{}

func (nopResponder) Acknowledge(context.Context, string) error { return nil }
func (nopResponder) FollowUp(context.Context, string) error    { return nil }

func newTestDeps(runner *fakeRunner, responders *[]*domain.Interaction) *Dependencies {
	return &Dependencies{
		Quiz: runner,
		NewResponder: func(interaction *domain.Interaction) quiz.Responder {
			*responders = append(*responders, interaction)
			return nopResponder{}
		},
		Logger: zap.NewNop(),
	}
}

func TestCultureAndQuizAliasRunTheSameFlow(t *testing.T) {
	runner := &fakeRunner{state: domain.QuizMatched}
	var responders []*domain.Interaction
	registry := NewRegistry()
	if err := RegisterDefaults(registry, newTestDeps(runner, &responders)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"culture", "quiz"} {
		interaction := &domain.Interaction{ID: "i-" + name, Token: "t", Command: name, ChannelID: "c1", User: domain.User{ID: "u1"}}
		if err := registry.Execute(context.Background(), domain.NewCommandContext(interaction), name); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
	}

	if len(runner.invocations) != 2 {
		t.Fatalf("expected two quiz rounds, got %d", len(runner.invocations))
	}
	for _, inv := range runner.invocations {
		if inv.UserID != "u1" || inv.ChannelID != "c1" {
			t.Fatalf("unexpected invocation %+v", inv)
		}
	}
	if len(responders) != 2 || responders[1].ID != "i-quiz" {
		t.Fatalf("each round needs its own responder, got %v", responders)
	}
}

func TestCultureCommandSurfacesFlowError(t *testing.T) {
	flowErr := errors.New("relay down")
	runner := &fakeRunner{state: domain.QuizPosted, err: flowErr}
	var responders []*domain.Interaction
	cmd := NewCultureCommand(newTestDeps(runner, &responders))

	interaction := &domain.Interaction{ID: "i1", Token: "t", ChannelID: "c1", User: domain.User{ID: "u1"}}
	err := cmd.Execute(context.Background(), domain.NewCommandContext(interaction))
	if !errors.Is(err, flowErr) {
		t.Fatalf("expected flow error, got %v", err)
	}
}

func TestCultureCommandRequiresInteraction(t *testing.T) {
	runner := &fakeRunner{}
	var responders []*domain.Interaction
	cmd := NewCultureCommand(newTestDeps(runner, &responders))

	if err := cmd.Execute(context.Background(), &domain.CommandContext{}); err == nil {
		t.Fatalf("expected an error without interaction")
	}
	if len(runner.invocations) != 0 {
		t.Fatalf("flow must not run without an interaction")
	}
}
