package adapter

import (
	"strings"
	"testing"
	"time"

	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/internal/domain"
)

func TestFormatQuestion(t *testing.T) {
	f := NewResponseFormatter()

	got, err := f.FormatQuestion(domain.Question{Prompt: "Capitale de l'Australie ?", Answer: "Canberra"}, 20*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "🧠 **CultureG**\nCapitale de l'Australie ?\n\n_Réponds dans le chat (20s), je te dis si c'est bon 😉_"
	if got != want {
		t.Fatalf("unexpected question message:\n%q\nwant\n%q", got, want)
	}
	if strings.Contains(got, "Canberra") {
		t.Fatalf("question message must not leak the answer")
	}
}

func TestFormatResults(t *testing.T) {
	f := NewResponseFormatter()

	tests := []struct {
		name   string
		render func() (string, error)
		want   string
	}{
		{
			name:   "success",
			render: f.FormatSuccess,
			want:   "✅ Bien joué ! Bonne réponse.",
		},
		{
			name:   "failure reveals answer",
			render: func() (string, error) { return f.FormatFailure("Canberra") },
			want:   "❌ Pas ça… La bonne réponse était : **Canberra**",
		},
		{
			name:   "timeout reveals answer",
			render: func() (string, error) { return f.FormatTimeout("Canberra") },
			want:   "⏰ Temps écoulé ! La réponse était : **Canberra**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.render()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatQuestionTruncatesLongPrompts(t *testing.T) {
	f := NewResponseFormatter()

	prompt := strings.Repeat("é", constants.StringLimits.MessageContent*2)
	got, err := f.FormatQuestion(domain.Question{Prompt: prompt, Answer: "x"}, 20*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len([]rune(got)); n != constants.StringLimits.MessageContent+3 {
		t.Fatalf("expected truncated message, got %d runes", n)
	}
}
