package quiz

import (
	"strings"
	"unicode"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize maps free text to the form answers are compared in: trimmed,
// lowercased, accents removed, and everything outside [a-z0-9] dropped.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	// transform.Chain keeps state, so it is built per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(stripMarks, text)
	if err != nil {
		decomposed = text
	}

	var builder strings.Builder
	builder.Grow(len(decomposed))
	for _, r := range decomposed {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// NewAnswerAttempt normalizes a candidate reply.
func NewAnswerAttempt(raw string) domain.AnswerAttempt {
	return domain.AnswerAttempt{
		Raw:        raw,
		Normalized: Normalize(raw),
	}
}

// Matches reports whether a reply is accepted for the expected answer.
func Matches(reply, expected string) bool {
	return Normalize(reply) == Normalize(expected)
}
