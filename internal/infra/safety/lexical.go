// Package safety holds the lexical implementation of the sticky unsafe-user
// classifier. A smarter model-backed classifier can replace it behind the
// same port without touching the sticky-flag contract.
package safety

import (
	"fmt"
	"strings"

	"github.com/ThomasBalaban/namiv3/internal/domain/ports/adapter"
)

var _ adapter.SafetyClassifier = (*Lexical)(nil)

// Lexical is a deterministic case-insensitive substring matcher over a fixed
// phrase list of self-reported age/legal-status statements. No negation
// handling and no context window: a sarcastic "I am 16" still flags.
type Lexical struct {
	phrases []string
}

// NewLexical builds the classifier with the built-in phrase list plus any
// extra phrases from config.
func NewLexical(extra ...string) *Lexical {
	phrases := []string{
		"i am underage",
		"i'm underage",
		"im underage",
		"i am a minor",
		"i'm a minor",
		"im a minor",
		"i am under 18",
		"i'm under 18",
		"im under 18",
		"i am not 18",
		"i'm not 18",
	}
	for age := 10; age < 18; age++ {
		phrases = append(phrases,
			fmt.Sprintf("i am %d", age),
			fmt.Sprintf("i'm %d", age),
			fmt.Sprintf("im %d", age),
			fmt.Sprintf("i am %d years old", age),
		)
	}
	for _, p := range extra {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			phrases = append(phrases, p)
		}
	}
	return &Lexical{phrases: phrases}
}

func (l *Lexical) Classify(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range l.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
