package usecase

import (
	"regexp"
	"strings"
)

const filteredMark = "*filtered*"

// Censor replaces banned words in model output. With an empty word list it
// is a no-op.
type Censor struct {
	re *regexp.Regexp
}

func NewCensor(words []string) *Censor {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, regexp.QuoteMeta(w))
		}
	}
	if len(cleaned) == 0 {
		return &Censor{}
	}
	return &Censor{re: regexp.MustCompile("(?i)" + strings.Join(cleaned, "|"))}
}

func (c *Censor) Apply(text string) string {
	if c.re == nil {
		return text
	}
	return c.re.ReplaceAllString(text, filteredMark)
}
