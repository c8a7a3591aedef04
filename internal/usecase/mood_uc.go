// File: internal/usecase/mood_uc.go
package usecase

import (
	"sync/atomic"

	"github.com/ThomasBalaban/namiv3/internal/domain/model"
)

// Compile-time check
var _ MoodUseCase = (*moodUC)(nil)

// MoodUseCase owns the single bot-wide mood. Transitions swap the whole
// derived prompt bundle atomically, so a concurrent reader sees either the
// old mood's text or the new mood's text, never a mix.
type MoodUseCase interface {
	Current() model.Mood
	SetMood(m model.Mood)
	SystemPrompt() string
}

// promptBundle is an immutable snapshot of everything derived from a mood.
type promptBundle struct {
	mood        model.Mood
	moodContent string
	system      string
}

type moodUC struct {
	persona Persona
	bundle  atomic.Pointer[promptBundle]
}

func NewMoodUseCase(persona Persona, initial model.Mood) *moodUC {
	uc := &moodUC{persona: persona}
	uc.bundle.Store(uc.build(initial))
	return uc
}

func (u *moodUC) build(m model.Mood) *promptBundle {
	return &promptBundle{
		mood:        m,
		moodContent: u.persona.moodContent(m),
		system:      u.persona.systemPrompt(m),
	}
}

func (u *moodUC) Current() model.Mood { return u.bundle.Load().mood }

// SetMood regenerates every derived fragment and publishes them in one swap.
// Unrecognized moods are stored verbatim; their fragment is simply absent.
func (u *moodUC) SetMood(m model.Mood) {
	u.bundle.Store(u.build(m))
}

func (u *moodUC) SystemPrompt() string { return u.bundle.Load().system }
