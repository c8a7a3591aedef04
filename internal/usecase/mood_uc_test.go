package usecase

import (
	"strings"
	"sync"
	"testing"

	"github.com/ThomasBalaban/namiv3/internal/domain/model"
)

func testPersona() Persona {
	p := DefaultPersona("PeepingNami", "Nami")
	p.Moods = map[model.Mood]string{
		model.MoodHappy: "HAPPY-FRAGMENT",
		model.MoodAngry: "ANGRY-FRAGMENT",
	}
	return p
}

func TestSetMoodRegeneratesPrompt(t *testing.T) {
	uc := NewMoodUseCase(testPersona(), model.MoodHappy)

	prompt := uc.SystemPrompt()
	if !strings.Contains(prompt, "mood is: happy") || !strings.Contains(prompt, "HAPPY-FRAGMENT") {
		t.Fatalf("initial prompt missing happy pieces: %q", prompt)
	}

	uc.SetMood(model.MoodAngry)
	prompt = uc.SystemPrompt()
	if !strings.Contains(prompt, "mood is: angry") || !strings.Contains(prompt, "ANGRY-FRAGMENT") {
		t.Fatalf("prompt missing angry pieces after transition: %q", prompt)
	}
	if strings.Contains(prompt, "HAPPY-FRAGMENT") {
		t.Fatal("prompt mixes old mood fragment with new mood")
	}
}

func TestUnknownMoodStoredVerbatim(t *testing.T) {
	uc := NewMoodUseCase(testPersona(), model.MoodHappy)

	uc.SetMood(model.Mood("confused"))
	if uc.Current() != "confused" {
		t.Fatalf("current mood = %q, want verbatim store", uc.Current())
	}
	prompt := uc.SystemPrompt()
	if !strings.Contains(prompt, "mood is: confused") {
		t.Fatalf("prompt does not carry the unknown mood label: %q", prompt)
	}
	if strings.Contains(prompt, "FRAGMENT") {
		t.Fatal("unknown mood should have no fragment")
	}
}

// Concurrent readers must observe either the old bundle or the new one,
// never a label from one mood paired with the fragment of another.
func TestMoodSwapIsAtomic(t *testing.T) {
	uc := NewMoodUseCase(testPersona(), model.MoodHappy)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				uc.SetMood(model.MoodAngry)
			} else {
				uc.SetMood(model.MoodHappy)
			}
		}
	}()

	for i := 0; i < 5000; i++ {
		prompt := uc.SystemPrompt()
		happy := strings.Contains(prompt, "mood is: happy")
		if happy && strings.Contains(prompt, "ANGRY-FRAGMENT") {
			t.Fatal("observed happy label with angry fragment")
		}
		if !happy && strings.Contains(prompt, "HAPPY-FRAGMENT") {
			t.Fatal("observed angry label with happy fragment")
		}
	}
	close(stop)
	wg.Wait()
}
