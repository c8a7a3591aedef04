package model

// Mood is the bot-wide emotional state. Unrecognized values are stored
// verbatim; they simply carry no mood prompt fragment.
type Mood string

const (
	MoodHappy Mood = "happy"
	MoodAngry Mood = "angry"
	MoodHorny Mood = "horny"
	MoodSad   Mood = "sad"
)

// KnownMood reports whether the mood has a built-in prompt fragment.
func KnownMood(m Mood) bool {
	switch m {
	case MoodHappy, MoodAngry, MoodHorny, MoodSad:
		return true
	}
	return false
}
