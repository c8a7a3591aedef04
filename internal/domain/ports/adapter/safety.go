package adapter

// SafetyClassifier decides whether a message self-reports an unsafe
// (underage) speaker. Implementations must be deterministic and safe for
// concurrent use; over-flagging is an accepted trade-off.
type SafetyClassifier interface {
	Classify(text string) bool
}
