package model

import (
	"fmt"
	"strings"
	"testing"
)

func newTestWindow(policy RetentionPolicy) *Window {
	return NewWindow(NewSystemMessage("system prompt"), policy, "PeepingNami", "Nami")
}

func TestWindowSystemAlwaysFirst(t *testing.T) {
	w := newTestWindow(RetentionPolicy{MaxMessages: 30, KeepMessages: 20, SalientQuota: 7})

	for i := 0; i < 100; i++ {
		w.Append(NewUserMessage("bob", fmt.Sprintf("message %d", i)))
		msgs := w.Messages()
		if msgs[0].Role != RoleSystem {
			t.Fatalf("after %d appends, first message role = %q, want system", i+1, msgs[0].Role)
		}
		if got := w.Len(); got > 31 {
			t.Fatalf("after %d appends, window length %d exceeds cap", i+1, got)
		}
		for _, m := range msgs[1:] {
			if m.Role == RoleSystem {
				t.Fatal("found a second system message in the window")
			}
		}
	}
}

func TestWindowTrimToKeep(t *testing.T) {
	w := newTestWindow(RetentionPolicy{MaxMessages: 30, KeepMessages: 20, SalientQuota: 7})

	trimmed := false
	for i := 0; i < 31; i++ {
		trimmed = w.Append(NewUserMessage("bob", fmt.Sprintf("message %d", i)))
	}
	if !trimmed {
		t.Fatal("31st append should have trimmed")
	}
	if got := w.Len(); got != 21 {
		t.Fatalf("window length after trim = %d, want 21 (system + 20)", got)
	}
}

func TestWindowTrimPrefersSalient(t *testing.T) {
	w := newTestWindow(RetentionPolicy{MaxMessages: 30, KeepMessages: 20, SalientQuota: 7})

	// 10 early mentions, then enough ordinary chatter to force a trim.
	for i := 0; i < 10; i++ {
		w.Append(NewUserMessage("alice", fmt.Sprintf("hey nami this is mention %d", i)))
	}
	for i := 0; i < 21; i++ {
		w.Append(NewUserMessage("bob", fmt.Sprintf("ordinary chatter %d", i)))
	}

	msgs := w.Messages()
	salient := 0
	for _, m := range msgs[1:] {
		if strings.Contains(strings.ToLower(m.Content), "nami") {
			salient++
		}
	}
	if salient != 7 {
		t.Fatalf("kept %d salient messages, want the quota of 7", salient)
	}
	// The newest mention must have survived even though all mentions are
	// older than every ordinary message.
	found := false
	for _, m := range msgs {
		if strings.Contains(m.Content, "mention 9") {
			found = true
		}
	}
	if !found {
		t.Fatal("most recent mention was evicted")
	}
}

func TestWindowTrimPreservesOrder(t *testing.T) {
	w := newTestWindow(RetentionPolicy{MaxMessages: 10, KeepMessages: 6, SalientQuota: 3})

	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("ordinary %02d", i)
		if i%4 == 0 {
			content = fmt.Sprintf("nami says %02d", i)
		}
		w.Append(NewUserMessage("bob", content))
	}

	msgs := w.Messages()
	for i := 2; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("messages out of chronological order at index %d", i)
		}
	}
}

func TestWindowAssistantTurnsAreSalient(t *testing.T) {
	w := newTestWindow(RetentionPolicy{MaxMessages: 10, KeepMessages: 6, SalientQuota: 3})

	w.Append(NewAssistantMessage("a reply worth keeping"))
	for i := 0; i < 10; i++ {
		w.Append(NewUserMessage("bob", fmt.Sprintf("noise %d", i)))
	}

	found := false
	for _, m := range w.Messages() {
		if m.Role == RoleAssistant {
			found = true
		}
	}
	if !found {
		t.Fatal("assistant turn was evicted before older ordinary turns")
	}
}

func TestSetSystemReplacesNotAppends(t *testing.T) {
	w := newTestWindow(DefaultRetention())
	w.Append(NewUserMessage("bob", "hello"))
	w.SetSystem(NewSystemMessage("new prompt"))

	msgs := w.Messages()
	if msgs[0].Content != "new prompt" {
		t.Fatalf("system content = %q, want replacement", msgs[0].Content)
	}
	if w.Len() != 2 {
		t.Fatalf("window length = %d, want 2", w.Len())
	}
}
