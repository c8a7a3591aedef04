package model

// RetentionPolicy bounds a conversation window. MaxMessages is the
// non-system length that triggers a trim, KeepMessages the non-system length
// rebuilt by it, SalientQuota the number of recent salient turns retained
// preferentially.
type RetentionPolicy struct {
	MaxMessages  int
	KeepMessages int
	SalientQuota int
}

// DefaultRetention matches the documented threshold set: trim past 30 down
// to 20, keeping at most 7 salient turns.
func DefaultRetention() RetentionPolicy {
	return RetentionPolicy{MaxMessages: 30, KeepMessages: 20, SalientQuota: 7}
}

func (p RetentionPolicy) normalized() RetentionPolicy {
	if p.MaxMessages <= 0 {
		p.MaxMessages = 30
	}
	if p.KeepMessages <= 0 || p.KeepMessages > p.MaxMessages {
		p.KeepMessages = p.MaxMessages * 2 / 3
	}
	if p.SalientQuota < 0 {
		p.SalientQuota = 0
	}
	if p.SalientQuota > p.KeepMessages {
		p.SalientQuota = p.KeepMessages
	}
	return p
}

// Window is the in-memory rolling history owned by exactly one session.
// Index 0 is always the single system message; everything else stays in
// chronological order. Not safe for concurrent use.
type Window struct {
	system   Message
	messages []Message // non-system turns, chronological
	policy   RetentionPolicy
	names    []string // bot name and nickname, used for salience
}

func NewWindow(system Message, policy RetentionPolicy, names ...string) *Window {
	system.Role = RoleSystem
	return &Window{
		system:   system,
		messages: make([]Message, 0, 16),
		policy:   policy.normalized(),
		names:    names,
	}
}

// SetSystem swaps the pinned system message. Used when the mood changes
// between requests; history is untouched.
func (w *Window) SetSystem(m Message) {
	m.Role = RoleSystem
	w.system = m
}

// Append adds a turn and enforces the retention policy. It reports whether
// a trim occurred.
func (w *Window) Append(m Message) bool {
	if m.Role == RoleSystem {
		w.SetSystem(m)
		return false
	}
	w.messages = append(w.messages, m)
	return w.trim()
}

// Len counts all messages including the system entry.
func (w *Window) Len() int { return 1 + len(w.messages) }

// Messages returns a copy of the window: the system message followed by the
// retained turns in original order.
func (w *Window) Messages() []Message {
	out := make([]Message, 0, 1+len(w.messages))
	out = append(out, w.system)
	out = append(out, w.messages...)
	return out
}

func (w *Window) salient(m Message) bool {
	return m.Role == RoleAssistant || m.Mentions(w.names...)
}

// trim rebuilds the window once it grows past MaxMessages: the most recent
// SalientQuota salient turns survive, the rest of the KeepMessages budget is
// filled with the most recent ordinary turns, and the survivors keep their
// original order. Pure FIFO would evict exactly the direct mentions and bot
// replies a noisy channel needs for coherence.
func (w *Window) trim() bool {
	if len(w.messages) <= w.policy.MaxMessages {
		return false
	}

	keep := make([]bool, len(w.messages))
	kept := 0

	// Most recent salient turns first, up to the quota.
	for i := len(w.messages) - 1; i >= 0 && kept < w.policy.SalientQuota; i-- {
		if w.salient(w.messages[i]) {
			keep[i] = true
			kept++
		}
	}

	// Fill the remaining budget with the most recent ordinary turns.
	for i := len(w.messages) - 1; i >= 0 && kept < w.policy.KeepMessages; i-- {
		if !keep[i] && !w.salient(w.messages[i]) {
			keep[i] = true
			kept++
		}
	}

	// Still under budget only if ordinary turns ran out; top up with older
	// salient ones beyond the quota.
	for i := len(w.messages) - 1; i >= 0 && kept < w.policy.KeepMessages; i-- {
		if !keep[i] {
			keep[i] = true
			kept++
		}
	}

	trimmed := make([]Message, 0, kept)
	for i, m := range w.messages {
		if keep[i] {
			trimmed = append(trimmed, m)
		}
	}
	w.messages = trimmed
	return true
}
