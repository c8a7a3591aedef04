package model

// UserProfile is the durable per-user record. FlaggedUnsafe is sticky: it
// only ever transitions false to true.
type UserProfile struct {
	Username      string          `json:"username"`
	FlaggedUnsafe bool            `json:"flaggedUnsafe"`
	Conversation  []StoredMessage `json:"conversation"`
}

func NewUserProfile(username string) *UserProfile {
	return &UserProfile{
		Username:     username,
		Conversation: []StoredMessage{},
	}
}

// ChannelPolicy caps the flat per-channel transcript: once Cap entries are
// exceeded the oldest are discarded down to Keep. Deliberately simpler than
// the per-user retention policy.
type ChannelPolicy struct {
	Cap  int
	Keep int
}

func DefaultChannelPolicy() ChannelPolicy {
	return ChannelPolicy{Cap: 80, Keep: 40}
}

// Apply enforces the cap, returning the (possibly shortened) transcript and
// whether anything was dropped.
func (p ChannelPolicy) Apply(entries []StoredMessage) ([]StoredMessage, bool) {
	if p.Cap <= 0 || len(entries) <= p.Cap {
		return entries, false
	}
	keep := p.Keep
	if keep <= 0 || keep > p.Cap {
		keep = p.Cap / 2
	}
	return entries[len(entries)-keep:], true
}
