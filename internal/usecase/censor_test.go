// File: internal/usecase/censor_test.go
package usecase

import "testing"

func TestCensorReplacesWords(t *testing.T) {
	c := NewCensor([]string{"badword", "worse phrase"})

	cases := []struct {
		in   string
		want string
	}{
		{"nothing to see here", "nothing to see here"},
		{"that's a badword right there", "that's a *filtered* right there"},
		{"BADWORD at the start", "*filtered* at the start"},
		{"a worse phrase and a badword", "a *filtered* and a *filtered*"},
	}
	for _, tc := range cases {
		if got := c.Apply(tc.in); got != tc.want {
			t.Errorf("Apply(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCensorEmptyListIsNoop(t *testing.T) {
	c := NewCensor(nil)
	if got := c.Apply("anything goes"); got != "anything goes" {
		t.Errorf("Apply = %q", got)
	}

	c = NewCensor([]string{"", "   "})
	if got := c.Apply("still anything"); got != "still anything" {
		t.Errorf("Apply = %q", got)
	}
}

func TestCensorEscapesMetaCharacters(t *testing.T) {
	c := NewCensor([]string{"a.b"})
	if got := c.Apply("axb is fine"); got != "axb is fine" {
		t.Errorf("dot matched as wildcard: %q", got)
	}
	if got := c.Apply("a.b is not"); got != "*filtered* is not" {
		t.Errorf("literal match failed: %q", got)
	}
}
