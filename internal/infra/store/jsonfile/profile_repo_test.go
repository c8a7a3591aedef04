package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ThomasBalaban/namiv3/internal/domain"
	"github.com/ThomasBalaban/namiv3/internal/domain/model"
)

func newTestProfileRepo(t *testing.T) *ProfileRepo {
	t.Helper()
	repo, err := NewProfileRepo(t.TempDir())
	if err != nil {
		t.Fatalf("NewProfileRepo: %v", err)
	}
	return repo
}

func TestProfileLoadCreatesRecord(t *testing.T) {
	repo := newTestProfileRepo(t)
	ctx := context.Background()

	p, err := repo.Load(ctx, "Ada")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Username != "Ada" {
		t.Errorf("Username = %q", p.Username)
	}
	if p.FlaggedUnsafe {
		t.Error("new record flagged")
	}
	if len(p.Conversation) != 0 {
		t.Errorf("new record has %d messages", len(p.Conversation))
	}

	// The file is on disk with a sanitized name.
	if _, err := os.Stat(filepath.Join(repo.dir, "conversation_ada.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}

	// A second load returns the same record, not a fresh one.
	again, err := repo.Load(ctx, "Ada")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again.Username != p.Username {
		t.Errorf("second load diverged: %+v", again)
	}
}

func TestProfileAppendRoundtrip(t *testing.T) {
	repo := newTestProfileRepo(t)
	ctx := context.Background()

	err := repo.Append(ctx, "ada",
		model.StoredMessage{Content: "hello"},
		model.StoredMessage{Content: "hey there!"},
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	p, err := repo.Load(ctx, "ada")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Conversation) != 2 {
		t.Fatalf("conversation = %d entries", len(p.Conversation))
	}
	if p.Conversation[0].Role != model.RoleUser || p.Conversation[0].Content != "hello" {
		t.Errorf("user turn = %+v", p.Conversation[0])
	}
	if p.Conversation[1].Role != model.RoleAssistant || p.Conversation[1].Content != "hey there!" {
		t.Errorf("assistant turn = %+v", p.Conversation[1])
	}
	if p.Conversation[0].ID == "" || p.Conversation[1].ID == "" {
		t.Error("stored entries missing IDs")
	}
	if p.Conversation[0].ID == p.Conversation[1].ID {
		t.Error("entries share an ID")
	}

	// Appends accumulate.
	if err := repo.Append(ctx, "ada",
		model.StoredMessage{Content: "still there?"},
		model.StoredMessage{Content: "always"},
	); err != nil {
		t.Fatalf("second Append: %v", err)
	}
	p, _ = repo.Load(ctx, "ada")
	if len(p.Conversation) != 4 {
		t.Fatalf("conversation = %d entries after second append", len(p.Conversation))
	}
}

func TestProfileCorruptRecordFailsLoud(t *testing.T) {
	repo := newTestProfileRepo(t)
	ctx := context.Background()

	path := filepath.Join(repo.dir, "conversation_ada.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := repo.Load(ctx, "ada"); !errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("Load error = %v, want ErrCorruptRecord", err)
	}

	// The corrupt file is left in place for inspection, never overwritten.
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "{not json" {
		t.Errorf("corrupt record was rewritten: %q", b)
	}
}

func TestProfileMarkUnsafe(t *testing.T) {
	repo := newTestProfileRepo(t)
	ctx := context.Background()

	if err := repo.MarkUnsafe(ctx, "kid"); err != nil {
		t.Fatalf("MarkUnsafe: %v", err)
	}
	p, err := repo.Load(ctx, "kid")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.FlaggedUnsafe {
		t.Fatal("flag not set")
	}

	// Idempotent: the record is not rewritten when already flagged.
	path := filepath.Join(repo.dir, "conversation_kid.json")
	before, _ := os.Stat(path)
	if err := repo.MarkUnsafe(ctx, "kid"); err != nil {
		t.Fatalf("second MarkUnsafe: %v", err)
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("already-flagged record was rewritten")
	}

	// The flag survives later appends.
	if err := repo.Append(ctx, "kid",
		model.StoredMessage{Content: "hi"},
		model.StoredMessage{Content: "ehhhh"},
	); err != nil {
		t.Fatalf("Append: %v", err)
	}
	p, _ = repo.Load(ctx, "kid")
	if !p.FlaggedUnsafe {
		t.Fatal("flag lost after append")
	}
}

func TestProfileEmptyUsernameRejected(t *testing.T) {
	repo := newTestProfileRepo(t)

	if _, err := repo.Load(context.Background(), ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Load error = %v, want ErrInvalidArgument", err)
	}
}

func TestKeyToFileSanitizes(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"Ada", "conversation_ada.json"},
		{"user-42_x", "conversation_user-42_x.json"},
		{"etc/passwd", "conversation_etc_passwd.json"},
		{"söme user", "conversation_s_me_user.json"},
	}
	for _, tc := range cases {
		if got := keyToFile("conversation", tc.key); got != tc.want {
			t.Errorf("keyToFile(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}
