package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ThomasBalaban/namiv3/internal/domain"
	"github.com/ThomasBalaban/namiv3/internal/domain/model"
	"github.com/ThomasBalaban/namiv3/internal/domain/ports/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo stores one record per username under <dir>/user_profiles.
// Each durable key is only ever mutated by its owning session, so the repo
// itself takes no locks.
type ProfileRepo struct {
	dir string
}

func NewProfileRepo(root string) (*ProfileRepo, error) {
	dir := filepath.Join(root, "user_profiles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &ProfileRepo{dir: dir}, nil
}

func (r *ProfileRepo) path(username string) string {
	return filepath.Join(r.dir, keyToFile("conversation", username))
}

// Load returns the record for username, creating and re-reading an empty one
// when none exists yet. A record that exists but does not parse surfaces
// ErrCorruptRecord; it is never replaced with an empty one.
func (r *ProfileRepo) Load(ctx context.Context, username string) (*model.UserProfile, error) {
	if username == "" {
		return nil, domain.ErrInvalidArgument
	}
	path := r.path(username)

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := writeAtomic(path, model.NewUserProfile(username)); err != nil {
			return nil, err
		}
		// Re-read so callers only ever see what was durably committed.
		if b, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reload %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var p model.UserProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrCorruptRecord)
	}
	if p.Conversation == nil {
		p.Conversation = []model.StoredMessage{}
	}
	return &p, nil
}

// Append pushes one user/assistant pair via whole-record read-modify-write.
func (r *ProfileRepo) Append(ctx context.Context, username string, userTurn, assistantTurn model.StoredMessage) error {
	p, err := r.Load(ctx, username)
	if err != nil {
		return err
	}
	userTurn.Role = model.RoleUser
	assistantTurn.Role = model.RoleAssistant
	if userTurn.ID == "" {
		userTurn.ID = uuid.NewString()
	}
	if assistantTurn.ID == "" {
		assistantTurn.ID = uuid.NewString()
	}
	p.Conversation = append(p.Conversation, userTurn, assistantTurn)
	return writeAtomic(r.path(username), p)
}

// MarkUnsafe sets the sticky flag. Idempotent; already-flagged records are
// not rewritten.
func (r *ProfileRepo) MarkUnsafe(ctx context.Context, username string) error {
	p, err := r.Load(ctx, username)
	if err != nil {
		return err
	}
	if p.FlaggedUnsafe {
		return nil
	}
	p.FlaggedUnsafe = true
	return writeAtomic(r.path(username), p)
}
