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

var _ repository.ChannelLogRepository = (*ChannelRepo)(nil)

// ChannelRepo stores the flat transcript per channel under <dir>/chat_logs,
// capped by a ChannelPolicy (oldest half dropped on overflow).
type ChannelRepo struct {
	dir    string
	policy model.ChannelPolicy
}

func NewChannelRepo(root string, policy model.ChannelPolicy) (*ChannelRepo, error) {
	dir := filepath.Join(root, "chat_logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	if policy.Cap <= 0 {
		policy = model.DefaultChannelPolicy()
	}
	return &ChannelRepo{dir: dir, policy: policy}, nil
}

func (r *ChannelRepo) path(channel string) string {
	return filepath.Join(r.dir, keyToFile("twitchchatconversation", channel))
}

// Load returns the transcript, creating an empty one when missing. An
// over-cap transcript is compacted and rewritten on load too, so a file that
// grew while the policy was looser heals on the next start.
func (r *ChannelRepo) Load(ctx context.Context, channel string) ([]model.StoredMessage, error) {
	if channel == "" {
		return nil, domain.ErrInvalidArgument
	}
	path := r.path(channel)

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := writeAtomic(path, []model.StoredMessage{}); err != nil {
			return nil, err
		}
		if b, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reload %s: %w", path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var entries []model.StoredMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrCorruptRecord)
	}
	if entries == nil {
		entries = []model.StoredMessage{}
	}
	if compacted, dropped := r.policy.Apply(entries); dropped {
		entries = compacted
		if err := writeAtomic(path, entries); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Record appends one entry and enforces the cap.
func (r *ChannelRepo) Record(ctx context.Context, channel string, entry model.StoredMessage) error {
	entries, err := r.Load(ctx, channel)
	if err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entries = append(entries, entry)
	entries, _ = r.policy.Apply(entries)
	return writeAtomic(r.path(channel), entries)
}
