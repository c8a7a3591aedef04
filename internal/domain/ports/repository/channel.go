package repository

import (
	"context"

	"github.com/ThomasBalaban/namiv3/internal/domain/model"
)

// ChannelLogRepository persists the flat per-channel transcript. Record
// appends one entry and enforces the channel cap (oldest half dropped on
// overflow). Load on a missing channel creates an empty transcript first.
type ChannelLogRepository interface {
	Load(ctx context.Context, channel string) ([]model.StoredMessage, error)
	Record(ctx context.Context, channel string, entry model.StoredMessage) error
}
