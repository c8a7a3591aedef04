package repository

import (
	"context"

	"github.com/ThomasBalaban/namiv3/internal/domain/model"
)

// ProfileRepository persists one durable record per username.
//
// Load on a missing key creates an empty record first and re-reads it, so
// callers never hold a record that was not durably committed. Append is a
// whole-record read-modify-write and must fail loudly (ErrCorruptRecord) when
// the existing record does not parse; a corrupt record is never overwritten
// blindly. MarkUnsafe is idempotent and the flag never reverts.
type ProfileRepository interface {
	Load(ctx context.Context, username string) (*model.UserProfile, error)
	Append(ctx context.Context, username string, userTurn, assistantTurn model.StoredMessage) error
	MarkUnsafe(ctx context.Context, username string) error
}
