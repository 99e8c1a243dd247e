// Package preference keeps each user's enabled standards in a bounded
// in-memory cache backed by a durable store.
package preference

import (
	"context"

	id "tonetags/pkg/domain"
)

// DefaultStandard is enabled for users who never chose any standards.
const DefaultStandard = "core"

// DefaultCapacity bounds how many users are resident at once.
const DefaultCapacity = 100

// DefaultStandards returns a fresh default preference list.
func DefaultStandards() []string {
	return []string{DefaultStandard}
}

// Store persists preference lists keyed by user.
// Find returns sentinel.ErrNotFound when the user has no record.
// Upsert overwrites any existing record; Delete is idempotent.
type Store interface {
	Find(ctx context.Context, userID id.UserID) ([]string, error)
	Upsert(ctx context.Context, userID id.UserID, standards []string) error
	Delete(ctx context.Context, userID id.UserID) error
}
