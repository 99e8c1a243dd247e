package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"tonetags/internal/audit"
	id "tonetags/pkg/domain"
)

// Store keeps audit events in the audit_events table created by the preference migrations.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts the event. Replays of the same event id are ignored.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	standards := event.Standards
	if standards == nil {
		standards = []string{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, action, uid, request_id, standards, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, event.ID, string(event.Action), event.UserID.Int64(), event.RequestID, pq.Array(standards), event.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns a user's events, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, request_id, standards, created_at
		FROM audit_events
		WHERE uid = $1
		ORDER BY created_at, id
	`, userID.Int64())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		event := audit.Event{UserID: userID}
		var action string
		var standards []string
		if err := rows.Scan(&event.ID, &action, &event.RequestID, pq.Array(&standards), &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Action = audit.Action(action)
		if len(standards) > 0 {
			event.Standards = standards
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
