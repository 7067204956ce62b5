package ports

import "context"

// MarkerStore persists the id of the newest order the administrator has
// already been told about, so that restarts do not repeat the notification.
type MarkerStore interface {
	// Load returns the stored id, or "" when nothing has been stored yet.
	Load(ctx context.Context) (string, error)

	// Save replaces the stored id.
	Save(ctx context.Context, orderID string) error
}
