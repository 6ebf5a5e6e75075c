// Package serviceinterfaces defines service contracts consumed by the
// handlers and commands, keeping them decoupled from concrete storage.
package serviceinterfaces

import (
	"context"

	"feedbackapp/internal/models"
)

// FeedbackServiceInterface is the storage contract for feedback entries.
// Mutating operations report success as a bool; failures are logged by the
// implementation rather than surfaced to callers.
type FeedbackServiceInterface interface {
	// Create inserts a new entry stamped with the current local time.
	Create(ctx context.Context, user, comment string) bool
	// ReadAll returns every entry newest first. An empty slice means either
	// no rows or a storage failure.
	ReadAll(ctx context.Context) []models.Feedback
	// GetByID returns nil when no entry has the given id.
	GetByID(ctx context.Context, id int) *models.Feedback
	// Update rewrites user, comment and timestamp. True only when exactly
	// one row was affected.
	Update(ctx context.Context, id int, user, comment string) bool
	// Delete removes the entry. True only when exactly one row was affected.
	Delete(ctx context.Context, id int) bool

	// Count reports the number of stored entries.
	Count(ctx context.Context) (int, error)
	// DeleteAll empties the table and returns the number of rows removed.
	DeleteAll(ctx context.Context) (int, error)
}
