// Package services implements the storage layer for feedback entries on
// top of database/sql.
package services

import (
	"context"
	"database/sql"
	"time"

	"feedbackapp/internal/config"
	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/serviceinterfaces"
	contextutils "feedbackapp/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

var _ serviceinterfaces.FeedbackServiceInterface = (*FeedbackService)(nil)

// FeedbackService implements FeedbackServiceInterface over a shared
// connection pool. Each operation is a single auto-committed statement.
type FeedbackService struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(db *sql.DB, logger *observability.Logger) *FeedbackService {
	if db == nil {
		panic("NewFeedbackService: db is nil")
	}
	if logger == nil {
		panic("NewFeedbackService: logger is nil")
	}
	return &FeedbackService{db: db, logger: logger}
}

// Create inserts a new entry stamped with the current local time.
// Storage failures are logged and reported as false, never as an error.
func (s *FeedbackService) Create(ctx context.Context, user, comment string) bool {
	err := s.create(ctx, user, comment)
	if err != nil {
		s.logger.Error(ctx, "Failed to create feedback", err, map[string]interface{}{"user": user})
	}
	observability.ObserveFeedbackOperation("create", err == nil)
	return err == nil
}

func (s *FeedbackService) create(ctx context.Context, user, comment string) (err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "create_feedback")
	defer observability.FinishSpan(span, &err)

	query := `INSERT INTO feedback (user, comment, timestamp) VALUES (?, ?, ?)`
	if _, err = s.db.ExecContext(ctx, query, user, comment, now()); err != nil {
		return contextutils.WrapError(err, "failed to insert feedback")
	}
	return nil
}

// ReadAll returns every entry newest first. An empty slice means either no
// rows or a storage failure; callers cannot tell the two apart.
func (s *FeedbackService) ReadAll(ctx context.Context) []models.Feedback {
	list, err := s.readAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to read feedback", err)
	}
	observability.ObserveFeedbackOperation("read_all", err == nil)
	return list
}

func (s *FeedbackService) readAll(ctx context.Context) (result0 []models.Feedback, err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "read_all_feedback")
	defer observability.FinishSpan(span, &err)

	query := `SELECT id, user, comment, timestamp FROM feedback ORDER BY timestamp DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return []models.Feedback{}, contextutils.WrapError(err, "failed to query feedback list")
	}
	defer func() {
		_ = rows.Close()
	}()

	list := []models.Feedback{}
	for rows.Next() {
		var fb models.Feedback
		if err = rows.Scan(&fb.ID, &fb.User, &fb.Comment, &fb.Timestamp); err != nil {
			return []models.Feedback{}, contextutils.WrapError(err, "failed to scan feedback list")
		}
		list = append(list, fb)
	}
	if err = rows.Err(); err != nil {
		return []models.Feedback{}, contextutils.WrapError(err, "failed to iterate feedback list")
	}
	return list, nil
}

// GetByID returns nil when no entry has the given id.
func (s *FeedbackService) GetByID(ctx context.Context, id int) *models.Feedback {
	fb, err := s.getByID(ctx, id)
	if err != nil && !contextutils.IsError(err, contextutils.ErrRecordNotFound) {
		s.logger.Error(ctx, "Failed to get feedback", err, map[string]interface{}{"id": id})
	}
	observability.ObserveFeedbackOperation("get_by_id", err == nil)
	return fb
}

func (s *FeedbackService) getByID(ctx context.Context, id int) (result0 *models.Feedback, err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "get_feedback_by_id", attribute.Int("feedback.id", id))
	defer observability.FinishSpan(span, &err)

	query := `SELECT id, user, comment, timestamp FROM feedback WHERE id = ?`
	var fb models.Feedback
	err = s.db.QueryRowContext(ctx, query, id).Scan(&fb.ID, &fb.User, &fb.Comment, &fb.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, contextutils.ErrRecordNotFound
		}
		return nil, contextutils.WrapError(err, "failed to scan feedback")
	}
	return &fb, nil
}

// Update rewrites user, comment and timestamp with a fresh local time.
// True only when exactly one row was affected.
func (s *FeedbackService) Update(ctx context.Context, id int, user, comment string) bool {
	err := s.update(ctx, id, user, comment)
	if err != nil && !contextutils.IsError(err, contextutils.ErrRecordNotFound) {
		s.logger.Error(ctx, "Failed to update feedback", err, map[string]interface{}{"id": id})
	}
	observability.ObserveFeedbackOperation("update", err == nil)
	return err == nil
}

func (s *FeedbackService) update(ctx context.Context, id int, user, comment string) (err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "update_feedback", attribute.Int("feedback.id", id))
	defer observability.FinishSpan(span, &err)

	query := `UPDATE feedback SET user = ?, comment = ?, timestamp = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, user, comment, now(), id)
	if err != nil {
		return contextutils.WrapError(err, "failed to update feedback")
	}
	return requireOneRow(result, id)
}

// Delete removes the entry. True only when exactly one row was affected.
func (s *FeedbackService) Delete(ctx context.Context, id int) bool {
	err := s.delete(ctx, id)
	if err != nil && !contextutils.IsError(err, contextutils.ErrRecordNotFound) {
		s.logger.Error(ctx, "Failed to delete feedback", err, map[string]interface{}{"id": id})
	}
	observability.ObserveFeedbackOperation("delete", err == nil)
	return err == nil
}

func (s *FeedbackService) delete(ctx context.Context, id int) (err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "delete_feedback", attribute.Int("feedback.id", id))
	defer observability.FinishSpan(span, &err)

	query := `DELETE FROM feedback WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return contextutils.WrapError(err, "failed to delete feedback")
	}
	return requireOneRow(result, id)
}

// Count reports the number of stored entries.
func (s *FeedbackService) Count(ctx context.Context) (result0 int, err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "count_feedback")
	defer observability.FinishSpan(span, &err)

	var count int
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count); err != nil {
		return 0, contextutils.WrapError(err, "failed to count feedback")
	}
	return count, nil
}

// DeleteAll empties the table and returns the number of rows removed.
func (s *FeedbackService) DeleteAll(ctx context.Context) (result0 int, err error) {
	ctx, span := observability.TraceFeedbackFunction(ctx, "delete_all_feedback")
	defer observability.FinishSpan(span, &err)

	result, err := s.db.ExecContext(ctx, `DELETE FROM feedback`)
	if err != nil {
		return 0, contextutils.WrapError(err, "failed to delete all feedback")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, contextutils.WrapError(err, "failed to get rows affected")
	}
	return int(rowsAffected), nil
}

func requireOneRow(result sql.Result, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return contextutils.WrapError(err, "failed to get rows affected")
	}
	if rowsAffected != 1 {
		return contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "feedback with ID %d not found", id)
	}
	return nil
}

func now() string {
	return time.Now().Format(config.TimestampFormat)
}
