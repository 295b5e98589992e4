package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
)

const notificationColumns = `id, phone, message, type, channel, recipient, status,
		   appointment_id, user_id, retry_count, last_error, created_at, sent_at`

func (r *notificationRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.create(ctx, r.db, n)
}

func (r *notificationRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, n *model.Notification) error {
	return r.create(ctx, tx, n)
}

func (r *notificationRepository) create(ctx context.Context, q sqlx.ExtContext, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, phone, message, type, channel, recipient, status,
			appointment_id, user_id, retry_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	n.ID = uuid.New()
	n.Status = model.NotificationStatusPending
	n.CreatedAt = time.Now().UTC()

	_, err := q.ExecContext(ctx, query,
		n.ID,
		n.Phone,
		n.Message,
		n.Type,
		n.Channel,
		n.Recipient,
		n.Status,
		n.AppointmentID,
		n.UserID,
		n.RetryCount,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	var n model.Notification
	err := r.db.GetContext(ctx, &n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		UPDATE notifications
		SET status = $1, sent_at = $2
		WHERE id = $3
		RETURNING ` + notificationColumns

	var n model.Notification
	err := r.db.GetContext(ctx, &n, query, model.NotificationStatusSent, time.Now().UTC(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkSentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `UPDATE notifications SET status = $1, sent_at = $2 WHERE id = $3`
	result, err := tx.ExecContext(ctx, query, model.NotificationStatusSent, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*model.Notification, error) {
	query := `
		UPDATE notifications
		SET status = $1, retry_count = retry_count + 1, last_error = $2
		WHERE id = $3
		RETURNING ` + notificationColumns

	var n model.Notification
	err := r.db.GetContext(ctx, &n, query, model.NotificationStatusError, reason, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) MarkFailedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, reason string) error {
	query := `
		UPDATE notifications
		SET status = $1, retry_count = retry_count + 1, last_error = $2
		WHERE id = $3
	`
	result, err := tx.ExecContext(ctx, query, model.NotificationStatusError, reason, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, filters.Type)
		argCount++
	}

	query += " ORDER BY created_at DESC"

	var notifications []*model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// ListPendingWithLock claims a batch of deliverable records. SKIP LOCKED
// keeps concurrent worker replicas from claiming the same rows.
func (r *notificationRepository) ListPendingWithLock(ctx context.Context, tx *sqlx.Tx, limit int) ([]*model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	var notifications []*model.Notification
	err := tx.SelectContext(ctx, &notifications, query, model.NotificationStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	return notifications, nil
}
