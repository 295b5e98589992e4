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

const appointmentColumns = `id, client_id, practitioner_id, slot_id, scheduled_at,
		   reason, suggested_entity, status, amount, payment_method,
		   payment_status, report, guidance, next_session_date,
		   created_at, updated_at, deleted_at`

func (r *appointmentRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	return r.create(ctx, r.db, apt)
}

func (r *appointmentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, apt *model.Appointment) error {
	return r.create(ctx, tx, apt)
}

func (r *appointmentRepository) create(ctx context.Context, q sqlx.ExtContext, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, client_id, practitioner_id, slot_id, scheduled_at,
			reason, suggested_entity, status, amount, payment_method,
			payment_status, report, guidance, next_session_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now().UTC()
	apt.UpdatedAt = apt.CreatedAt

	_, err := q.ExecContext(ctx, query,
		apt.ID,
		apt.ClientID,
		apt.PractitionerID,
		apt.SlotID,
		apt.ScheduledAt,
		apt.Reason,
		apt.SuggestedEntity,
		apt.Status,
		apt.Amount,
		apt.PaymentMethod,
		apt.PaymentStatus,
		apt.Report,
		apt.Guidance,
		apt.NextSessionDate,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET practitioner_id = $1, scheduled_at = $2, reason = $3,
			suggested_entity = $4, amount = $5, payment_method = $6,
			payment_status = $7, report = $8, guidance = $9,
			next_session_date = $10, updated_at = $11
		WHERE id = $12
	`
	apt.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		apt.PractitionerID,
		apt.ScheduledAt,
		apt.Reason,
		apt.SuggestedEntity,
		apt.Amount,
		apt.PaymentMethod,
		apt.PaymentStatus,
		apt.Report,
		apt.Guidance,
		apt.NextSessionDate,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) error {
	return r.updateStatus(ctx, r.db, id, from, to)
}

func (r *appointmentRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from, to model.AppointmentStatus) error {
	return r.updateStatus(ctx, tx, id, from, to)
}

// updateStatus guards on the expected current status so two concurrent
// transitions cannot both win.
func (r *appointmentRepository) updateStatus(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, from, to model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := q.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if checkErr := sqlx.GetContext(ctx, q, &exists,
			`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id); checkErr != nil {
			return fmt.Errorf("failed to check appointment existence: %w", checkErr)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrStaleStatus
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.ClientID != uuid.Nil {
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}

	if filters.PractitionerID != uuid.Nil {
		query += fmt.Sprintf(" AND practitioner_id = $%d", argCount)
		args = append(args, filters.PractitionerID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.From.IsZero() {
		query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
		args = append(args, filters.From)
		argCount++
	}

	if !filters.To.IsZero() {
		query += fmt.Sprintf(" AND scheduled_at <= $%d", argCount)
		args = append(args, filters.To)
		argCount++
	}

	query += " ORDER BY scheduled_at ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = $1
		AND scheduled_at >= $2
		AND scheduled_at < $3
		ORDER BY scheduled_at ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, model.AppointmentStatusConfirmed, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed appointments: %w", err)
	}
	return appointments, nil
}
