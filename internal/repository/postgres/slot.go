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

const slotColumns = `id, slot_date, start_time, end_time, practitioner_id,
		   is_available, notes, created_at`

func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO appointment_slots (
			id, slot_date, start_time, end_time, practitioner_id,
			is_available, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	slot.ID = uuid.New()
	slot.IsAvailable = true
	slot.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		slot.ID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.PractitionerID,
		slot.IsAvailable,
		slot.Notes,
		slot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	return nil
}

func (r *slotRepository) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE id = $1`
	var slot model.Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

func (r *slotRepository) ListAvailable(ctx context.Context, filters *model.SlotFilters) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM appointment_slots WHERE is_available = true`
	args := []interface{}{}
	argCount := 1

	if filters.Date != nil {
		query += fmt.Sprintf(" AND slot_date = $%d", argCount)
		args = append(args, *filters.Date)
		argCount++
	}

	if filters.PractitionerID != uuid.Nil {
		query += fmt.Sprintf(" AND practitioner_id = $%d", argCount)
		args = append(args, filters.PractitionerID)
		argCount++
	}

	query += " ORDER BY slot_date ASC, start_time ASC"

	var slots []*model.Slot
	err := r.db.SelectContext(ctx, &slots, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (r *slotRepository) HasOverlap(ctx context.Context, practitionerID uuid.UUID, date time.Time, startTime, endTime string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointment_slots
			WHERE practitioner_id = $1
			AND slot_date = $2
			AND start_time < $4
			AND end_time > $3
		)
	`
	var overlaps bool
	err := r.db.GetContext(ctx, &overlaps, query, practitionerID, date, startTime, endTime)
	if err != nil {
		return false, fmt.Errorf("failed to check slot overlap: %w", err)
	}
	return overlaps, nil
}

// BookTx flips availability with a conditional update so a concurrent
// booking loses the race cleanly: zero rows affected means either the slot
// is gone or another caller already took it.
func (r *slotRepository) BookTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Slot, error) {
	query := `
		UPDATE appointment_slots
		SET is_available = false
		WHERE id = $1 AND is_available = true
		RETURNING ` + slotColumns

	var slot model.Slot
	err := tx.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if checkErr := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM appointment_slots WHERE id = $1)`, id); checkErr != nil {
			return nil, fmt.Errorf("failed to check slot existence: %w", checkErr)
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrSlotUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to book slot: %w", err)
	}
	return &slot, nil
}

// Release is idempotent: releasing an already-available slot is a no-op,
// not an error.
func (r *slotRepository) Release(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `
		UPDATE appointment_slots
		SET is_available = true
		WHERE id = $1
		RETURNING ` + slotColumns

	var slot model.Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release slot: %w", err)
	}
	return &slot, nil
}

func (r *slotRepository) ReleaseTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE appointment_slots SET is_available = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
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
