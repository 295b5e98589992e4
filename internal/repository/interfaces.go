package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nziladragao/agenda-api/internal/model"
)

// Sentinel errors surfaced by repositories. Services translate these into
// the boundary error taxonomy.
var (
	ErrNotFound        = errors.New("not found")
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrStaleStatus     = errors.New("status changed concurrently")
)

// All repository interfaces in one file
type (
	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		GetSummary(ctx context.Context, id uuid.UUID) (*model.ClientSummary, error)
		Update(ctx context.Context, client *model.Client) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error)
	}

	// SlotRepository owns the availability flag. Book and Release are the
	// only mutation paths after creation; Tx variants run inside the
	// ledger's booking transaction.
	SlotRepository interface {
		Create(ctx context.Context, slot *model.Slot) error
		Get(ctx context.Context, id uuid.UUID) (*model.Slot, error)
		ListAvailable(ctx context.Context, filters *model.SlotFilters) ([]*model.Slot, error)
		HasOverlap(ctx context.Context, practitionerID uuid.UUID, date time.Time, startTime, endTime string) (bool, error)
		BookTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Slot, error)
		Release(ctx context.Context, id uuid.UUID) (*model.Slot, error)
		ReleaseTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	}

	AppointmentRepository interface {
		BeginTx(ctx context.Context) (*sqlx.Tx, error)
		Create(ctx context.Context, apt *model.Appointment) error
		CreateTx(ctx context.Context, tx *sqlx.Tx, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		// UpdateStatus flips status guarded by the expected current value;
		// ErrStaleStatus when another writer won.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus) error
		UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from, to model.AppointmentStatus) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		CreateTx(ctx context.Context, tx *sqlx.Tx, n *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		MarkSent(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		MarkSentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*model.Notification, error)
		MarkFailedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, reason string) error
		List(ctx context.Context, filters *model.NotificationFilters) ([]*model.Notification, error)
		// ListPendingWithLock fetches a batch of pending records with
		// FOR UPDATE SKIP LOCKED so concurrent workers never double-send.
		ListPendingWithLock(ctx context.Context, tx *sqlx.Tx, limit int) ([]*model.Notification, error)
		BeginTx(ctx context.Context) (*sqlx.Tx, error)
	}
)
