package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
)

// SlotListings is implemented by the slot registry so the ledger can drop
// cached availability listings after it mutates a slot inside its own
// transaction.
type SlotListings interface {
	InvalidateListings()
}

// Service is the appointment ledger. It owns appointment creation and the
// two independent lifecycles (status, payment status), and it is the only
// caller of the slot registry's booking path.
type Service struct {
	repo          repository.AppointmentRepository
	clients       repository.ClientRepository
	slots         repository.SlotRepository
	notifications repository.NotificationRepository
	listings      SlotListings
}

func NewService(
	repo repository.AppointmentRepository,
	clients repository.ClientRepository,
	slots repository.SlotRepository,
	notifications repository.NotificationRepository,
	listings SlotListings,
) *Service {
	return &Service{
		repo:          repo,
		clients:       clients,
		slots:         slots,
		notifications: notifications,
		listings:      listings,
	}
}

// Create books an appointment. When a slot is given, the slot flip, the
// appointment insert and the confirmation notification are one transaction:
// losing the slot race rolls everything back and surfaces a conflict.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	client, err := s.clients.Get(ctx, req.ClientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	apt := &model.Appointment{
		ClientID:        req.ClientID,
		PractitionerID:  req.PractitionerID,
		SlotID:          req.SlotID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		Reason:          req.Reason,
		SuggestedEntity: req.SuggestedEntity,
		Status:          model.AppointmentStatusScheduled,
		PaymentStatus:   model.PaymentStatusPending,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if req.SlotID != nil {
		slot, err := s.slots.BookTx(ctx, tx, *req.SlotID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("slot", err)
		}
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return nil, apperrors.Conflict("slot is no longer available", err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to book slot: %w", err)
		}
		if apt.PractitionerID == nil {
			apt.PractitionerID = &slot.PractitionerID
		}
	}

	if err := s.repo.CreateTx(ctx, tx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if client.Phone != nil {
		n := &model.Notification{
			Phone:         *client.Phone,
			Message:       confirmationMessage(client.Name, apt.ScheduledAt),
			Type:          model.NotificationTypeConfirmation,
			Channel:       model.NotificationChannelWhatsApp,
			AppointmentID: &apt.ID,
		}
		if err := s.notifications.CreateTx(ctx, tx, n); err != nil {
			return nil, fmt.Errorf("failed to enqueue confirmation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	if req.SlotID != nil && s.listings != nil {
		s.listings.InvalidateListings()
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	detail := &model.AppointmentDetail{Appointment: *apt}
	if client, err := s.clients.GetSummary(ctx, apt.ClientID); err == nil {
		detail.Client = client
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus advances the appointment lifecycle. Cancelling an
// appointment bound to a slot releases the slot and enqueues a
// cancellation notice in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error) {
	if !next.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", next), nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !apt.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidTransition(
			fmt.Sprintf("cannot transition appointment from %s to %s", apt.Status, next))
	}

	if next == model.AppointmentStatusCancelled && apt.SlotID != nil {
		if err := s.cancelWithSlot(ctx, apt); err != nil {
			return nil, err
		}
	} else {
		err := s.repo.UpdateStatus(ctx, id, apt.Status, next)
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.Conflict("appointment status changed concurrently", err)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update status: %w", err)
		}
	}

	apt.Status = next
	return apt, nil
}

func (s *Service) cancelWithSlot(ctx context.Context, apt *model.Appointment) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = s.repo.UpdateStatusTx(ctx, tx, apt.ID, apt.Status, model.AppointmentStatusCancelled)
	if errors.Is(err, repository.ErrStaleStatus) {
		return apperrors.Conflict("appointment status changed concurrently", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err := s.slots.ReleaseTx(ctx, tx, *apt.SlotID); err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}

	if client, err := s.clients.Get(ctx, apt.ClientID); err == nil && client.Phone != nil {
		n := &model.Notification{
			Phone:         *client.Phone,
			Message:       cancellationMessage(client.Name, apt.ScheduledAt),
			Type:          model.NotificationTypeCancellation,
			Channel:       model.NotificationChannelWhatsApp,
			AppointmentID: &apt.ID,
		}
		if err := s.notifications.CreateTx(ctx, tx, n); err != nil {
			return fmt.Errorf("failed to enqueue cancellation notice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	if s.listings != nil {
		s.listings.InvalidateListings()
	}
	return nil
}

// RecordPayment runs independently of the appointment status lifecycle.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, req *model.RecordPaymentRequest) (*model.Appointment, error) {
	if req.Amount < 0 {
		return nil, apperrors.Validation("amount must not be negative", nil)
	}
	if !req.Method.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown payment method %q", req.Method), nil)
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown payment status %q", req.Status), nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !apt.PaymentStatus.CanTransitionTo(req.Status) {
		return nil, apperrors.InvalidTransition(
			fmt.Sprintf("cannot move payment from %s to %s", apt.PaymentStatus, req.Status))
	}

	amount := req.Amount
	method := req.Method
	apt.Amount = &amount
	apt.PaymentMethod = &method
	apt.PaymentStatus = req.Status

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return apt, nil
}

// RecordOutcome attaches the post-session report. Only completed
// appointments carry an outcome.
func (s *Service) RecordOutcome(ctx context.Context, id uuid.UUID, req *model.RecordOutcomeRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if apt.Status != model.AppointmentStatusCompleted {
		return nil, apperrors.InvalidTransition("outcome requires a completed appointment")
	}

	report := req.Report
	apt.Report = &report
	apt.Guidance = req.Guidance
	apt.NextSessionDate = req.NextSessionDate

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to record outcome: %w", err)
	}
	return apt, nil
}

func confirmationMessage(name string, at time.Time) string {
	return fmt.Sprintf("Olá %s! Seu atendimento está agendado para %s.",
		name, at.Format("02/01/2006 15:04"))
}

func cancellationMessage(name string, at time.Time) string {
	return fmt.Sprintf("Olá %s, seu atendimento de %s foi cancelado. Entre em contato para reagendar.",
		name, at.Format("02/01/2006 15:04"))
}
