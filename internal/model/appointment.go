package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// statusTransitions is the only legal set of status moves. Completed and
// cancelled are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusPaid, PaymentStatusCancelled},
	PaymentStatusPaid:      {},
	PaymentStatusCancelled: {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPix, PaymentMethodCard, PaymentMethodCash:
		return true
	}
	return false
}

// Appointment is a booking against a client, optionally bound to a
// practitioner and an originating slot. Status and payment status are
// independent lifecycles.
type Appointment struct {
	Base
	ClientID        uuid.UUID         `db:"client_id" json:"client_id"`
	PractitionerID  *uuid.UUID        `db:"practitioner_id" json:"practitioner_id,omitempty"`
	SlotID          *uuid.UUID        `db:"slot_id" json:"slot_id,omitempty"`
	ScheduledAt     time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Reason          string            `db:"reason" json:"reason"`
	SuggestedEntity *string           `db:"suggested_entity" json:"suggested_entity,omitempty"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Amount          *float64          `db:"amount" json:"amount,omitempty"`
	PaymentMethod   *PaymentMethod    `db:"payment_method" json:"payment_method,omitempty"`
	PaymentStatus   PaymentStatus     `db:"payment_status" json:"payment_status"`
	Report          *string           `db:"report" json:"report,omitempty"`
	Guidance        *string           `db:"guidance" json:"guidance,omitempty"`
	NextSessionDate *time.Time        `db:"next_session_date" json:"next_session_date,omitempty"`
}

// AppointmentDetail is the read shape for single-appointment fetches, with
// the client summary nested.
type AppointmentDetail struct {
	Appointment
	Client *ClientSummary `json:"client,omitempty"`
}

type CreateAppointmentRequest struct {
	ClientID        uuid.UUID  `json:"client_id" binding:"required"`
	ScheduledAt     time.Time  `json:"date_time" binding:"required"`
	Reason          string     `json:"reason" binding:"required,max=1000"`
	PractitionerID  *uuid.UUID `json:"practitioner_id"`
	SlotID          *uuid.UUID `json:"slot_id"`
	SuggestedEntity *string    `json:"suggested_entity" binding:"omitempty,max=100"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=scheduled confirmed completed cancelled"`
}

type RecordPaymentRequest struct {
	Amount float64       `json:"amount" binding:"min=0"`
	Method PaymentMethod `json:"method" binding:"required,oneof=pix card cash"`
	Status PaymentStatus `json:"status" binding:"required,oneof=pending paid cancelled"`
}

type RecordOutcomeRequest struct {
	Report          string     `json:"report" binding:"required"`
	Guidance        *string    `json:"guidance"`
	NextSessionDate *time.Time `json:"next_session_date"`
}

type AppointmentFilters struct {
	ClientID       uuid.UUID
	PractitionerID uuid.UUID
	Status         AppointmentStatus
	From           time.Time
	To             time.Time
}
