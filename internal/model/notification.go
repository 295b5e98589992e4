package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeConfirmation  NotificationType = "confirmation"
	NotificationTypeReminder      NotificationType = "reminder"
	NotificationTypeDegreeRelease NotificationType = "degree_release"
	NotificationTypeBirthday      NotificationType = "birthday"
	NotificationTypeCancellation  NotificationType = "cancellation"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeConfirmation, NotificationTypeReminder,
		NotificationTypeDegreeRelease, NotificationTypeBirthday,
		NotificationTypeCancellation:
		return true
	}
	return false
}

type NotificationChannel string

const (
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
	NotificationChannelEmail    NotificationChannel = "email"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusError   NotificationStatus = "error"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusError:
		return true
	}
	return false
}

// Notification records intent to deliver a message. Delivery itself happens
// in the worker binary; the API only enqueues and reads.
type Notification struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	Phone         string              `db:"phone" json:"phone"`
	Message       string              `db:"message" json:"message"`
	Type          NotificationType    `db:"type" json:"type"`
	Channel       NotificationChannel `db:"channel" json:"channel"`
	Recipient     *string             `db:"recipient" json:"recipient,omitempty"`
	Status        NotificationStatus  `db:"status" json:"status"`
	AppointmentID *uuid.UUID          `db:"appointment_id" json:"appointment_id,omitempty"`
	UserID        *uuid.UUID          `db:"user_id" json:"user_id,omitempty"`
	RetryCount    int                 `db:"retry_count" json:"retry_count"`
	LastError     *string             `db:"last_error" json:"last_error,omitempty"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	SentAt        *time.Time          `db:"sent_at" json:"sent_at,omitempty"`
}

type EnqueueNotificationRequest struct {
	Phone         string              `json:"phone" binding:"required,max=20"`
	Message       string              `json:"message" binding:"required"`
	Type          NotificationType    `json:"type" binding:"required,oneof=confirmation reminder degree_release birthday cancellation"`
	Channel       NotificationChannel `json:"channel" binding:"omitempty,oneof=whatsapp email"`
	Recipient     *string             `json:"recipient" binding:"omitempty,email"`
	AppointmentID *uuid.UUID          `json:"appointment_id"`
	UserID        *uuid.UUID          `json:"user_id"`
}

type NotificationFilters struct {
	Status NotificationStatus
	Type   NotificationType
}
