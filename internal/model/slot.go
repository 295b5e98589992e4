package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a published, bookable window for one practitioner on one date.
// Date carries only the calendar day; StartTime/EndTime are "HH:MM" wall
// clock values, which is also how they travel on the wire.
type Slot struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Date           time.Time `db:"slot_date" json:"date"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	PractitionerID uuid.UUID `db:"practitioner_id" json:"practitioner_id"`
	IsAvailable    bool      `db:"is_available" json:"is_available"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type PublishSlotRequest struct {
	Date           string    `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string    `json:"start_time" binding:"required,timeofday"`
	EndTime        string    `json:"end_time" binding:"required,timeofday"`
	PractitionerID uuid.UUID `json:"practitioner_id" binding:"required"`
	Notes          *string   `json:"notes"`
}

type SlotFilters struct {
	Date           *time.Time
	PractitionerID uuid.UUID
}
