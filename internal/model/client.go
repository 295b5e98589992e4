package model

import (
	"time"
)

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

func (s ClientStatus) Valid() bool {
	return s == ClientStatusActive || s == ClientStatusInactive
}

// Client is a contact record for someone who books appointments. Clients are
// never hard-deleted: deactivation flips Status and stamps DeletedAt so that
// appointments keep a valid reference.
type Client struct {
	Base
	Name      string       `db:"name" json:"name"`
	Email     *string      `db:"email" json:"email,omitempty"`
	Phone     *string      `db:"phone" json:"phone,omitempty"`
	BirthDate *time.Time   `db:"birth_date" json:"birth_date,omitempty"`
	Address   *string      `db:"address" json:"address,omitempty"`
	Notes     *string      `db:"notes" json:"notes,omitempty"`
	Status    ClientStatus `db:"status" json:"status"`
}

// ClientSummary is the nested shape embedded in appointment reads.
type ClientSummary struct {
	ID    string  `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`
}

type CreateClientRequest struct {
	Name      string     `json:"name" binding:"required,max=100"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Phone     *string    `json:"phone" binding:"omitempty,max=20"`
	BirthDate *time.Time `json:"birth_date"`
	Address   *string    `json:"address"`
	Notes     *string    `json:"notes"`
}

type UpdateClientRequest struct {
	Name      *string    `json:"name" binding:"omitempty,max=100"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Phone     *string    `json:"phone" binding:"omitempty,max=20"`
	BirthDate *time.Time `json:"birth_date"`
	Address   *string    `json:"address"`
	Notes     *string    `json:"notes"`
}

type ClientFilters struct {
	Status          ClientStatus
	SearchTerm      string
	IncludeInactive bool
}
