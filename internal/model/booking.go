package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// allowedTransitions is the administrator-facing transition table.
// completed and cancelled are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func (s BookingStatus) Terminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether the table permits moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a patient appointment request. Customer fields are captured
// at intake and immutable afterwards; status and time_slot are the only
// administrator-mutable fields. ServiceName is resolved by joining the
// current catalog row at read time and is nil when the reference dangles.
type Booking struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	CustomerName  string        `db:"customer_name" json:"customer_name"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
	CustomerPhone string        `db:"customer_phone" json:"customer_phone"`
	ServiceID     uuid.UUID     `db:"service_id" json:"service_id"`
	ServiceName   *string       `db:"service_name" json:"service_name"`
	PreferredDate time.Time     `db:"preferred_date" json:"preferred_date"`
	TimeSlot      *string       `db:"time_slot" json:"time_slot,omitempty"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
	Status        BookingStatus `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

type SubmitBookingRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
	ServiceID     string  `json:"service_id"`
	PreferredDate string  `json:"preferred_date"`
	TimeSlot      *string `json:"time_slot"`
	Notes         string  `json:"notes"`
}

// UpdateBookingStatusRequest mutates status and optionally overwrites
// time_slot in the same operation.
type UpdateBookingStatusRequest struct {
	Status   string  `json:"status"`
	TimeSlot *string `json:"time_slot"`
}
