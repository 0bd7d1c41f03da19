package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationStatusPendingPayment RegistrationStatus = "pending_payment"
	RegistrationStatusActive         RegistrationStatus = "active"
	RegistrationStatusExpired        RegistrationStatus = "expired"
	RegistrationStatusCancelled      RegistrationStatus = "cancelled"
)

type RegistrationKind string

const (
	RegistrationKindPackage RegistrationKind = "package"
	RegistrationKindClass   RegistrationKind = "class"
)

// ErrInvalidTransition is returned when a registration is asked to move along
// an edge its lifecycle does not define. The record is left unchanged.
var ErrInvalidTransition = errors.New("invalid registration state transition")

// Registration is a member's claim on a package or a class. It is created in
// pending_payment and only the payment flow moves it out of that state.
type Registration struct {
	Base
	MemberID     uuid.UUID          `db:"member_id"`
	PackageID    *uuid.UUID         `db:"package_id"`
	ClassID      *uuid.UUID         `db:"class_id"`
	Kind         RegistrationKind   `db:"kind"`
	StartDate    time.Time          `db:"start_date"`
	EndDate      *time.Time         `db:"end_date"`
	Status       RegistrationStatus `db:"status"`
	StatusNote   string             `db:"status_note"`
	CancelReason *string            `db:"cancel_reason"`
}

// Activate moves pending_payment -> active, stamping the end date.
func (r *Registration) Activate(endDate time.Time, now time.Time) error {
	if r.Status != RegistrationStatusPendingPayment {
		return ErrInvalidTransition
	}

	r.Status = RegistrationStatusActive
	r.EndDate = &endDate
	r.StatusNote = "payment received"
	r.CancelReason = nil
	r.UpdatedAt = now
	return nil
}

// Cancel is valid from pending_payment (failed or abandoned payment) and
// from active (explicit member/admin cancellation).
func (r *Registration) Cancel(reason string, now time.Time) error {
	if r.Status != RegistrationStatusPendingPayment && r.Status != RegistrationStatusActive {
		return ErrInvalidTransition
	}

	r.Status = RegistrationStatusCancelled
	r.StatusNote = "cancelled"
	r.CancelReason = &reason
	r.UpdatedAt = now
	return nil
}

// Expire moves active -> expired once the end date has passed.
func (r *Registration) Expire(now time.Time) error {
	if r.Status != RegistrationStatusActive {
		return ErrInvalidTransition
	}
	if r.EndDate == nil || r.EndDate.After(now) {
		return ErrInvalidTransition
	}

	r.Status = RegistrationStatusExpired
	r.StatusNote = "membership period ended"
	r.UpdatedAt = now
	return nil
}
