package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves one class occurrence on one calendar date. Cancellation is
// terminal; rebooking creates a new row.
type Booking struct {
	Base
	MemberID uuid.UUID     `db:"member_id"`
	ClassID  uuid.UUID     `db:"class_id"`
	Date     time.Time     `db:"date"`
	Status   BookingStatus `db:"status"`
}
