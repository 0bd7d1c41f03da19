package entity

import (
	"github.com/google/uuid"
)

type NotificationCategory string

const (
	NotificationCategoryPayment      NotificationCategory = "payment"
	NotificationCategoryRegistration NotificationCategory = "registration"
	NotificationCategoryBooking      NotificationCategory = "booking"
)

type Notification struct {
	BaseSimple
	RecipientID uuid.UUID            `db:"recipient_id"`
	Title       string               `db:"title"`
	Body        string               `db:"body"`
	Category    NotificationCategory `db:"category"`
	IsRead      bool                 `db:"is_read"`
}
