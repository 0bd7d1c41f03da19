package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodVNPay PaymentMethod = "vnpay"
)

// Payment is a monetary transaction. RegistrationID is nullable: standalone
// payments (day passes, merchandise) carry no registration.
type Payment struct {
	Base
	RegistrationID *uuid.UUID    `db:"registration_id"`
	Amount         float64       `db:"amount"`
	Method         PaymentMethod `db:"method"`
	Status         PaymentStatus `db:"status"`
	PaidAt         *time.Time    `db:"paid_at"`
}

// Resolved reports whether the payment reached a terminal status.
func (p *Payment) Resolved() bool {
	return p.Status != PaymentStatusPending
}
