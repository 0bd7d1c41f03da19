package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentGateway extends a Payment for asynchronous gateway methods.
// OrderID is globally unique and is the idempotency key for callbacks:
// once CallbackAt is set the recorded outcome is final.
type PaymentGateway struct {
	BaseSimple
	PaymentID     uuid.UUID  `db:"payment_id"`
	Gateway       string     `db:"gateway"`
	OrderID       string     `db:"order_id"`
	TransactionNo *string    `db:"transaction_no"`
	ResponseCode  *string    `db:"response_code"`
	CallbackAt    *time.Time `db:"callback_at"`
	Message       string     `db:"message"`
	Amount        float64    `db:"amount"`
}

// Resolved reports whether a callback has already been recorded.
func (g *PaymentGateway) Resolved() bool {
	return g.CallbackAt != nil
}
