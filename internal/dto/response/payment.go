package response

import (
	"time"

	"gym-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID             string                `json:"id"`
	RegistrationID *string               `json:"registration_id,omitempty"`
	Amount         float64               `json:"amount"`
	Method         entity.PaymentMethod  `json:"method"`
	Status         entity.PaymentStatus  `json:"status"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	Gateway        *PaymentGatewayDetail `json:"gateway,omitempty"`
}

type PaymentGatewayDetail struct {
	Gateway       string  `json:"gateway"`
	OrderID       string  `json:"order_id"`
	TransactionNo *string `json:"transaction_no,omitempty"`
	ResponseCode  *string `json:"response_code,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// CreatePaymentResponse carries the redirect URL for gateway methods.
type CreatePaymentResponse struct {
	Payment    PaymentResponse `json:"payment"`
	PaymentURL string          `json:"payment_url,omitempty"`
}

func PaymentToResponse(payment *entity.Payment, gateway *entity.PaymentGateway) PaymentResponse {
	resp := PaymentResponse{
		ID:        payment.ID.String(),
		Amount:    payment.Amount,
		Method:    payment.Method,
		Status:    payment.Status,
		PaidAt:    payment.PaidAt,
		CreatedAt: payment.CreatedAt,
	}

	if payment.RegistrationID != nil {
		id := payment.RegistrationID.String()
		resp.RegistrationID = &id
	}

	if gateway != nil {
		resp.Gateway = &PaymentGatewayDetail{
			Gateway:       gateway.Gateway,
			OrderID:       gateway.OrderID,
			TransactionNo: gateway.TransactionNo,
			ResponseCode:  gateway.ResponseCode,
			Message:       gateway.Message,
		}
	}

	return resp
}
