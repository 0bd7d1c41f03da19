package request

type CreatePaymentRequest struct {
	RegistrationID *string `json:"registration_id,omitempty" validate:"omitempty,uuid4"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Method         string  `json:"method" validate:"required,oneof=cash vnpay"`
}
