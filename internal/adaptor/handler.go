package adaptor

import (
	"gym-booking/internal/data/repository"
	"gym-booking/internal/gateway/vnpay"
	"gym-booking/internal/usecase"
	"gym-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Registration *RegistrationHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
}

func NewHandler(service *usecase.Service, repo *repository.Repository, config *utils.Config, log *zap.Logger) *Handler {
	gateway := vnpay.NewClient(config.VNPay)

	return &Handler{
		Auth:         NewAuthHandler(repo.Session, log),
		Registration: NewRegistrationHandler(service.Registration, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, gateway, config.Frontend, log),
	}
}
