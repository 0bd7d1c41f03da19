package usecase

import (
	"gym-booking/internal/data/repository"
	"gym-booking/internal/gateway/vnpay"
	"gym-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Registration RegistrationService
	Booking      BookingService
	Payment      PaymentService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	gateway := vnpay.NewClient(config.VNPay)
	notifier := NewNotifier(repo, log)

	return &Service{
		Registration: NewRegistrationService(repo, log),
		Booking:      NewBookingService(repo, notifier, log),
		Payment:      NewPaymentService(repo, gateway, notifier, log),
	}
}
