package wire

import (
	"net/http"

	"gym-booking/internal/adaptor"
	"gym-booking/internal/data/repository"
	"gym-booking/internal/usecase"
	"gym-booking/pkg/middleware"
	"gym-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, repo, config, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, repo *repository.Repository, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.AuthSession(repo.Session, repo.Member, logger)
	admin := middleware.Admin(logger)

	// Public: the gateway return URL must be reachable without a session.
	r.Get("/api/payment/vnpay/callback", handler.Payment.VNPayCallback)

	// Member routes
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/auth/logout", handler.Auth.Logout)

		r.Post("/api/registrations", handler.Registration.CreateRegistration)
		r.Get("/api/registrations", handler.Registration.GetMemberRegistrations)
		r.Get("/api/registrations/{id}", handler.Registration.GetRegistration)
		r.Put("/api/registrations/{id}/cancel", handler.Registration.CancelRegistration)
		r.Get("/api/registrations/{id}/payments", handler.Payment.GetRegistrationPayments)

		r.Post("/api/bookings", handler.Booking.BookClass)
		r.Get("/api/bookings", handler.Booking.GetMemberBookings)
		r.Put("/api/bookings/{id}/cancel", handler.Booking.CancelBooking)

		r.Post("/api/payments", handler.Payment.CreatePayment)
		r.Get("/api/payments/{id}", handler.Payment.GetPayment)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(admin)

		r.Post("/api/admin/payments/{id}/cash", handler.Payment.ProcessCashPayment)
		r.Post("/api/admin/registrations/expire", handler.Registration.ExpireOverdue)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
