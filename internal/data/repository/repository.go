package repository

import (
	"gym-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	// DB is exposed so services can open transactions that span repositories.
	DB database.PgxIface

	Member         MemberRepository
	Session        SessionRepository
	Class          ClassRepository
	Package        PackageRepository
	Booking        BookingRepository
	Registration   RegistrationRepository
	Payment        PaymentRepository
	PaymentGateway PaymentGatewayRepository
	Notification   NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		DB:             db,
		Member:         NewMemberRepository(db, log),
		Session:        NewSessionRepository(db, log),
		Class:          NewClassRepository(db, log),
		Package:        NewPackageRepository(db, log),
		Booking:        NewBookingRepository(db, log),
		Registration:   NewRegistrationRepository(db, log),
		Payment:        NewPaymentRepository(db, log),
		PaymentGateway: NewPaymentGatewayRepository(db, log),
		Notification:   NewNotificationRepository(db, log),
	}
}
