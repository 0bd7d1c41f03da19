package usecase

import (
	"context"
	"fmt"
	"time"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/data/repository"
	"gym-booking/internal/dto/request"
	"gym-booking/internal/dto/response"
	"gym-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	BookClass(ctx context.Context, memberID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, requesterID uuid.UUID, role string, bookingID string) error
	GetMemberBookings(ctx context.Context, memberID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo     *repository.Repository
	notifier Notifier
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, notifier Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

// BookClass reserves one class occurrence for a member. The duplicate check,
// the capacity count, and the insert run on one transaction so concurrent
// requests cannot oversell the class.
func (s *bookingService) BookClass(ctx context.Context, memberID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Book class validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid member ID %s", ErrValidation, memberID)
	}

	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid class ID %s", ErrValidation, req.ClassID)
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %s", ErrValidation, req.Date)
	}

	class, err := s.repo.Class.FindByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("load class %s: %w", req.ClassID, err)
	}
	if class == nil {
		return nil, fmt.Errorf("class %s: %w", req.ClassID, ErrNotFound)
	}

	// A class in a non-open state rejects all reservations regardless of capacity.
	if class.Status != entity.ClassStatusOpen {
		return nil, fmt.Errorf("class %s: %w", class.Name, ErrClassClosed)
	}

	tx, err := s.repo.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	exists, err := s.repo.Booking.ExistsBookedTx(ctx, tx, memberUUID, classID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("class %s on %s: %w", class.Name, req.Date, ErrDuplicateBooking)
	}

	booked, err := s.repo.Booking.CountBookedTx(ctx, tx, classID, date)
	if err != nil {
		return nil, err
	}
	if booked >= class.Capacity {
		return nil, fmt.Errorf("class %s on %s (%d/%d): %w", class.Name, req.Date, booked, class.Capacity, ErrClassFull)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MemberID: memberUUID,
		ClassID:  classID,
		Date:     date,
		Status:   entity.BookingStatusBooked,
	}

	if err := s.repo.Booking.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking transaction: %w", err)
	}

	s.log.Info("Class booked",
		zap.String("booking_id", booking.ID.String()),
		zap.String("member_id", memberID),
		zap.String("class_id", req.ClassID),
		zap.String("date", req.Date),
		zap.Int("booked_before", booked),
		zap.Int("capacity", class.Capacity),
	)

	s.notifier.Notify(memberUUID, "Booking confirmed",
		fmt.Sprintf("Your spot in %s on %s is reserved.", class.Name, req.Date),
		entity.NotificationCategoryBooking)

	resp := response.BookingToResponse(booking, class.Name)
	return &resp, nil
}

// CancelBooking is permitted for the owning member or an admin. Cancellation
// is terminal for the booking row; rebooking creates a new one.
func (s *bookingService) CancelBooking(ctx context.Context, requesterID uuid.UUID, role string, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	if booking.MemberID != requesterID && role != string(entity.RoleAdmin) {
		return fmt.Errorf("cancel booking %s: %w", bookingID, ErrForbidden)
	}

	if booking.Status != entity.BookingStatusBooked {
		return fmt.Errorf("booking %s already %s: %w", bookingID, booking.Status, ErrAlreadyProcessed)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("requester_id", requesterID.String()),
	)

	return nil
}

func (s *bookingService) GetMemberBookings(ctx context.Context, memberID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid member ID %s", ErrValidation, memberID)
	}

	bookings, err := s.repo.Booking.FindByMemberID(ctx, memberUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByMemberID(ctx, memberUUID)
	if err != nil {
		return nil, err
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		var className string
		class, _ := s.repo.Class.FindByID(ctx, booking.ClassID)
		if class != nil {
			className = class.Name
		}
		bookingResponses[i] = response.BookingToResponse(booking, className)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}
