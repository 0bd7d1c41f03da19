package repository

import (
	"context"
	"fmt"
	"time"

	"gym-booking/internal/data/entity"
	"gym-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByMemberID(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByMemberID(ctx context.Context, memberID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error

	// Transactional methods: the capacity re-check and the insert must run on
	// the same transaction, so these take the caller's Querier.
	CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error
	CountBookedTx(ctx context.Context, q database.Querier, classID uuid.UUID, date time.Time) (int, error)
	ExistsBookedTx(ctx context.Context, q database.Querier, memberID, classID uuid.UUID, date time.Time) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, member_id, class_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		booking.ID,
		booking.MemberID,
		booking.ClassID,
		booking.Date,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("member_id", booking.MemberID.String()),
			zap.String("class_id", booking.ClassID.String()),
		)
		return fmt.Errorf("create booking for class %s: %w", booking.ClassID.String(), err)
	}

	return nil
}

func (r *bookingRepository) CountBookedTx(ctx context.Context, q database.Querier, classID uuid.UUID, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE class_id = $1 AND date = $2 AND status = 'booked'`

	var count int
	err := q.QueryRow(ctx, query, classID, date).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count booked rows",
			zap.Error(err),
			zap.String("class_id", classID.String()),
			zap.Time("date", date),
		)
		return 0, fmt.Errorf("count booked rows for class %s: %w", classID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) ExistsBookedTx(ctx context.Context, q database.Querier, memberID, classID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE member_id = $1 AND class_id = $2 AND date = $3 AND status = 'booked'
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, memberID, classID, date).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check existing booking",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
			zap.String("class_id", classID.String()),
		)
		return false, fmt.Errorf("check existing booking for class %s: %w", classID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, member_id, class_id, date, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.MemberID,
		&booking.ClassID,
		&booking.Date,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT id, member_id, class_id, date, status, created_at, updated_at
		FROM bookings
		WHERE member_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, memberID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by member ID",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
		)
		return nil, fmt.Errorf("find bookings by member ID %s: %w", memberID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.MemberID,
			&booking.ClassID,
			&booking.Date,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByMemberID(ctx context.Context, memberID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE member_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, memberID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by member ID",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
		)
		return 0, fmt.Errorf("count bookings by member ID %s: %w", memberID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}
