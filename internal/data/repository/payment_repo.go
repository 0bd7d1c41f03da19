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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByRegistrationID(ctx context.Context, registrationID uuid.UUID) ([]*entity.Payment, error)

	// ResolveTx marks a pending payment as success/failed inside the caller's
	// transaction. Returns false when the payment was not pending anymore.
	ResolveTx(ctx context.Context, q database.Querier, paymentID uuid.UUID, status entity.PaymentStatus, paidAt time.Time) (bool, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, registration_id, amount, method, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.RegistrationID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
			zap.Float64("amount", payment.Amount),
		)
		return fmt.Errorf("create payment %s: %w", payment.ID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `
		SELECT id, registration_id, amount, method, status, paid_at, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	var payment entity.Payment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.RegistrationID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return &payment, nil
}

func (r *paymentRepository) FindByRegistrationID(ctx context.Context, registrationID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT id, registration_id, amount, method, status, paid_at, created_at, updated_at
		FROM payments
		WHERE registration_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, registrationID)
	if err != nil {
		r.log.Error("Failed to find payments by registration ID",
			zap.Error(err),
			zap.String("registration_id", registrationID.String()),
		)
		return nil, fmt.Errorf("find payments by registration ID %s: %w", registrationID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var payment entity.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.RegistrationID,
			&payment.Amount,
			&payment.Method,
			&payment.Status,
			&payment.PaidAt,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, &payment)
	}

	return payments, nil
}

func (r *paymentRepository) ResolveTx(ctx context.Context, q database.Querier, paymentID uuid.UUID, status entity.PaymentStatus, paidAt time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, paid_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, paymentID, status, paidAt)
	if err != nil {
		r.log.Error("Failed to resolve payment",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("resolve payment %s to %s: %w", paymentID.String(), string(status), err)
	}

	return result.RowsAffected() > 0, nil
}
