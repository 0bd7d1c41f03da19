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

type PaymentGatewayRepository interface {
	Create(ctx context.Context, record *entity.PaymentGateway) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.PaymentGateway, error)
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*entity.PaymentGateway, error)

	// MarkResolvedTx stamps the callback onto an unresolved gateway record.
	// The callback_at IS NULL guard makes the order id an idempotency key:
	// a replay affects zero rows and returns false.
	MarkResolvedTx(ctx context.Context, q database.Querier, orderID, responseCode, transactionNo, message string, callbackAt time.Time) (bool, error)
}

type paymentGatewayRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentGatewayRepository(db database.PgxIface, log *zap.Logger) PaymentGatewayRepository {
	return &paymentGatewayRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment_gateway")),
	}
}

func (r *paymentGatewayRepository) Create(ctx context.Context, record *entity.PaymentGateway) error {
	query := `
		INSERT INTO payment_gateways (id, payment_id, gateway, order_id, transaction_no,
		                              response_code, callback_at, message, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.PaymentID,
		record.Gateway,
		record.OrderID,
		record.TransactionNo,
		record.ResponseCode,
		record.CallbackAt,
		record.Message,
		record.Amount,
		record.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create gateway record",
			zap.Error(err),
			zap.String("order_id", record.OrderID),
			zap.String("payment_id", record.PaymentID.String()),
		)
		return fmt.Errorf("create gateway record %s: %w", record.OrderID, err)
	}

	return nil
}

func (r *paymentGatewayRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.PaymentGateway, error) {
	query := `
		SELECT id, payment_id, gateway, order_id, transaction_no, response_code,
		       callback_at, message, amount, created_at
		FROM payment_gateways
		WHERE order_id = $1
	`

	var record entity.PaymentGateway
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&record.ID,
		&record.PaymentID,
		&record.Gateway,
		&record.OrderID,
		&record.TransactionNo,
		&record.ResponseCode,
		&record.CallbackAt,
		&record.Message,
		&record.Amount,
		&record.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find gateway record by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find gateway record by order ID %s: %w", orderID, err)
	}

	return &record, nil
}

func (r *paymentGatewayRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*entity.PaymentGateway, error) {
	query := `
		SELECT id, payment_id, gateway, order_id, transaction_no, response_code,
		       callback_at, message, amount, created_at
		FROM payment_gateways
		WHERE payment_id = $1
	`

	var record entity.PaymentGateway
	err := r.db.QueryRow(ctx, query, paymentID).Scan(
		&record.ID,
		&record.PaymentID,
		&record.Gateway,
		&record.OrderID,
		&record.TransactionNo,
		&record.ResponseCode,
		&record.CallbackAt,
		&record.Message,
		&record.Amount,
		&record.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find gateway record by payment ID",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return nil, fmt.Errorf("find gateway record by payment ID %s: %w", paymentID.String(), err)
	}

	return &record, nil
}

func (r *paymentGatewayRepository) MarkResolvedTx(ctx context.Context, q database.Querier, orderID, responseCode, transactionNo, message string, callbackAt time.Time) (bool, error) {
	query := `
		UPDATE payment_gateways
		SET response_code = $2, transaction_no = $3, message = $4, callback_at = $5
		WHERE order_id = $1 AND callback_at IS NULL
	`

	result, err := q.Exec(ctx, query, orderID, responseCode, transactionNo, message, callbackAt)
	if err != nil {
		r.log.Error("Failed to mark gateway record resolved",
			zap.Error(err),
			zap.String("order_id", orderID),
			zap.String("response_code", responseCode),
		)
		return false, fmt.Errorf("mark gateway record %s resolved: %w", orderID, err)
	}

	return result.RowsAffected() > 0, nil
}
