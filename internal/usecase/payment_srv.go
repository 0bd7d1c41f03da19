package usecase

import (
	"context"
	"fmt"
	"time"

	"gym-booking/internal/data/entity"
	"gym-booking/internal/data/repository"
	"gym-booking/internal/dto/request"
	"gym-booking/internal/dto/response"
	"gym-booking/internal/gateway/vnpay"
	"gym-booking/pkg/database"
	"gym-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, memberID, clientIP string, req *request.CreatePaymentRequest) (*response.CreatePaymentResponse, error)
	ProcessCashPayment(ctx context.Context, paymentID string) (*response.PaymentResponse, error)
	ResolveGatewayPayment(ctx context.Context, orderID, responseCode, transactionNo string) (*GatewayOutcome, error)
	GetPayment(ctx context.Context, requesterID uuid.UUID, role string, paymentID string) (*response.PaymentResponse, error)
	GetRegistrationPayments(ctx context.Context, requesterID uuid.UUID, role string, registrationID string) ([]response.PaymentResponse, error)
}

// GatewayOutcome reports how a gateway callback was applied. Replayed means
// the order id was already resolved and the first recorded outcome was
// returned without mutating state.
type GatewayOutcome struct {
	PaymentID uuid.UUID
	Success   bool
	Replayed  bool
}

type paymentService struct {
	repo     *repository.Repository
	gateway  *vnpay.Client
	notifier Notifier
	log      *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gateway *vnpay.Client, notifier Notifier, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		log:      log.With(zap.String("service", "payment")),
	}
}

// CreatePayment opens a pending payment. For the gateway method it also
// creates the gateway record with a fresh order id and returns the signed
// redirect URL.
func (s *paymentService) CreatePayment(ctx context.Context, memberID, clientIP string, req *request.CreatePaymentRequest) (*response.CreatePaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	var registrationID *uuid.UUID
	if req.RegistrationID != nil {
		id, err := uuid.Parse(*req.RegistrationID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid registration ID %s", ErrValidation, *req.RegistrationID)
		}

		reg, err := s.repo.Registration.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if reg == nil {
			return nil, fmt.Errorf("registration %s: %w", *req.RegistrationID, ErrNotFound)
		}
		if reg.Status != entity.RegistrationStatusPendingPayment {
			return nil, fmt.Errorf("registration %s is %s: %w", *req.RegistrationID, reg.Status, ErrAlreadyProcessed)
		}
		registrationID = &id
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RegistrationID: registrationID,
		Amount:         req.Amount,
		Method:         entity.PaymentMethod(req.Method),
		Status:         entity.PaymentStatusPending,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, err
	}

	resp := &response.CreatePaymentResponse{}

	if payment.Method == entity.PaymentMethodVNPay {
		record := &entity.PaymentGateway{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			PaymentID: payment.ID,
			Gateway:   s.gateway.Name(),
			OrderID:   utils.GenerateOrderID(),
			Amount:    payment.Amount,
		}

		if err := s.repo.PaymentGateway.Create(ctx, record); err != nil {
			return nil, err
		}

		orderInfo := fmt.Sprintf("Gym payment %s", record.OrderID)
		resp.PaymentURL = s.gateway.BuildPaymentURL(record.OrderID, payment.Amount, orderInfo, clientIP, now)
		resp.Payment = response.PaymentToResponse(payment, record)

		s.log.Info("Gateway payment created",
			zap.String("payment_id", payment.ID.String()),
			zap.String("order_id", record.OrderID),
			zap.Float64("amount", payment.Amount),
		)
	} else {
		resp.Payment = response.PaymentToResponse(payment, nil)

		s.log.Info("Cash payment created",
			zap.String("payment_id", payment.ID.String()),
			zap.Float64("amount", payment.Amount),
		)
	}

	return resp, nil
}

// ProcessCashPayment settles an in-person payment. The payment transition and
// the registration activation commit together; notifications go out after.
func (s *paymentService) ProcessCashPayment(ctx context.Context, paymentID string) (*response.PaymentResponse, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payment ID %s", ErrValidation, paymentID)
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}
	if payment.Resolved() {
		return nil, fmt.Errorf("payment %s is %s: %w", paymentID, payment.Status, ErrAlreadyProcessed)
	}

	now := time.Now()

	tx, err := s.repo.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	applied, err := s.repo.Payment.ResolveTx(ctx, tx, payment.ID, entity.PaymentStatusSuccess, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrAlreadyProcessed)
	}

	payment.Status = entity.PaymentStatusSuccess
	payment.PaidAt = &now
	payment.UpdatedAt = now

	reg, err := s.driveRegistrationTx(ctx, tx, payment, true, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment transaction: %w", err)
	}

	s.log.Info("Cash payment processed",
		zap.String("payment_id", paymentID),
		zap.Float64("amount", payment.Amount),
	)

	s.emitPaymentNotifications(payment, reg, true)

	resp := response.PaymentToResponse(payment, nil)
	return &resp, nil
}

// ResolveGatewayPayment applies a verified gateway callback exactly once. The
// order id is the idempotency key: a callback for an already-resolved record
// returns the first recorded outcome and mutates nothing, even when the
// replayed response code differs from the original.
func (s *paymentService) ResolveGatewayPayment(ctx context.Context, orderID, responseCode, transactionNo string) (*GatewayOutcome, error) {
	record, err := s.repo.PaymentGateway.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("gateway order %s: %w", orderID, ErrNotFound)
	}

	if record.Resolved() {
		s.log.Warn("Replayed gateway callback ignored",
			zap.String("order_id", orderID),
			zap.String("response_code", responseCode),
		)
		return s.recordedOutcome(record), nil
	}

	payment, err := s.repo.Payment.FindByID(ctx, record.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s for order %s: %w", record.PaymentID.String(), orderID, ErrNotFound)
	}

	success := responseCode == vnpay.ResponseCodeSuccess
	now := time.Now()

	message := "payment failed by gateway, code " + responseCode
	if success {
		message = "payment confirmed by gateway"
	}

	tx, err := s.repo.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin gateway transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	applied, err := s.repo.PaymentGateway.MarkResolvedTx(ctx, tx, orderID, responseCode, transactionNo, message, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race against a concurrent callback for the same order id.
		tx.Rollback(ctx)
		resolved, err := s.repo.PaymentGateway.FindByOrderID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return s.recordedOutcome(resolved), nil
	}

	status := entity.PaymentStatusFailed
	if success {
		status = entity.PaymentStatusSuccess
	}

	paymentApplied, err := s.repo.Payment.ResolveTx(ctx, tx, payment.ID, status, now)
	if err != nil {
		return nil, err
	}

	payment.Status = status
	payment.PaidAt = &now
	payment.UpdatedAt = now

	var reg *entity.Registration
	if paymentApplied {
		reg, err = s.driveRegistrationTx(ctx, tx, payment, success, now)
		if err != nil {
			return nil, err
		}
	} else {
		// Payment was already terminal (e.g. settled in cash while the member
		// sat on the gateway page). Keep the callback stamp, leave the rest.
		s.log.Warn("Gateway callback for already-resolved payment",
			zap.String("order_id", orderID),
			zap.String("payment_id", payment.ID.String()),
		)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit gateway transaction: %w", err)
	}

	s.log.Info("Gateway payment resolved",
		zap.String("order_id", orderID),
		zap.String("payment_id", payment.ID.String()),
		zap.String("response_code", responseCode),
		zap.Bool("success", success),
	)

	if paymentApplied {
		s.emitPaymentNotifications(payment, reg, success)
	}

	return &GatewayOutcome{PaymentID: payment.ID, Success: success}, nil
}

func (s *paymentService) GetPayment(ctx context.Context, requesterID uuid.UUID, role string, paymentID string) (*response.PaymentResponse, error) {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payment ID %s", ErrValidation, paymentID)
	}

	payment, err := s.repo.Payment.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}

	if role != string(entity.RoleAdmin) {
		if payment.RegistrationID == nil {
			return nil, fmt.Errorf("payment %s: %w", paymentID, ErrForbidden)
		}
		reg, err := s.repo.Registration.FindByID(ctx, *payment.RegistrationID)
		if err != nil {
			return nil, err
		}
		if reg == nil || reg.MemberID != requesterID {
			return nil, fmt.Errorf("payment %s: %w", paymentID, ErrForbidden)
		}
	}

	gateway, err := s.repo.PaymentGateway.FindByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}

	resp := response.PaymentToResponse(payment, gateway)
	return &resp, nil
}

// GetRegistrationPayments lists every payment attempt against a registration,
// gateway detail included, for the owning member or an admin.
func (s *paymentService) GetRegistrationPayments(ctx context.Context, requesterID uuid.UUID, role string, registrationID string) ([]response.PaymentResponse, error) {
	id, err := uuid.Parse(registrationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid registration ID %s", ErrValidation, registrationID)
	}

	reg, err := s.repo.Registration.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("registration %s: %w", registrationID, ErrNotFound)
	}
	if reg.MemberID != requesterID && role != string(entity.RoleAdmin) {
		return nil, fmt.Errorf("registration %s: %w", registrationID, ErrForbidden)
	}

	payments, err := s.repo.Payment.FindByRegistrationID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]response.PaymentResponse, len(payments))
	for i, payment := range payments {
		var gateway *entity.PaymentGateway
		if payment.Method == entity.PaymentMethodVNPay {
			gateway, err = s.repo.PaymentGateway.FindByPaymentID(ctx, payment.ID)
			if err != nil {
				return nil, err
			}
		}
		items[i] = response.PaymentToResponse(payment, gateway)
	}

	return items, nil
}

// driveRegistrationTx moves a linked pending_payment registration according
// to the payment outcome, on the caller's transaction. A registration that
// already left pending_payment is logged and left alone.
func (s *paymentService) driveRegistrationTx(ctx context.Context, q database.Querier, payment *entity.Payment, success bool, now time.Time) (*entity.Registration, error) {
	if payment.RegistrationID == nil {
		return nil, nil
	}

	reg, err := s.repo.Registration.FindByID(ctx, *payment.RegistrationID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("registration %s for payment %s: %w",
			payment.RegistrationID.String(), payment.ID.String(), ErrNotFound)
	}

	if reg.Status != entity.RegistrationStatusPendingPayment {
		s.log.Warn("Payment resolved for registration no longer pending",
			zap.String("registration_id", reg.ID.String()),
			zap.String("status", string(reg.Status)),
		)
		return nil, nil
	}

	from := reg.Status
	if success {
		endDate, err := s.activationEndDate(ctx, reg)
		if err != nil {
			return nil, err
		}
		if err := reg.Activate(endDate, now); err != nil {
			return nil, fmt.Errorf("activate registration %s: %w", reg.ID.String(), err)
		}
	} else {
		if err := reg.Cancel("payment failed", now); err != nil {
			return nil, fmt.Errorf("cancel registration %s: %w", reg.ID.String(), err)
		}
	}

	applied, err := s.repo.Registration.UpdateLifecycleTx(ctx, q, reg, from)
	if err != nil {
		return nil, err
	}
	if !applied {
		s.log.Warn("Registration moved concurrently, lifecycle write skipped",
			zap.String("registration_id", reg.ID.String()),
		)
		return nil, nil
	}

	return reg, nil
}

// activationEndDate computes the end date stamped on activation: package
// duration from the start date, or the class's scheduled end.
func (s *paymentService) activationEndDate(ctx context.Context, reg *entity.Registration) (time.Time, error) {
	switch reg.Kind {
	case entity.RegistrationKindPackage:
		pkg, err := s.repo.Package.FindByID(ctx, *reg.PackageID)
		if err != nil {
			return time.Time{}, err
		}
		if pkg == nil {
			return time.Time{}, fmt.Errorf("package %s: %w", reg.PackageID.String(), ErrNotFound)
		}
		return reg.StartDate.AddDate(0, 0, pkg.DurationDays), nil

	case entity.RegistrationKindClass:
		class, err := s.repo.Class.FindByID(ctx, *reg.ClassID)
		if err != nil {
			return time.Time{}, err
		}
		if class == nil {
			return time.Time{}, fmt.Errorf("class %s: %w", reg.ClassID.String(), ErrNotFound)
		}
		return class.EndDate, nil
	}

	return time.Time{}, fmt.Errorf("%w: registration %s has unknown kind %s", ErrValidation, reg.ID.String(), reg.Kind)
}

// recordedOutcome maps an already-resolved gateway record to the outcome that
// was recorded on first delivery.
func (s *paymentService) recordedOutcome(record *entity.PaymentGateway) *GatewayOutcome {
	outcome := &GatewayOutcome{PaymentID: record.PaymentID, Replayed: true}
	if record.ResponseCode != nil && *record.ResponseCode == vnpay.ResponseCodeSuccess {
		outcome.Success = true
	}
	return outcome
}

func (s *paymentService) emitPaymentNotifications(payment *entity.Payment, reg *entity.Registration, success bool) {
	amount := fmt.Sprintf("%.0f", payment.Amount)

	if reg != nil {
		if success {
			s.notifier.Notify(reg.MemberID, "Payment received",
				fmt.Sprintf("Your payment of %s was received. Your registration is now active.", amount),
				entity.NotificationCategoryPayment)
		} else {
			s.notifier.Notify(reg.MemberID, "Payment failed",
				fmt.Sprintf("Your payment of %s could not be completed. The registration was cancelled.", amount),
				entity.NotificationCategoryPayment)
		}
	}

	if success {
		s.notifier.NotifyStaff("Payment received",
			fmt.Sprintf("Payment %s of %s settled via %s.", payment.ID.String(), amount, payment.Method),
			entity.NotificationCategoryPayment)
	}
}
