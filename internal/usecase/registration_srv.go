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

type RegistrationService interface {
	CreateRegistration(ctx context.Context, memberID string, req *request.CreateRegistrationRequest) (*response.RegistrationResponse, error)
	GetRegistration(ctx context.Context, requesterID uuid.UUID, role string, registrationID string) (*response.RegistrationResponse, error)
	GetMemberRegistrations(ctx context.Context, memberID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RegistrationResponse], error)
	CancelRegistration(ctx context.Context, requesterID uuid.UUID, role string, registrationID, reason string) error
	ExpireOverdue(ctx context.Context) (int, error)
}

type registrationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRegistrationService(repo *repository.Repository, log *zap.Logger) RegistrationService {
	return &registrationService{
		repo: repo,
		log:  log.With(zap.String("service", "registration")),
	}
}

// CreateRegistration opens a member's claim on a package or a class. The
// registration starts in pending_payment; only the payment flow activates it.
func (s *registrationService) CreateRegistration(ctx context.Context, memberID string, req *request.CreateRegistrationRequest) (*response.RegistrationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create registration validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid member ID %s", ErrValidation, memberID)
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %s", ErrValidation, req.StartDate)
	}

	kind := entity.RegistrationKind(req.Kind)

	// Exactly one of package/class backs a registration, matching its kind.
	var packageID, classID *uuid.UUID
	switch kind {
	case entity.RegistrationKindPackage:
		if req.PackageID == nil {
			return nil, fmt.Errorf("%w: package registration requires package_id", ErrValidation)
		}
		id, err := uuid.Parse(*req.PackageID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid package ID %s", ErrValidation, *req.PackageID)
		}

		pkg, err := s.repo.Package.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if pkg == nil || !pkg.IsActive {
			return nil, fmt.Errorf("package %s: %w", *req.PackageID, ErrNotFound)
		}
		packageID = &id

	case entity.RegistrationKindClass:
		if req.ClassID == nil {
			return nil, fmt.Errorf("%w: class registration requires class_id", ErrValidation)
		}
		id, err := uuid.Parse(*req.ClassID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid class ID %s", ErrValidation, *req.ClassID)
		}

		class, err := s.repo.Class.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if class == nil {
			return nil, fmt.Errorf("class %s: %w", *req.ClassID, ErrNotFound)
		}
		if class.Status != entity.ClassStatusOpen {
			return nil, fmt.Errorf("class %s: %w", class.Name, ErrClassClosed)
		}
		classID = &id

	default:
		return nil, fmt.Errorf("%w: unknown registration kind %s", ErrValidation, req.Kind)
	}

	now := time.Now()
	reg := &entity.Registration{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MemberID:   memberUUID,
		PackageID:  packageID,
		ClassID:    classID,
		Kind:       kind,
		StartDate:  startDate,
		Status:     entity.RegistrationStatusPendingPayment,
		StatusNote: "awaiting payment",
	}

	if err := s.repo.Registration.Create(ctx, reg); err != nil {
		return nil, err
	}

	s.log.Info("Registration created",
		zap.String("registration_id", reg.ID.String()),
		zap.String("member_id", memberID),
		zap.String("kind", req.Kind),
	)

	resp := response.RegistrationToResponse(reg)
	return &resp, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, requesterID uuid.UUID, role string, registrationID string) (*response.RegistrationResponse, error) {
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

	resp := response.RegistrationToResponse(reg)
	return &resp, nil
}

func (s *registrationService) GetMemberRegistrations(ctx context.Context, memberID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RegistrationResponse], error) {
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid member ID %s", ErrValidation, memberID)
	}

	regs, err := s.repo.Registration.FindByMemberID(ctx, memberUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Registration.CountByMemberID(ctx, memberUUID)
	if err != nil {
		return nil, err
	}

	items := make([]response.RegistrationResponse, len(regs))
	for i, reg := range regs {
		items[i] = response.RegistrationToResponse(reg)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// CancelRegistration handles the explicit-cancellation edges of the lifecycle
// (pending_payment -> cancelled, active -> cancelled). Payment-driven
// transitions belong to the payment service.
func (s *registrationService) CancelRegistration(ctx context.Context, requesterID uuid.UUID, role string, registrationID, reason string) error {
	id, err := uuid.Parse(registrationID)
	if err != nil {
		return fmt.Errorf("%w: invalid registration ID %s", ErrValidation, registrationID)
	}

	reg, err := s.repo.Registration.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("registration %s: %w", registrationID, ErrNotFound)
	}

	if reg.MemberID != requesterID && role != string(entity.RoleAdmin) {
		return fmt.Errorf("cancel registration %s: %w", registrationID, ErrForbidden)
	}

	from := reg.Status
	if err := reg.Cancel(reason, time.Now()); err != nil {
		return fmt.Errorf("registration %s in %s: %w", registrationID, from, err)
	}

	applied, err := s.repo.Registration.UpdateLifecycleTx(ctx, s.repo.DB, reg, from)
	if err != nil {
		return err
	}
	if !applied {
		// Another writer (most likely the payment flow) moved the row first.
		return fmt.Errorf("registration %s changed concurrently: %w", registrationID, entity.ErrInvalidTransition)
	}

	s.log.Info("Registration cancelled",
		zap.String("registration_id", registrationID),
		zap.String("requester_id", requesterID.String()),
		zap.String("reason", reason),
	)

	return nil
}

// ExpireOverdue sweeps active registrations whose end date has passed.
func (s *registrationService) ExpireOverdue(ctx context.Context) (int, error) {
	now := time.Now()

	overdue, err := s.repo.Registration.FindActiveExpiredBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, reg := range overdue {
		from := reg.Status
		if err := reg.Expire(now); err != nil {
			continue
		}

		applied, err := s.repo.Registration.UpdateLifecycleTx(ctx, s.repo.DB, reg, from)
		if err != nil {
			s.log.Error("Failed to expire registration",
				zap.Error(err),
				zap.String("registration_id", reg.ID.String()),
			)
			continue
		}
		if applied {
			expired++
		}
	}

	if expired > 0 {
		s.log.Info("Expired overdue registrations", zap.Int("count", expired))
	}

	return expired, nil
}
