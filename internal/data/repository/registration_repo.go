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

type RegistrationRepository interface {
	Create(ctx context.Context, reg *entity.Registration) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error)
	FindByMemberID(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*entity.Registration, error)
	CountByMemberID(ctx context.Context, memberID uuid.UUID) (int64, error)
	FindActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]*entity.Registration, error)

	// UpdateLifecycleTx writes the lifecycle fields of reg, guarded by the
	// status the caller read before mutating. Returns false when another
	// writer moved the row first.
	UpdateLifecycleTx(ctx context.Context, q database.Querier, reg *entity.Registration, from entity.RegistrationStatus) (bool, error)
}

type registrationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRegistrationRepository(db database.PgxIface, log *zap.Logger) RegistrationRepository {
	return &registrationRepository{
		db:  db,
		log: log.With(zap.String("repository", "registration")),
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	query := `
		INSERT INTO registrations (id, member_id, package_id, class_id, kind, start_date,
		                           end_date, status, status_note, cancel_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		reg.ID,
		reg.MemberID,
		reg.PackageID,
		reg.ClassID,
		reg.Kind,
		reg.StartDate,
		reg.EndDate,
		reg.Status,
		reg.StatusNote,
		reg.CancelReason,
		reg.CreatedAt,
		reg.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create registration",
			zap.Error(err),
			zap.String("member_id", reg.MemberID.String()),
			zap.String("kind", string(reg.Kind)),
		)
		return fmt.Errorf("create registration for member %s: %w", reg.MemberID.String(), err)
	}

	return nil
}

func (r *registrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error) {
	query := `
		SELECT id, member_id, package_id, class_id, kind, start_date, end_date,
		       status, status_note, cancel_reason, created_at, updated_at
		FROM registrations
		WHERE id = $1
	`

	var reg entity.Registration
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reg.ID,
		&reg.MemberID,
		&reg.PackageID,
		&reg.ClassID,
		&reg.Kind,
		&reg.StartDate,
		&reg.EndDate,
		&reg.Status,
		&reg.StatusNote,
		&reg.CancelReason,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find registration by ID",
			zap.Error(err),
			zap.String("registration_id", id.String()),
		)
		return nil, fmt.Errorf("find registration by ID %s: %w", id.String(), err)
	}

	return &reg, nil
}

func (r *registrationRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*entity.Registration, error) {
	query := `
		SELECT id, member_id, package_id, class_id, kind, start_date, end_date,
		       status, status_note, cancel_reason, created_at, updated_at
		FROM registrations
		WHERE member_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, memberID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find registrations by member ID",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
		)
		return nil, fmt.Errorf("find registrations by member ID %s: %w", memberID.String(), err)
	}
	defer rows.Close()

	return scanRegistrations(rows, r.log)
}

func (r *registrationRepository) CountByMemberID(ctx context.Context, memberID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE member_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, memberID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count registrations by member ID",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
		)
		return 0, fmt.Errorf("count registrations by member ID %s: %w", memberID.String(), err)
	}

	return count, nil
}

func (r *registrationRepository) FindActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]*entity.Registration, error) {
	query := `
		SELECT id, member_id, package_id, class_id, kind, start_date, end_date,
		       status, status_note, cancel_reason, created_at, updated_at
		FROM registrations
		WHERE status = 'active' AND end_date IS NOT NULL AND end_date <= $1
		ORDER BY end_date
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to find expired registrations", zap.Error(err))
		return nil, fmt.Errorf("find expired registrations: %w", err)
	}
	defer rows.Close()

	return scanRegistrations(rows, r.log)
}

func (r *registrationRepository) UpdateLifecycleTx(ctx context.Context, q database.Querier, reg *entity.Registration, from entity.RegistrationStatus) (bool, error) {
	query := `
		UPDATE registrations
		SET status = $2, status_note = $3, cancel_reason = $4, end_date = $5, updated_at = $6
		WHERE id = $1 AND status = $7
	`

	result, err := q.Exec(ctx, query,
		reg.ID,
		reg.Status,
		reg.StatusNote,
		reg.CancelReason,
		reg.EndDate,
		reg.UpdatedAt,
		from,
	)

	if err != nil {
		r.log.Error("Failed to update registration lifecycle",
			zap.Error(err),
			zap.String("registration_id", reg.ID.String()),
			zap.String("status", string(reg.Status)),
		)
		return false, fmt.Errorf("update registration %s to %s: %w", reg.ID.String(), string(reg.Status), err)
	}

	return result.RowsAffected() > 0, nil
}

func scanRegistrations(rows pgx.Rows, log *zap.Logger) ([]*entity.Registration, error) {
	var regs []*entity.Registration
	for rows.Next() {
		var reg entity.Registration
		err := rows.Scan(
			&reg.ID,
			&reg.MemberID,
			&reg.PackageID,
			&reg.ClassID,
			&reg.Kind,
			&reg.StartDate,
			&reg.EndDate,
			&reg.Status,
			&reg.StatusNote,
			&reg.CancelReason,
			&reg.CreatedAt,
			&reg.UpdatedAt,
		)
		if err != nil {
			log.Error("Failed to scan registration row", zap.Error(err))
			return nil, fmt.Errorf("scan registration row: %w", err)
		}
		regs = append(regs, &reg)
	}

	return regs, nil
}
